package handler

import (
	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// --- Request → Service input ---

func toRegistrationInput(req registerRequest) ports.RegistrationInput {
	return ports.RegistrationInput{
		Email:                req.Email,
		Password:             req.Password1,
		PasswordConfirmation: req.Password2,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Role:                 req.Role,
	}
}

func toProfileUpdate(req profileUpdateRequest) ports.ProfileUpdate {
	return ports.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	}
}

func toIdentityUpdate(req identityUpdateRequest) ports.IdentityUpdate {
	return ports.IdentityUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  req.IsActive,
	}
}

// --- Service result → HTTP response ---

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:           i.ID,
		Email:        i.Email,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		FullName:     i.FullName(),
		Role:         i.Role,
		ProfileImage: i.ProfileImage,
		IsActive:     i.IsActive,
		IsStaff:      i.IsStaff,
		CreatedAt:    i.CreatedAt.UTC(),
		LastLogin:    i.LastLogin,
	}
}

func toIdentityPageResponse(p *ports.IdentityPage) identityPageResponse {
	items := make([]identityResponse, 0, len(p.Items))
	for _, i := range p.Items {
		items = append(items, toIdentityResponse(i))
	}
	return identityPageResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		HasNext:    p.Page < p.TotalPages,
		HasPrev:    p.Page > 1,
	}
}
