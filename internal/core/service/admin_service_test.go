package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

func TestAdminService_DeniesNonAdmins(t *testing.T) {
	f := newFixture()
	student := f.seed("s@x.com", "goodpass1", domain.RoleStudent)
	lecturer := f.seed("l@x.com", "goodpass1", domain.RoleLecturer)
	ctx := context.Background()

	for _, actor := range []*domain.Identity{nil, student, lecturer} {
		if _, err := f.admin.Search(ctx, actor, "", 1, 10); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Search: expected ErrUnauthorized, got %v", err)
		}
		if _, err := f.admin.Get(ctx, actor, student.ID); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Get: expected ErrUnauthorized, got %v", err)
		}
		if _, err := f.admin.Create(ctx, actor, registration("n@x.com", "goodpass1", "goodpass1", "")); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Create: expected ErrUnauthorized, got %v", err)
		}
		if _, err := f.admin.Update(ctx, actor, student.ID, ports.IdentityUpdate{}); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Update: expected ErrUnauthorized, got %v", err)
		}
		if err := f.admin.Delete(ctx, actor, student.ID); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Delete: expected ErrUnauthorized, got %v", err)
		}
		if _, err := f.admin.Overview(ctx, actor); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Overview: expected ErrUnauthorized, got %v", err)
		}
		if _, err := f.admin.ApprovalQueue(ctx, actor, "courses"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("ApprovalQueue: expected ErrUnauthorized, got %v", err)
		}
	}
	if len(f.repo.byID) != 2 {
		t.Fatalf("denied actions must not change the store")
	}
}

func seedMany(f *fixture, n int) {
	for i := 0; i < n; i++ {
		f.seed(fmt.Sprintf("user%02d@x.com", i), "goodpass1", domain.RoleStudent)
	}
}

func TestAdminService_Search_IsIdempotent(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)
	seedMany(f, 12)

	first, err := f.admin.Search(context.Background(), admin, "user", 2, 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	second, err := f.admin.Search(context.Background(), admin, "user", 2, 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("page sizes differ: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID {
			t.Fatalf("item %d differs: %s vs %s", i, first.Items[i].ID, second.Items[i].ID)
		}
	}
	if first.Total != 12 || first.TotalPages != 3 {
		t.Fatalf("unexpected totals: total=%d pages=%d", first.Total, first.TotalPages)
	}
}

func TestAdminService_Search_ClampsPages(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)
	seedMany(f, 12)
	ctx := context.Background()

	cases := []struct {
		name       string
		page, size int
		wantPage   int
		wantSize   int
		wantItems  int
	}{
		{"first page", 1, 5, 1, 5, 5},
		{"last page", 3, 5, 3, 5, 2},
		{"past the end", 99, 5, 3, 5, 2},
		{"zero page", 0, 5, 1, 5, 5},
		{"negative page", -4, 5, 1, 5, 5},
		{"default size", 1, 0, 1, DefaultPageSize, 12},
		{"oversized", 1, 1000, 1, MaxPageSize, 12},
	}
	for _, tc := range cases {
		got, err := f.admin.Search(ctx, admin, "user", tc.page, tc.size)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got.Page != tc.wantPage || got.PageSize != tc.wantSize || len(got.Items) != tc.wantItems {
			t.Errorf("%s: got page=%d size=%d items=%d", tc.name, got.Page, got.PageSize, len(got.Items))
		}
	}
}

func TestAdminService_Search_NoMatches(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)

	got, err := f.admin.Search(context.Background(), admin, "nobody", 5, 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if got.Total != 0 || got.Page != 1 || got.TotalPages != 1 || len(got.Items) != 0 {
		t.Fatalf("unexpected empty page: %+v", got)
	}
}

func TestAdminService_Create_Admin(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)

	created, err := f.admin.Create(context.Background(), admin, registration("second@x.com", "goodpass1", "goodpass1", domain.RoleAdmin))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Role != domain.RoleAdmin || !created.IsStaff {
		t.Fatalf("expected staff admin, got role=%s staff=%v", created.Role, created.IsStaff)
	}
	last := f.audit.events[len(f.audit.events)-1]
	if last.Action != domain.ActionIdentityCreated || last.ActorID != admin.ID {
		t.Fatalf("unexpected audit event: %+v", last)
	}
}

func TestAdminService_Update(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)
	target := f.seed("t@x.com", "goodpass1", domain.RoleStudent)
	f.seed("other@x.com", "goodpass1", domain.RoleStudent)
	ctx := context.Background()

	lecturer := domain.RoleLecturer
	updated, err := f.admin.Update(ctx, admin, target.ID, ports.IdentityUpdate{Role: &lecturer, Email: strPtr("T2@x.com")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Role != domain.RoleLecturer || updated.Email != "t2@x.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	_, err = f.admin.Update(ctx, admin, target.ID, ports.IdentityUpdate{Email: strPtr("other@x.com")})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// Keeping one's own email is not a duplicate.
	if _, err := f.admin.Update(ctx, admin, target.ID, ports.IdentityUpdate{Email: strPtr("t2@x.com")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bogus := domain.Role("guest")
	if _, err := f.admin.Update(ctx, admin, target.ID, ports.IdentityUpdate{Role: &bogus}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	if _, err := f.admin.Update(ctx, admin, "missing", ports.IdentityUpdate{}); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestAdminService_Update_DeactivateEndsSessions(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)
	target := f.seed("t@x.com", "goodpass1", domain.RoleStudent)
	result, err := f.auth.Login(context.Background(), "t@x.com", "goodpass1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	inactive := false
	if _, err := f.admin.Update(context.Background(), admin, target.ID, ports.IdentityUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if n := f.store.countFor(target.ID); n != 0 {
		t.Fatalf("expected sessions to be destroyed, %d remain", n)
	}
	if _, _, err := f.sessions.Resolve(context.Background(), result.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAdminService_Delete(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)
	target := f.seed("t@x.com", "goodpass1", domain.RoleStudent)
	if _, err := f.auth.Login(context.Background(), "t@x.com", "goodpass1"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := f.admin.Delete(context.Background(), admin, target.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := f.repo.byID[target.ID]; ok {
		t.Fatalf("identity not deleted")
	}
	if n := f.store.countFor(target.ID); n != 0 {
		t.Fatalf("expected sessions to be destroyed, %d remain", n)
	}
	if err := f.admin.Delete(context.Background(), admin, target.ID); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestAdminService_Overview(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)
	seedMany(f, 3)

	counts, err := f.admin.Overview(context.Background(), admin)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if counts[domain.RoleStudent] != 3 || counts[domain.RoleAdmin] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if n, ok := counts[domain.RoleLecturer]; !ok || n != 0 {
		t.Fatalf("expected zero lecturers to be reported, got %v", counts)
	}
}

func TestAdminService_ApprovalQueue(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@x.com", "goodpass1", domain.RoleAdmin)

	view, err := f.admin.ApprovalQueue(context.Background(), admin, "results")
	if err != nil {
		t.Fatalf("ApprovalQueue returned error: %v", err)
	}
	if view.Queue != domain.QueueResults || view.Items == nil {
		t.Fatalf("unexpected view: %+v", view)
	}
	if _, err := f.admin.ApprovalQueue(context.Background(), admin, "grades"); !errors.Is(err, domain.ErrApprovalQueueNotFound) {
		t.Fatalf("expected ErrApprovalQueueNotFound, got %v", err)
	}
}

func TestAdminService_EnsureBootstrapAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.admin.EnsureBootstrapAdmin(ctx, "Root@Campus.example", "rootpass1")
	if err != nil || !created {
		t.Fatalf("expected bootstrap admin to be created, got created=%v err=%v", created, err)
	}
	root, err := f.repo.FindByEmail(ctx, "root@campus.example")
	if err != nil {
		t.Fatalf("bootstrap admin not stored: %v", err)
	}
	if root.Role != domain.RoleAdmin || !root.IsSuperuser || !root.IsStaff {
		t.Fatalf("unexpected bootstrap admin: %+v", root)
	}

	created, err = f.admin.EnsureBootstrapAdmin(ctx, "root@campus.example", "rootpass1")
	if err != nil || created {
		t.Fatalf("second call must be a no-op, got created=%v err=%v", created, err)
	}

	if _, err := f.admin.EnsureBootstrapAdmin(ctx, "other@campus.example", "password"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
