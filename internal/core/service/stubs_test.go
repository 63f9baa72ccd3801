package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory identity repository
// ---------------------------------------------------------------------------

type stubIdentityRepo struct {
	byID      map[string]*domain.Identity
	order     []string // insertion order, mirrors created_at ordering
	seq       int
	findErr   error // if set, FindByEmail returns this error
	createErr error // if set, Create returns this error
	setPwdErr error // if set, SetPassword returns this error
	lastLogin map[string]time.Time
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		byID:      make(map[string]*domain.Identity),
		lastLogin: make(map[string]time.Time),
	}
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == identity.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	stored := cloneIdentity(identity)
	stored.ID = fmt.Sprintf("id-%03d", r.seq)
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return cloneIdentity(stored), nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, i := range r.byID {
		if i.Email == email {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return cloneIdentity(i), nil
}

func (r *stubIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	if _, ok := r.byID[identity.ID]; !ok {
		return domain.ErrIdentityNotFound
	}
	for id, existing := range r.byID {
		if id != identity.ID && existing.Email == identity.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.byID[identity.ID] = cloneIdentity(identity)
	return nil
}

func (r *stubIdentityRepo) SetPassword(_ context.Context, id, hash string) error {
	if r.setPwdErr != nil {
		return r.setPwdErr
	}
	i, ok := r.byID[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	i.PasswordHash = hash
	return nil
}

func (r *stubIdentityRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.lastLogin[id] = at
	return nil
}

func (r *stubIdentityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrIdentityNotFound
	}
	delete(r.byID, id)
	for n, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:n], r.order[n+1:]...)
			break
		}
	}
	return nil
}

func (r *stubIdentityRepo) matching(query string) []*domain.Identity {
	q := strings.ToLower(query)
	var out []*domain.Identity
	for _, id := range r.order {
		i := r.byID[id]
		if q != "" &&
			!strings.Contains(strings.ToLower(i.FirstName), q) &&
			!strings.Contains(strings.ToLower(i.LastName), q) &&
			!strings.Contains(strings.ToLower(i.Email), q) {
			continue
		}
		out = append(out, cloneIdentity(i))
	}
	return out
}

func (r *stubIdentityRepo) Count(_ context.Context, query string) (int64, error) {
	return int64(len(r.matching(query))), nil
}

func (r *stubIdentityRepo) Search(_ context.Context, s ports.IdentitySearch) ([]*domain.Identity, error) {
	matched := r.matching(s.Query)
	if s.Skip > len(matched) {
		return []*domain.Identity{}, nil
	}
	end := s.Skip + s.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[s.Skip:end], nil
}

func (r *stubIdentityRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	out := make(map[domain.Role]int64)
	for _, i := range r.byID {
		out[i.Role]++
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Session store, reset tokens, notifier, audit
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions map[string]*domain.Session
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) DeleteForIdentity(_ context.Context, identityID string) error {
	for id, session := range s.sessions {
		if session.IdentityID == identityID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *stubSessionStore) countFor(identityID string) int {
	n := 0
	for _, session := range s.sessions {
		if session.IdentityID == identityID {
			n++
		}
	}
	return n
}

type stubResetStore struct {
	tokens     map[string]string
	seq        int
	consumeErr error
}

func newStubResetStore() *stubResetStore {
	return &stubResetStore{tokens: make(map[string]string)}
}

func (s *stubResetStore) Issue(_ context.Context, identityID string, _ time.Duration) (string, error) {
	s.seq++
	token := fmt.Sprintf("token-%d", s.seq)
	s.tokens[token] = identityID
	return token, nil
}

func (s *stubResetStore) Resolve(_ context.Context, token string) (string, error) {
	id, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrInvalidResetToken
	}
	return id, nil
}

func (s *stubResetStore) Consume(_ context.Context, token string) error {
	if s.consumeErr != nil {
		return s.consumeErr
	}
	if _, ok := s.tokens[token]; !ok {
		return domain.ErrInvalidResetToken
	}
	delete(s.tokens, token)
	return nil
}

func (s *stubResetStore) RevokeAll(_ context.Context, identityID string) error {
	for token, id := range s.tokens {
		if id == identityID {
			delete(s.tokens, token)
		}
	}
	return nil
}

type stubNotifier struct {
	sent []string // tokens
	err  error
}

func (n *stubNotifier) NotifyPasswordReset(_ context.Context, _ *domain.Identity, token string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, token)
	return nil
}

type stubAudit struct {
	events []*domain.AccountEvent
	err    error
}

func (a *stubAudit) InsertEvent(_ context.Context, e *domain.AccountEvent) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, e)
	return nil
}

func (a *stubAudit) actions() []domain.AccountAction {
	out := make([]domain.AccountAction, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	testHasher    = NewPasswordHasher(bcrypt.MinCost)
	errStore      = errors.New("store unavailable")
)

type fixture struct {
	repo     *stubIdentityRepo
	store    *stubSessionStore
	resets   *stubResetStore
	notifier *stubNotifier
	audit    *stubAudit
	sessions *SessionManager
	auth     *AuthService
	account  *AccountService
	admin    *AdminService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newStubIdentityRepo(),
		store:    newStubSessionStore(),
		resets:   newStubResetStore(),
		notifier: &stubNotifier{},
		audit:    &stubAudit{},
	}
	v := NewCredentialValidator(f.repo, testHasher)
	f.sessions = NewSessionManager(f.store, f.repo, "secret", time.Hour)
	f.auth = NewAuthService(f.repo, v, testHasher, f.sessions, f.audit, discardLogger)
	f.account = NewAccountService(f.repo, v, testHasher, f.sessions, f.resets, f.notifier, time.Hour, f.audit, discardLogger)
	f.admin = NewAdminService(f.repo, v, testHasher, f.sessions, f.audit, discardLogger)
	return f
}

// seed stores an identity directly, bypassing validation.
func (f *fixture) seed(email, password string, role domain.Role) *domain.Identity {
	hash, err := testHasher.Hash(password)
	if err != nil {
		panic(err)
	}
	created, err := f.repo.Create(context.Background(), &domain.Identity{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		IsStaff:      role == domain.RoleAdmin,
	})
	if err != nil {
		panic(err)
	}
	return created
}

func registration(email, p1, p2 string, role domain.Role) ports.RegistrationInput {
	return ports.RegistrationInput{
		Email:                email,
		Password:             p1,
		PasswordConfirmation: p2,
		FirstName:            "Ada",
		LastName:             "Lovelace",
		Role:                 role,
	}
}
