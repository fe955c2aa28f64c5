package service

import (
	"context"
	"sync"

	"github.com/trekha/identity-service/internal/core/domain"
)

// --- Principal store ---

type stubPrincipalRepo struct {
	mu        sync.Mutex
	seq       int64
	byID      map[int64]*domain.Principal
	updateErr error
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{byID: make(map[int64]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Roles = append([]string(nil), p.Roles...)
	return &clone
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if p.Email != "" && existing.Email == p.Email {
			return nil, domain.ErrEmailTaken
		}
		if p.MobileNumber != "" && existing.MobileNumber == p.MobileNumber {
			return nil, domain.ErrMobileTaken
		}
	}
	r.seq++
	clone := clonePrincipal(p)
	clone.ID = r.seq
	r.byID[clone.ID] = clone
	return clonePrincipal(clone), nil
}

func (r *stubPrincipalRepo) Update(_ context.Context, p *domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrPrincipalNotFound
	}
	r.byID[p.ID] = clonePrincipal(p)
	return nil
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id int64) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return clonePrincipal(p), nil
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Email != "" && p.Email == email {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) FindByMobile(_ context.Context, mobile string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.MobileNumber != "" && p.MobileNumber == mobile {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *stubPrincipalRepo) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	_, err := r.FindByMobile(ctx, mobile)
	if err == nil {
		return true, nil
	}
	return false, nil
}

// --- Profile store ---

type stubProfileRepo struct {
	byPrincipal map[int64]*domain.PassengerProfile
	createErr   error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byPrincipal: make(map[int64]*domain.PassengerProfile)}
}

func (r *stubProfileRepo) Create(_ context.Context, profile *domain.PassengerProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *profile
	r.byPrincipal[profile.PrincipalID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByPrincipal(_ context.Context, principalID int64) (*domain.PassengerProfile, error) {
	if p, ok := r.byPrincipal[principalID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrPrincipalNotFound
}

// --- Token stores ---

type stubVerificationTokenRepo struct {
	mu          sync.Mutex
	byPrincipal map[int64]*domain.VerificationToken
}

func newStubVerificationTokenRepo() *stubVerificationTokenRepo {
	return &stubVerificationTokenRepo{byPrincipal: make(map[int64]*domain.VerificationToken)}
}

func (r *stubVerificationTokenRepo) Save(_ context.Context, token *domain.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.byPrincipal[token.PrincipalID] = &clone
	return nil
}

func (r *stubVerificationTokenRepo) FindByToken(_ context.Context, token string) (*domain.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byPrincipal {
		if t.Token == token {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (r *stubVerificationTokenRepo) FindByPrincipal(_ context.Context, principalID int64) (*domain.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byPrincipal[principalID]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, domain.ErrTokenNotFound
}

func (r *stubVerificationTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.byPrincipal {
		if t.Token == token {
			delete(r.byPrincipal, id)
			return nil
		}
	}
	return domain.ErrTokenNotFound
}

type stubResetTokenRepo struct {
	mu          sync.Mutex
	byPrincipal map[int64]*domain.PasswordResetToken
}

func newStubResetTokenRepo() *stubResetTokenRepo {
	return &stubResetTokenRepo{byPrincipal: make(map[int64]*domain.PasswordResetToken)}
}

func (r *stubResetTokenRepo) Save(_ context.Context, token *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.byPrincipal[token.PrincipalID] = &clone
	return nil
}

func (r *stubResetTokenRepo) FindByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byPrincipal {
		if t.Token == token {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (r *stubResetTokenRepo) FindByPrincipal(_ context.Context, principalID int64) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byPrincipal[principalID]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, domain.ErrTokenNotFound
}

func (r *stubResetTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.byPrincipal {
		if t.Token == token {
			delete(r.byPrincipal, id)
			return nil
		}
	}
	return domain.ErrTokenNotFound
}

// --- Collaborators ---

type sentEmail struct {
	to      string
	subject string
	body    string
}

type sentSMS struct {
	to   string
	body string
}

type stubDispatcher struct {
	emails []sentEmail
	sms    []sentSMS
}

func (d *stubDispatcher) DispatchEmail(to, subject, body string) {
	d.emails = append(d.emails, sentEmail{to: to, subject: subject, body: body})
}

func (d *stubDispatcher) DispatchSMS(to, body string) {
	d.sms = append(d.sms, sentSMS{to: to, body: body})
}

type stubLimiter struct {
	allow bool
	err   error
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	return l.allow, l.err
}

// stubHasher is a fast deterministic stand-in for bcrypt.
type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (stubHasher) Matches(plain, digest string) bool { return digest == "hashed:"+plain }

// stubTxRunner applies fn directly; atomicity is the store's concern.
type stubTxRunner struct{}

func (stubTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// rollbackTxRunner snapshots the in-memory stores before fn and restores
// them when fn fails, mirroring a session abort.
type rollbackTxRunner struct {
	principals *stubPrincipalRepo
	profiles   *stubProfileRepo
	tokens     *stubVerificationTokenRepo
}

func (r rollbackTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	principals := make(map[int64]*domain.Principal, len(r.principals.byID))
	for id, p := range r.principals.byID {
		principals[id] = clonePrincipal(p)
	}
	profiles := make(map[int64]*domain.PassengerProfile, len(r.profiles.byPrincipal))
	for id, p := range r.profiles.byPrincipal {
		clone := *p
		profiles[id] = &clone
	}
	tokens := make(map[int64]*domain.VerificationToken, len(r.tokens.byPrincipal))
	for id, t := range r.tokens.byPrincipal {
		clone := *t
		tokens[id] = &clone
	}

	if err := fn(ctx); err != nil {
		r.principals.byID = principals
		r.profiles.byPrincipal = profiles
		r.tokens.byPrincipal = tokens
		return err
	}
	return nil
}
