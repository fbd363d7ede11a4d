// Package identity holds the current-user identity for the session. The
// credential list is an in-memory demo fixture; only the sanitized user
// record survives restarts, via the session store.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/logger"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/session"
)

var (
	// ErrInvalidCredentials is returned by Login on an unknown email or a
	// password mismatch; callers get no hint which of the two it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned by Register when the email is already known.
	ErrEmailTaken = errors.New("email already registered")
)

// credential pairs a user record with its bcrypt password hash. The hash
// never leaves this package.
type credential struct {
	user models.User
	hash []byte
}

// Options tunes provider behavior.
type Options struct {
	// Latency is the simulated round-trip delay applied to Login and
	// Register. Zero disables it.
	Latency time.Duration
	// BcryptCost overrides the hash cost; zero means bcrypt.DefaultCost.
	BcryptCost int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Provider owns the credential list and the current-user singleton.
type Provider struct {
	mu       sync.Mutex
	sessions *session.Store
	creds    map[string]*credential // keyed by email
	current  *models.User
	latency  time.Duration
	cost     int
	now      func() time.Time
}

// NewProvider builds a provider seeded with the demo credential records and
// restores a previously persisted identity from the session store, if any.
// sessions may be nil, in which case nothing is persisted.
func NewProvider(sessions *session.Store, opts Options) *Provider {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	p := &Provider{
		sessions: sessions,
		creds:    seedCredentials(cost, now()),
		latency:  opts.Latency,
		cost:     cost,
		now:      now,
	}
	if sessions != nil {
		if u, err := sessions.LoadCurrentUser(); err == nil && u != nil {
			p.current = u
			logger.Info("identity_restored", "user", u.ID)
		}
	}
	return p
}

// seedCredentials returns the demo credential list. User ids line up with
// the seeded content's author ids.
func seedCredentials(cost int, createdAt time.Time) map[string]*credential {
	seeds := []struct {
		id, name, email, password string
	}{
		{"1", "Demo User", "demo@threadspire.com", "password123"},
		{"2", "Jane Smith", "jane@threadspire.com", "password123"},
	}
	creds := make(map[string]*credential, len(seeds))
	for _, s := range seeds {
		h, err := bcrypt.GenerateFromPassword([]byte(s.password), cost)
		if err != nil {
			// only reachable with an out-of-range cost
			panic(err)
		}
		creds[s.email] = &credential{
			user: models.User{ID: s.id, Name: s.name, Email: s.email, CreatedAt: createdAt.UTC()},
			hash: h,
		}
	}
	return creds
}

// Login authenticates by email and password. On success the sanitized user
// becomes the current user and is persisted.
func (p *Provider) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := p.simulateDelay(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	cred, ok := p.creds[email]
	if !ok {
		logger.Warn("login_failed", "email", email)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warn("login_failed", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	u := cred.user
	p.setCurrentLocked(&u)
	logger.Info("login_ok", "user", u.ID)
	out := u
	return &out, nil
}

// Register creates a new credential record and authenticates as it.
func (p *Provider) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if err := p.simulateDelay(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.creds[email]; exists {
		logger.Warn("register_conflict", "email", email)
		return nil, ErrEmailTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, err
	}
	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: p.now().UTC(),
	}
	p.creds[email] = &credential{user: u, hash: h}
	p.setCurrentLocked(&u)
	logger.Info("register_ok", "user", u.ID)
	out := u
	return &out, nil
}

// Logout clears the current user and the persisted record. Always succeeds.
func (p *Provider) Logout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	if p.sessions != nil {
		if err := p.sessions.ClearCurrentUser(); err != nil {
			logger.Warn("session_clear_failed", "error", err)
		}
	}
	logger.Info("logout_ok")
}

// Current returns a copy of the current user, or false when unauthenticated.
func (p *Provider) Current() (models.User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return models.User{}, false
	}
	return *p.current, true
}

func (p *Provider) setCurrentLocked(u *models.User) {
	cp := *u
	p.current = &cp
	if p.sessions != nil {
		if err := p.sessions.SaveCurrentUser(&cp); err != nil {
			logger.Warn("session_save_failed", "error", err)
		}
	}
}

// simulateDelay waits for the configured artificial latency, honoring ctx.
func (p *Provider) simulateDelay(ctx context.Context) error {
	if p.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(p.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
