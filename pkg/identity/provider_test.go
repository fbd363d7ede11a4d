package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/session"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(nil, Options{BcryptCost: bcrypt.MinCost})
}

func TestLoginSuccess(t *testing.T) {
	p := newTestProvider(t)

	u, err := p.Login(context.Background(), "demo@threadspire.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "Demo User", u.Name)

	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "1", cur.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Login(context.Background(), "demo@threadspire.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.Login(context.Background(), "nobody@threadspire.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok := p.Current()
	assert.False(t, ok)
}

func TestRegisterAndLoginBack(t *testing.T) {
	p := newTestProvider(t)

	u, err := p.Register(context.Background(), "New User", "new@example.com", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "1", u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	// registration authenticates immediately
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, cur.ID)

	p.Logout()
	_, ok = p.Current()
	assert.False(t, ok)

	back, err := p.Login(context.Background(), "new@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, back.ID)
}

func TestRegisterEmailTaken(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Register(context.Background(), "Imposter", "demo@threadspire.com", "whatever")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = p.Register(context.Background(), "A", "a@example.com", "whatever")
	require.NoError(t, err)
	_, err = p.Register(context.Background(), "B", "a@example.com", "whatever")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	p := newTestProvider(t)
	// logging out while unauthenticated is fine
	p.Logout()
	_, ok := p.Current()
	assert.False(t, ok)
}

func TestCurrentReturnsCopy(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.Login(context.Background(), "demo@threadspire.com", "password123")
	require.NoError(t, err)

	cur, _ := p.Current()
	cur.Name = "mutated"
	again, _ := p.Current()
	assert.Equal(t, "Demo User", again.Name)
}

func TestSimulatedLatencyHonorsContext(t *testing.T) {
	p := NewProvider(nil, Options{Latency: 5 * time.Second, BcryptCost: bcrypt.MinCost})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Login(ctx, "demo@threadspire.com", "password123")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIdentityPersistsAcrossProviders(t *testing.T) {
	dir := t.TempDir()
	sessions, err := session.Open(dir)
	require.NoError(t, err)

	p := NewProvider(sessions, Options{BcryptCost: bcrypt.MinCost})
	_, err = p.Login(context.Background(), "jane@threadspire.com", "password123")
	require.NoError(t, err)
	require.NoError(t, sessions.Close())

	// a fresh provider over the same KV restores the identity
	sessions2, err := session.Open(dir)
	require.NoError(t, err)
	defer sessions2.Close()

	p2 := NewProvider(sessions2, Options{BcryptCost: bcrypt.MinCost})
	cur, ok := p2.Current()
	require.True(t, ok)
	assert.Equal(t, "2", cur.ID)
	assert.Equal(t, "Jane Smith", cur.Name)
}

func TestLogoutClearsPersistedIdentity(t *testing.T) {
	dir := t.TempDir()
	sessions, err := session.Open(dir)
	require.NoError(t, err)

	p := NewProvider(sessions, Options{BcryptCost: bcrypt.MinCost})
	_, err = p.Login(context.Background(), "demo@threadspire.com", "password123")
	require.NoError(t, err)
	p.Logout()
	require.NoError(t, sessions.Close())

	sessions2, err := session.Open(dir)
	require.NoError(t, err)
	defer sessions2.Close()

	p2 := NewProvider(sessions2, Options{BcryptCost: bcrypt.MinCost})
	_, ok := p2.Current()
	assert.False(t, ok)
}
