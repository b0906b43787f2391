package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	mu       sync.Mutex
	accounts map[string]string
	sessions map[string]string
	signOuts []string
	down     bool
}

func newStubAuth() *stubAuth {
	return &stubAuth{accounts: make(map[string]string), sessions: make(map[string]string)}
}

func (s *stubAuth) issue(email string) *auth.SignInResult {
	token := "token-" + email
	s.sessions[token] = email
	return &auth.SignInResult{Identity: auth.Identity{AccountID: "a-" + email, Email: email}, Token: token}
}

func (s *stubAuth) SignUp(_ context.Context, email, password string) (*auth.SignInResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(password) < 6 {
		return nil, auth.ErrWeakPassword
	}
	if _, ok := s.accounts[email]; ok {
		return nil, auth.ErrEmailAlreadyExists
	}
	s.accounts[email] = password
	return s.issue(email), nil
}

func (s *stubAuth) SignIn(_ context.Context, email, password string) (*auth.SignInResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accounts[email] != password || password == "" {
		return nil, auth.ErrInvalidCredentials
	}
	return s.issue(email), nil
}

func (s *stubAuth) SignOut(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOuts = append(s.signOuts, token)
	if s.down {
		return errors.New("unavailable")
	}
	delete(s.sessions, token)
	return nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errors.New("unavailable")
	}
	email, ok := s.sessions[token]
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	return &auth.Identity{AccountID: "a-" + email, Email: email}, nil
}

type recorder struct {
	mu     sync.Mutex
	states []State
	emails []string
}

func (r *recorder) listen(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.State)
	email := ""
	if s.Identity != nil {
		email = s.Identity.Email
	}
	r.emails = append(r.emails, email)
}

func (r *recorder) seen() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func TestGate_SubscribeDeliversCurrentState(t *testing.T) {
	t.Parallel()

	gate := NewGate(newStubAuth(), nil, nil)

	var rec recorder
	unsubscribe := gate.Subscribe(rec.listen)
	defer unsubscribe()

	assert.Equal(t, []State{StateUnknown}, rec.seen())

	require.NoError(t, gate.Restore(context.Background()))
	assert.Equal(t, []State{StateUnknown, StateUnauthenticated}, rec.seen())

	var late recorder
	gate.Subscribe(late.listen)
	assert.Equal(t, []State{StateUnauthenticated}, late.seen())
}

func TestGate_SignUpSignInSignOut(t *testing.T) {
	t.Parallel()

	svc := newStubAuth()
	gate := NewGate(svc, nil, nil)
	ctx := context.Background()
	require.NoError(t, gate.Restore(ctx))

	var rec recorder
	gate.Subscribe(rec.listen)

	require.NoError(t, gate.SignUp(ctx, "ops@example.com", "secret1"))
	assert.Equal(t, StateAuthenticated, gate.Current().State)
	assert.Equal(t, "ops@example.com", gate.Current().Identity.Email)
	assert.Equal(t, "token-ops@example.com", gate.Token())

	require.NoError(t, gate.SignOut(ctx))
	assert.Equal(t, []string{"token-ops@example.com"}, svc.signOuts)
	assert.Empty(t, gate.Token())

	require.NoError(t, gate.SignIn(ctx, "ops@example.com", "secret1"))

	assert.Equal(t, []State{StateUnauthenticated, StateAuthenticated, StateUnauthenticated, StateAuthenticated}, rec.seen())
	assert.Equal(t, []string{"", "ops@example.com", "", "ops@example.com"}, rec.emails)
}

func TestGate_FailuresKeepState(t *testing.T) {
	t.Parallel()

	gate := NewGate(newStubAuth(), nil, nil)
	ctx := context.Background()
	require.NoError(t, gate.Restore(ctx))

	var rec recorder
	gate.Subscribe(rec.listen)

	err := gate.SignIn(ctx, "ops@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = gate.SignUp(ctx, "ops@example.com", "123")
	var authErr *auth.Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, auth.KindWeakPassword, authErr.Kind)
	assert.NotEmpty(t, authErr.Reason)

	assert.Equal(t, StateUnauthenticated, gate.Current().State)
	assert.Equal(t, []State{StateUnauthenticated}, rec.seen())
}

func TestGate_Unsubscribe(t *testing.T) {
	t.Parallel()

	gate := NewGate(newStubAuth(), nil, nil)

	var rec recorder
	unsubscribe := gate.Subscribe(rec.listen)
	unsubscribe()
	unsubscribe()

	require.NoError(t, gate.SignUp(context.Background(), "ops@example.com", "secret1"))
	assert.Equal(t, []State{StateUnknown}, rec.seen())
}

func TestGate_SignOutClearsLocalStateOnServerError(t *testing.T) {
	t.Parallel()

	svc := newStubAuth()
	gate := NewGate(svc, nil, nil)
	ctx := context.Background()
	require.NoError(t, gate.SignUp(ctx, "ops@example.com", "secret1"))

	svc.down = true
	assert.Error(t, gate.SignOut(ctx))
	assert.Equal(t, StateUnauthenticated, gate.Current().State)
	assert.Empty(t, gate.Token())
}

func TestGate_RestoreFromTokenFile(t *testing.T) {
	t.Parallel()

	svc := newStubAuth()
	tokens := NewFileTokenStore(filepath.Join(t.TempDir(), "cli", "token"))
	ctx := context.Background()

	first := NewGate(svc, tokens, nil)
	require.NoError(t, first.SignUp(ctx, "ops@example.com", "secret1"))

	second := NewGate(svc, tokens, nil)
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, StateAuthenticated, second.Current().State)
	assert.Equal(t, "token-ops@example.com", second.Token())

	require.NoError(t, second.SignOut(ctx))
	saved, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)

	require.NoError(t, tokens.Save("token-revoked"))
	third := NewGate(svc, tokens, nil)
	require.NoError(t, third.Restore(ctx))
	assert.Equal(t, StateUnauthenticated, third.Current().State)
	saved, err = tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestGate_RestoreTransportError(t *testing.T) {
	t.Parallel()

	svc := newStubAuth()
	svc.down = true
	tokens := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, tokens.Save("token-x"))

	gate := NewGate(svc, tokens, nil)
	assert.Error(t, gate.Restore(context.Background()))
	assert.Equal(t, StateUnauthenticated, gate.Current().State)

	saved, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-x", saved)
}
