package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timoncotraci/To-Do-List-Checker/internal/adapters/storage"
	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()

	store, err := storage.NewFileStore(afero.NewMemMapFs(), "state.json")
	require.NoError(t, err)

	st, err := state.Load(context.Background(), store)
	require.NoError(t, err)

	return st
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	svc, err := NewAuthService(newTestState(t), logger.NewNop())
	require.NoError(t, err)

	return svc
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	assert.Equal(t, entities.StageNoAccount, svc.Status().Stage)

	status, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, entities.StageAwaitingLogin, status.Stage)
	assert.Equal(t, "alice", status.RegisteredUser)

	// Wrong password keeps the machine at awaiting-login.
	_, err = svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	assert.Equal(t, entities.StageAwaitingLogin, svc.Status().Stage)

	session, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Name)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, entities.StageLoggedIn, svc.Status().Stage)

	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, entities.StageAwaitingLogin, svc.Status().Stage)
}

func TestRegisterTrimsUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	status, err := svc.Register(ctx, ports.RegisterRequest{Username: "  alice  ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", status.RegisteredUser)
}

func TestRegisterEmptyCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	cases := []struct {
		name string
		req  ports.RegisterRequest
	}{
		{"empty username", ports.RegisterRequest{Username: "", Password: "secret"}},
		{"blank username", ports.RegisterRequest{Username: "   ", Password: "secret"}},
		{"empty password", ports.RegisterRequest{Username: "alice", Password: ""}},
		{"blank password", ports.RegisterRequest{Username: "alice", Password: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			assert.ErrorIs(t, err, entities.ErrEmptyCredentials)
		})
	}
}

func TestRegisterRejectedWhileLoggedIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, ports.RegisterRequest{Username: "bob", Password: "hunter2"})
	assert.ErrorIs(t, err, entities.ErrSessionActive)
}

func TestReRegisterOverwritesAccount(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	status, err := svc.Register(ctx, ports.RegisterRequest{Username: "bob", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "bob", status.RegisteredUser)

	_, err = svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = svc.Login(ctx, ports.LoginRequest{Username: "bob", Password: "hunter2"})
	assert.NoError(t, err)
}

func TestLoginWithoutAccount(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), ports.LoginRequest{Username: "alice", Password: "secret"})
	assert.ErrorIs(t, err, entities.ErrNoAccount)
}

func TestLoginComparesExactStrings(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	// Login does not trim; padded credentials fail.
	_, err = svc.Login(ctx, ports.LoginRequest{Username: " alice", Password: "secret"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret "})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestLogoutWithoutSession(t *testing.T) {
	svc := newTestAuthService(t)

	err := svc.Logout(context.Background())
	assert.ErrorIs(t, err, entities.ErrNotLoggedIn)
}

func TestValidateTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	session, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	name, err := svc.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// The token dies with the session.
	require.NoError(t, svc.Logout(ctx))
	_, err = svc.ValidateToken(session.Token)
	assert.ErrorIs(t, err, entities.ErrNotLoggedIn)
}

func TestAuthHistoryEntries(t *testing.T) {
	ctx := context.Background()
	st := newTestState(t)
	svc, err := NewAuthService(st, logger.NewNop())
	require.NoError(t, err)

	_, err = svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	history := st.Snapshot().History
	require.Len(t, history, 3)
	assert.Equal(t, "User alice logged out.", history[0])
	assert.Equal(t, "User alice logged in.", history[1])
	assert.Equal(t, "Registered alice", history[2])
}
