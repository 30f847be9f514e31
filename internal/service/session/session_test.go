package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/mocks"
	statemocks "github.com/cafetec/cafetec-client/internal/mocks/state"
	"github.com/cafetec/cafetec-client/internal/ports"
)

func studentProfile() auth.Profile {
	raw := json.RawMessage(`{"id_usuario":7,"nombre":"Ana","rol":"estudiante"}`)
	p, err := auth.ParseProfile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func newManager(t *testing.T, store ports.StateStore) (*Manager, *mocks.MockAuthAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	return NewManager(ManagerOptions{API: api, Store: store}), api
}

func TestManager_StartsLoading(t *testing.T) {
	m, _ := newManager(t, statemocks.NewMemoryStore())

	s := m.Snapshot()
	assert.True(t, s.Loading)
	assert.Nil(t, s.Profile)
	assert.Empty(t, s.Roles)
}

func TestRestore_NoStoredToken(t *testing.T) {
	m, _ := newManager(t, statemocks.NewMemoryStore())

	m.Restore(context.Background())

	s := m.Snapshot()
	assert.False(t, s.Loading)
	assert.False(t, s.Authenticated())
}

func TestRestore_ValidToken(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	m, api := newManager(t, store)

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(studentProfile(), nil)

	m.Restore(context.Background())

	s := m.Snapshot()
	assert.False(t, s.Loading)
	require.True(t, s.Authenticated())
	assert.Equal(t, "Ana", s.Profile.Name)
	assert.True(t, s.Roles.Has(auth.RoleStudent))

	token, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestRestore_InvalidTokenDiscarded(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "stale")
	m, api := newManager(t, store)

	api.EXPECT().Profile(gomock.Any(), "stale").Return(auth.Profile{}, errors.New("unauthorized"))

	// must not panic or propagate the failure
	m.Restore(context.Background())

	s := m.Snapshot()
	assert.False(t, s.Loading)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Roles)

	_, err := store.Get(context.Background(), ports.StateKeyToken)
	assert.ErrorIs(t, err, ports.ErrStateNotFound, "stale token removed from storage")
}

func TestRestore_OncePerProcess(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	m, api := newManager(t, store)

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(studentProfile(), nil).Times(1)

	m.Restore(context.Background())
	m.Restore(context.Background())
	m.Restore(context.Background())
}

func TestLogin_Success(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, api := newManager(t, store)

	gomock.InOrder(
		api.EXPECT().Login(gomock.Any(), "ana@tec.mx", "hunter2").
			Return(ports.LoginResult{Token: "tok-2"}, nil),
		api.EXPECT().Profile(gomock.Any(), "tok-2").Return(studentProfile(), nil),
	)

	require.NoError(t, m.Login(context.Background(), "ana@tec.mx", "hunter2"))

	s := m.Snapshot()
	require.True(t, s.Authenticated())
	assert.True(t, s.Roles.Has(auth.RoleStudent))

	stored, err := store.Get(context.Background(), ports.StateKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", stored)
}

func TestLogin_BadCredentials(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "old-token")
	m, api := newManager(t, store)

	api.EXPECT().Login(gomock.Any(), "x", "y").
		Return(ports.LoginResult{}, errors.New("bad credentials"))

	err := m.Login(context.Background(), "x", "y")
	require.EqualError(t, err, "bad credentials")

	stored, getErr := store.Get(context.Background(), ports.StateKeyToken)
	require.NoError(t, getErr)
	assert.Equal(t, "old-token", stored, "stored token unchanged on login failure")

	s := m.Snapshot()
	assert.False(t, s.Loading)
	assert.False(t, s.Authenticated())
}

func TestLogin_ProfileFetchFails_NoPartialSession(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, api := newManager(t, store)

	gomock.InOrder(
		api.EXPECT().Login(gomock.Any(), "x", "y").
			Return(ports.LoginResult{Token: "tok-3"}, nil),
		api.EXPECT().Profile(gomock.Any(), "tok-3").
			Return(auth.Profile{}, errors.New("backend down")),
	)

	err := m.Login(context.Background(), "x", "y")
	require.Error(t, err)

	_, getErr := store.Get(context.Background(), ports.StateKeyToken)
	assert.ErrorIs(t, getErr, ports.ErrStateNotFound, "no token without a profile")
	assert.False(t, m.Snapshot().Authenticated())
}

func TestLogin_PersistsTokenBeforeProfileFetch(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, api := newManager(t, store)

	api.EXPECT().Login(gomock.Any(), "x", "y").
		Return(ports.LoginResult{Token: "tok-4"}, nil)
	api.EXPECT().Profile(gomock.Any(), "tok-4").
		DoAndReturn(func(ctx context.Context, token string) (auth.Profile, error) {
			stored, err := store.Get(ctx, ports.StateKeyToken)
			require.NoError(t, err)
			require.Equal(t, "tok-4", stored, "token persisted before profile fetch")
			return studentProfile(), nil
		})

	require.NoError(t, m.Login(context.Background(), "x", "y"))
}

func TestLogin_RejectsConcurrentSubmit(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, api := newManager(t, store)

	release := make(chan struct{})
	api.EXPECT().Login(gomock.Any(), "x", "y").
		DoAndReturn(func(context.Context, string, string) (ports.LoginResult, error) {
			<-release
			return ports.LoginResult{Token: "tok-5"}, nil
		})
	api.EXPECT().Profile(gomock.Any(), "tok-5").Return(studentProfile(), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Login(context.Background(), "x", "y")
	}()

	// second submit while the first is outstanding
	var second error
	require.Eventually(t, func() bool {
		second = m.Login(context.Background(), "x", "y")
		return errors.Is(second, ErrLoginInFlight)
	}, time.Second, time.Millisecond)

	close(release)
	wg.Wait()
	assert.True(t, m.Snapshot().Authenticated())
}

func TestLogin_LoadingDuringResolution(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, api := newManager(t, store)

	api.EXPECT().Login(gomock.Any(), "x", "y").
		Return(ports.LoginResult{Token: "tok-6"}, nil)
	api.EXPECT().Profile(gomock.Any(), "tok-6").
		DoAndReturn(func(context.Context, string) (auth.Profile, error) {
			assert.True(t, m.Snapshot().Loading, "loading while profile unresolved")
			return studentProfile(), nil
		})

	require.NoError(t, m.Login(context.Background(), "x", "y"))
	assert.False(t, m.Snapshot().Loading)
}

func TestLogout_Idempotent(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	m, api := newManager(t, store)

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(studentProfile(), nil)
	m.Restore(context.Background())
	require.True(t, m.Snapshot().Authenticated())

	m.Logout(context.Background())
	s := m.Snapshot()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Roles)
	_, err := store.Get(context.Background(), ports.StateKeyToken)
	assert.ErrorIs(t, err, ports.ErrStateNotFound)

	// safe to call when already logged out
	m.Logout(context.Background())
	assert.False(t, m.Snapshot().Authenticated())
}

func TestSubscribe_NotifiedAndCancel(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, _ := newManager(t, store)

	var seen []auth.Session
	cancel := m.Subscribe(func(s auth.Session) { seen = append(seen, s) })

	m.Restore(context.Background())
	require.Len(t, seen, 1)
	assert.False(t, seen[0].Loading)

	cancel()
	m.Logout(context.Background())
	assert.Len(t, seen, 1, "no notifications after cancel")
}

func TestRegister_NoSessionEstablished(t *testing.T) {
	store := statemocks.NewMemoryStore()
	m, api := newManager(t, store)

	reg := ports.Registration{Name: "Ana", Email: "ana@tec.mx", Password: "hunter2"}
	api.EXPECT().Register(gomock.Any(), reg).Return(nil)

	require.NoError(t, m.Register(context.Background(), reg))
	assert.False(t, m.Snapshot().Authenticated())
	assert.Equal(t, 0, store.Len())
}
