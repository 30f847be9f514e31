package guard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/mocks"
	statemocks "github.com/cafetec/cafetec-client/internal/mocks/state"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/session"
)

func profileWithRole(role string) auth.Profile {
	raw := json.RawMessage(`{"id_usuario":3,"nombre":"Eva","rol":"` + role + `"}`)
	p, err := auth.ParseProfile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func newSession(t *testing.T, store ports.StateStore) (*session.Manager, *mocks.MockAuthAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	return session.NewManager(session.ManagerOptions{API: api, Store: store}), api
}

func TestGuard_NoNavigationWhileLoading(t *testing.T) {
	sessions, _ := newSession(t, statemocks.NewMemoryStore())
	nav := statemocks.NewRecordingNavigator()

	g := NewAdmin(sessions, nav, nil)
	defer g.Close()

	assert.Equal(t, StateChecking, g.State())
	assert.Empty(t, nav.Events(), "no navigation while the session resolves")
}

func TestGuard_DeniesOnceToFallback(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	sessions, api := newSession(t, store)
	nav := statemocks.NewRecordingNavigator()

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(profileWithRole("estudiante"), nil)

	g := NewAdmin(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())

	assert.Equal(t, StateDenied, g.State())
	events := nav.Events()
	require.Len(t, events, 1, "denial navigates exactly once")
	assert.Equal(t, ports.RouteStudentDashboard, events[0].Route)
	assert.True(t, events[0].Replace, "denial replaces history, never pushes")
}

func TestGuard_GrantsMatchingRole(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	sessions, api := newSession(t, store)
	nav := statemocks.NewRecordingNavigator()

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(profileWithRole("administrador"), nil)

	g := NewAdmin(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())

	assert.Equal(t, StateGranted, g.State())
	assert.Empty(t, nav.Events())
}

func TestGuard_StudentFallbackIsLogin(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	sessions, api := newSession(t, store)
	nav := statemocks.NewRecordingNavigator()

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(profileWithRole("administrador"), nil)

	g := NewStudent(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())

	assert.Equal(t, StateDenied, g.State())
	events := nav.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ports.RouteLogin, events[0].Route)
}

func TestGuard_AbsentSessionDenied(t *testing.T) {
	sessions, _ := newSession(t, statemocks.NewMemoryStore())
	nav := statemocks.NewRecordingNavigator()

	g := NewStudent(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())

	assert.Equal(t, StateDenied, g.State())
	events := nav.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ports.RouteLogin, events[0].Route)
}

func TestGuard_LogoutReevaluates(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	sessions, api := newSession(t, store)
	nav := statemocks.NewRecordingNavigator()

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(profileWithRole("estudiante"), nil)

	g := NewStudent(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())
	require.Equal(t, StateGranted, g.State())
	require.Empty(t, nav.Events())

	sessions.Logout(context.Background())

	assert.Equal(t, StateDenied, g.State())
	events := nav.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ports.RouteLogin, events[0].Route)
}

func TestGuard_RepeatedDenialsNavigateOnce(t *testing.T) {
	sessions, _ := newSession(t, statemocks.NewMemoryStore())
	nav := statemocks.NewRecordingNavigator()

	g := NewAdmin(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())
	sessions.Logout(context.Background())
	sessions.Logout(context.Background())

	assert.Equal(t, StateDenied, g.State())
	assert.Len(t, nav.Events(), 1, "staying denied does not re-navigate")
}

func TestGuard_ChecksAgainDuringLogin(t *testing.T) {
	store := statemocks.NewMemoryStore()
	sessions, api := newSession(t, store)
	nav := statemocks.NewRecordingNavigator()

	g := NewAdmin(sessions, nav, nil)
	defer g.Close()

	sessions.Restore(context.Background())
	require.Equal(t, StateDenied, g.State())
	require.Len(t, nav.Events(), 1)

	// A failed login toggles loading on and back off; the guard re-enters
	// checking, resolves denied again, and redirects again for the new
	// resolution.
	api.EXPECT().Login(gomock.Any(), "eva@uni.edu", "nope").
		Return(ports.LoginResult{}, errors.New("Credenciales incorrectas"))

	err := sessions.Login(context.Background(), "eva@uni.edu", "nope")
	require.Error(t, err)

	assert.Equal(t, StateDenied, g.State())
	assert.Len(t, nav.Events(), 2)
}

func TestGuard_CloseStopsUpdates(t *testing.T) {
	store := statemocks.NewMemoryStore()
	store.Seed(ports.StateKeyToken, "tok-1")
	sessions, api := newSession(t, store)
	nav := statemocks.NewRecordingNavigator()

	api.EXPECT().Profile(gomock.Any(), "tok-1").Return(profileWithRole("estudiante"), nil)

	g := NewStudent(sessions, nav, nil)
	g.Close()

	sessions.Restore(context.Background())

	assert.Equal(t, StateChecking, g.State(), "closed guard no longer observes the session")
	assert.Empty(t, nav.Events())
}
