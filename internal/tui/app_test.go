package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/robodesk/internal/audit"
	"github.com/fentz26/robodesk/internal/auth"
	"github.com/fentz26/robodesk/internal/board"
	"github.com/fentz26/robodesk/internal/models"
	"github.com/fentz26/robodesk/internal/store"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app     *App
	manager *auth.Manager
	service *board.Service
	store   *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger, _ := test.NewNullLogger()
	router := NewRouter()
	manager := auth.NewManager(auth.DefaultRoster(), st, audit.NewLog(st, logger),
		auth.WithNavigator(router), auth.WithLogger(logger))
	service := board.NewService(st, manager, logger)
	return &fixture{
		app:     New(manager, service, router),
		manager: manager,
		service: service,
		store:   st,
	}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := f.app.Update(msg)
	return cmd
}

// drain runs cmd and feeds its message back, as the program loop would.
func (f *fixture) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		cmd = f.send(t, cmd())
	}
}

func (f *fixture) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		f.send(t, keys(string(r)))
	}
}

func (f *fixture) login(t *testing.T, user, pass string) {
	t.Helper()
	f.typeText(t, user)
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	f.typeText(t, pass)
	f.drain(t, f.send(t, tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestPlaceholderWhileLoading(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.app.View(), "Restoring session")
	assert.Nil(t, f.send(t, keys("q")))

	f.manager.Restore()
	f.drain(t, f.app.waitForSession())
	assert.Contains(t, f.app.View(), "Sign in to continue")
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.manager.Restore()

	f.login(t, "Davi", "jesuscura10")

	assert.True(t, f.manager.IsAuthenticated())
	assert.Equal(t, auth.RouteHome, f.app.router.Current())
	view := f.app.View()
	assert.Contains(t, view, "Planning (0)")
	assert.Contains(t, view, "Davi")
	assert.NotNil(t, f.app.lanes)
}

func TestLogin_MasksPassword(t *testing.T) {
	f := newFixture(t)
	f.manager.Restore()

	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	f.typeText(t, "secret")
	view := f.app.View()
	assert.NotContains(t, view, "secret")
	assert.Contains(t, view, strings.Repeat("•", len("secret")))
}

func TestLogin_Failure(t *testing.T) {
	f := newFixture(t)
	f.manager.Restore()

	f.login(t, "Davi", "wrong")

	assert.False(t, f.manager.IsAuthenticated())
	assert.True(t, f.app.failed)
	view := f.app.View()
	assert.Contains(t, view, "Invalid username or password")
	assert.Contains(t, view, "Sign in to continue")
	assert.Empty(t, f.app.password.Value())
}

func TestRestoredSessionLoadsBoard(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetAll(map[string]string{
		auth.KeyUsername:      "Davi",
		auth.KeyAuthenticated: "true",
	}))
	f.manager.Restore()

	f.drain(t, f.app.waitForSession())
	assert.Contains(t, f.app.View(), "To Do (0)")
}

func TestBoard_NavigateAndMove(t *testing.T) {
	f := newFixture(t)
	f.manager.Restore()
	require.True(t, f.manager.Login("Davi", "jesuscura10"))

	task, err := f.service.CreateTask(map[string]any{
		"name":     "Calibrate gyro",
		"priority": "Medium",
		"area":     []any{"Programming"},
	})
	require.NoError(t, err)
	f.drain(t, f.app.loadBoard())
	require.NotNil(t, f.app.selectedTask())
	assert.Equal(t, task.ID, f.app.selectedTask().ID)

	f.drain(t, f.send(t, keys(">")))
	stored, err := f.store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnTodo, stored.ColumnID)
	assert.Equal(t, models.ColumnTodo.Index(), f.app.laneIdx)
	assert.Equal(t, task.ID, f.app.selectedTask().ID)
	assert.Contains(t, f.app.View(), "Moved \"Calibrate gyro\" to To Do")

	f.send(t, keys("h"))
	assert.Equal(t, 0, f.app.laneIdx)
	assert.Nil(t, f.app.selectedTask())
	assert.Nil(t, f.send(t, keys("<")))

	f.send(t, keys("l"))
	f.drain(t, f.send(t, keys("<")))
	stored, err = f.store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnPlanning, stored.ColumnID)

	f.drain(t, f.send(t, keys("<")))
	assert.True(t, f.app.failed)
	assert.Contains(t, f.app.message, "cannot move further")
}

func TestBoard_Logout(t *testing.T) {
	f := newFixture(t)
	f.manager.Restore()
	require.True(t, f.manager.Login("Davi", "jesuscura10"))
	f.drain(t, f.app.loadBoard())

	f.send(t, keys("o"))

	assert.False(t, f.manager.IsAuthenticated())
	assert.Equal(t, auth.RouteLogin, f.app.router.Current())
	assert.Contains(t, f.app.View(), "Sign in to continue")

	_, ok, err := f.store.Get(auth.KeyUsername)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuitKeys(t *testing.T) {
	f := newFixture(t)
	f.manager.Restore()

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// q is text on the login form.
	f.send(t, keys("q"))
	assert.Equal(t, "q", f.app.username.Value())
}
