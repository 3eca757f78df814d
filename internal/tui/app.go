// Package tui provides the interactive terminal UI for robodesk.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/robodesk/internal/auth"
	"github.com/fentz26/robodesk/internal/board"
	"github.com/fentz26/robodesk/internal/guard"
	"github.com/fentz26/robodesk/internal/models"
)

// Sessions is the part of the session manager the UI drives.
type Sessions interface {
	Session() models.Session
	Authenticate(username, password string) error
	Logout()
	Ready() <-chan struct{}
}

// Board is the part of the board service the UI drives.
type Board interface {
	Board() ([]board.Lane, error)
	ShiftTask(id string, delta int) (*models.Task, error)
}

// App is the main TUI application model.
type App struct {
	sessions Sessions
	board    Board
	router   *Router

	spinner  spinner.Model
	username textinput.Model
	password textinput.Model

	lanes    []board.Lane
	laneIdx  int
	cardIdx  int
	followID string

	width   int
	height  int
	message string
	failed  bool
}

type (
	sessionReadyMsg struct{}
	boardLoadedMsg  struct{ lanes []board.Lane }
	taskMovedMsg    struct{ task *models.Task }
	errMsg          struct{ err error }
)

// New creates a new TUI application. router must be the Navigator given to the session manager.
func New(sessions Sessions, b Board, router *Router) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Prompt = "User: "
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return &App{
		sessions: sessions,
		board:    b,
		router:   router,
		spinner:  sp,
		username: user,
		password: pass,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, textinput.Blink, a.waitForSession())
}

// Navigate implements auth.Navigator.
func (a *App) Navigate(route auth.Route) {
	a.router.Navigate(route)
}

// screen resolves which view the current session may see.
func (a *App) screen() (auth.Route, guard.Decision) {
	return guard.Route(a.sessions, a.router.Current())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case sessionReadyMsg:
		if route, d := a.screen(); d == guard.Render && route != auth.RouteLogin {
			return a, a.loadBoard()
		}
		return a, nil

	case boardLoadedMsg:
		a.lanes = msg.lanes
		a.applyFollow()
		a.clampSelection()
		return a, nil

	case taskMovedMsg:
		a.setMessage(fmt.Sprintf("Moved %q to %s", msg.task.Name, msg.task.ColumnID.Title()), false)
		a.follow(msg.task)
		return a, a.loadBoard()

	case errMsg:
		a.setMessage("Error: "+msg.err.Error(), true)
		if errors.Is(msg.err, board.ErrUnauthenticated) {
			a.router.Navigate(auth.RouteLogin)
		}
		return a, nil

	case spinner.TickMsg:
		if _, d := a.screen(); d != guard.Placeholder {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	route, d := a.screen()
	switch {
	case d == guard.Placeholder:
		return a, nil
	case route == auth.RouteLogin:
		return a.updateLogin(msg)
	default:
		return a.updateBoard(msg)
	}
}

// View implements tea.Model
func (a *App) View() string {
	route, d := a.screen()
	var body string
	switch {
	case d == guard.Placeholder:
		body = a.viewPlaceholder()
	case route == auth.RouteLogin:
		body = a.viewLogin()
	default:
		body = a.viewBoard()
	}

	var b strings.Builder
	b.WriteString(a.viewHeader() + "\n")
	b.WriteString(body)
	if a.message != "" {
		style := messageStyle
		if a.failed {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(a.message))
	}
	return b.String()
}

func (a *App) viewHeader() string {
	header := titleStyle.Render("robodesk")
	if s := a.sessions.Session(); s.IsAuthenticated {
		header += "  " + userStyle.Render("● "+s.Username)
	} else {
		header += "  " + helpStyle.Render("○ not signed in")
	}
	return header
}

func (a *App) viewPlaceholder() string {
	return fmt.Sprintf("\n  %s Restoring session...\n", a.spinner.View())
}

func (a *App) waitForSession() tea.Cmd {
	ready := a.sessions.Ready()
	return func() tea.Msg {
		<-ready
		return sessionReadyMsg{}
	}
}

func (a *App) setMessage(text string, failed bool) {
	a.message = text
	a.failed = failed
}
