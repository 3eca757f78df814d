package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			a.toggleField()
			return a, nil
		case "enter":
			if a.username.Focused() {
				a.toggleField()
				return a, nil
			}
			return a, a.submitLogin()
		}
	}

	var cmd tea.Cmd
	if a.username.Focused() {
		a.username, cmd = a.username.Update(msg)
	} else {
		a.password, cmd = a.password.Update(msg)
	}
	return a, cmd
}

func (a *App) toggleField() {
	if a.username.Focused() {
		a.username.Blur()
		a.password.Focus()
	} else {
		a.password.Blur()
		a.username.Focus()
	}
}

// submitLogin signs in synchronously. On success the manager navigates to the board.
func (a *App) submitLogin() tea.Cmd {
	user := strings.TrimSpace(a.username.Value())
	pass := a.password.Value()
	a.password.SetValue("")

	if err := a.sessions.Authenticate(user, pass); err != nil {
		a.setMessage("Invalid username or password", true)
		return nil
	}
	a.username.SetValue("")
	a.password.Blur()
	a.username.Focus()
	a.setMessage("Signed in as "+user, false)
	return a.loadBoard()
}

func (a *App) viewLogin() string {
	var b strings.Builder
	b.WriteString("\n  Sign in to continue\n\n")
	b.WriteString(inputBoxStyle.Render(a.username.View()) + "\n")
	b.WriteString(inputBoxStyle.Render(a.password.View()) + "\n\n")
	b.WriteString(helpStyle.Render("  Tab:switch field | Enter:sign in | Ctrl+C:quit"))
	return b.String()
}
