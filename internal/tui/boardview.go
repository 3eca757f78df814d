package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/robodesk/internal/board"
	"github.com/fentz26/robodesk/internal/models"
)

const minLaneWidth = 18

func (a *App) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q":
		return a, tea.Quit
	case "left", "h":
		if a.laneIdx > 0 {
			a.laneIdx--
			a.clampSelection()
		}
	case "right", "l":
		if a.laneIdx < len(a.lanes)-1 {
			a.laneIdx++
			a.clampSelection()
		}
	case "up", "k":
		if a.cardIdx > 0 {
			a.cardIdx--
		}
	case "down", "j":
		if lane := a.currentLane(); lane != nil && a.cardIdx < len(lane.Tasks)-1 {
			a.cardIdx++
		}
	case "<", "H", "shift+left":
		return a, a.shiftSelected(-1)
	case ">", "L", "shift+right":
		return a, a.shiftSelected(1)
	case "r":
		return a, a.loadBoard()
	case "o":
		a.sessions.Logout()
		a.lanes = nil
		a.laneIdx, a.cardIdx = 0, 0
		a.setMessage("Signed out", false)
	}
	return a, nil
}

func (a *App) loadBoard() tea.Cmd {
	return func() tea.Msg {
		lanes, err := a.board.Board()
		if err != nil {
			return errMsg{err}
		}
		return boardLoadedMsg{lanes}
	}
}

func (a *App) shiftSelected(delta int) tea.Cmd {
	task := a.selectedTask()
	if task == nil {
		return nil
	}
	id := task.ID
	return func() tea.Msg {
		moved, err := a.board.ShiftTask(id, delta)
		if err != nil {
			return errMsg{err}
		}
		return taskMovedMsg{moved}
	}
}

// follow selects the moved task once the board reloads.
func (a *App) follow(task *models.Task) {
	a.followID = task.ID
	if i := task.ColumnID.Index(); i >= 0 {
		a.laneIdx = i
	}
}

func (a *App) applyFollow() {
	if a.followID == "" {
		return
	}
	for i, lane := range a.lanes {
		for j, t := range lane.Tasks {
			if t.ID == a.followID {
				a.laneIdx, a.cardIdx = i, j
			}
		}
	}
	a.followID = ""
}

func (a *App) currentLane() *board.Lane {
	if a.laneIdx < 0 || a.laneIdx >= len(a.lanes) {
		return nil
	}
	return &a.lanes[a.laneIdx]
}

func (a *App) selectedTask() *models.Task {
	lane := a.currentLane()
	if lane == nil || a.cardIdx < 0 || a.cardIdx >= len(lane.Tasks) {
		return nil
	}
	t := lane.Tasks[a.cardIdx]
	return &t
}

func (a *App) clampSelection() {
	if a.laneIdx >= len(a.lanes) {
		a.laneIdx = max(0, len(a.lanes)-1)
	}
	lane := a.currentLane()
	if lane == nil {
		a.cardIdx = 0
		return
	}
	if a.cardIdx >= len(lane.Tasks) {
		a.cardIdx = max(0, len(lane.Tasks)-1)
	}
}

func (a *App) viewBoard() string {
	if a.lanes == nil {
		return "\n  Loading board...\n"
	}

	width := minLaneWidth
	if a.width > 0 && len(a.lanes) > 0 {
		if w := a.width/len(a.lanes) - 4; w > width {
			width = w
		}
	}

	cols := make([]string, len(a.lanes))
	for i, lane := range a.lanes {
		var lines []string
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (%d)", lane.Column.Title, len(lane.Tasks))))
		for j, t := range lane.Tasks {
			card := renderCard(t, width-2)
			if i == a.laneIdx && j == a.cardIdx {
				lines = append(lines, selectedCardStyle.Width(width).Render(card))
			} else {
				lines = append(lines, cardStyle.Width(width).Render(card))
			}
		}
		style := laneStyle
		if i == a.laneIdx {
			style = focusedLaneStyle
		}
		cols[i] = style.Width(width).Render(strings.Join(lines, "\n"))
	}

	var b strings.Builder
	b.WriteString("\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n")
	b.WriteString(statusBarStyle.Width(a.width).Render(" ←→:column | ↑↓:task | </>:move | r:refresh | o:sign out | q:quit"))
	return b.String()
}

func renderCard(t models.Task, width int) string {
	name := t.Name
	if width > 3 && len([]rune(name)) > width {
		name = string([]rune(name)[:width-3]) + "..."
	}

	areas := make([]string, len(t.Area))
	for i, area := range t.Area {
		areas[i] = string(area)
	}
	meta := priorityStyle(t.Priority).Render(string(t.Priority))
	if t.DueDate != nil {
		meta += " due " + t.DueDate.String()
	}
	return name + "\n" + meta + "\n" + helpStyle.Render(strings.Join(areas, ", "))
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return priorityHigh
	case models.PriorityMedium:
		return priorityMedium
	default:
		return priorityLow
	}
}
