package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/leaderboard"
	"github.com/hersh/blockstack/internal/mode"
)

var (
	colors = []string{
		"0",
		"51",  // I
		"21",  // J
		"208", // L
		"226", // O
		"46",  // S
		"201", // T
		"196", // Z
	}

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	overlayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	ghostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func colorOf(id int) lipgloss.Color {
	if id < 0 || id >= len(colors) {
		return lipgloss.Color("248")
	}
	return lipgloss.Color(colors[id])
}

// RenderBoard draws the playfield with the ghost and active piece on top,
// plus the countdown or pause overlay.
func RenderBoard(s engine.Snapshot) string {
	var sb strings.Builder

	active := map[game.Point]bool{}
	ghost := map[game.Point]bool{}
	color := 0
	if s.Current != nil {
		color = s.Current.Color
		for _, c := range s.Current.Cells {
			active[c] = true
		}
		for _, c := range s.Current.GhostCells {
			ghost[c] = true
		}
	}

	overlay := overlayText(s)
	overlayRow := len(s.Board) / 2

	for y, row := range s.Board {
		if overlay != "" && y == overlayRow {
			sb.WriteString(lipgloss.PlaceHorizontal(len(row)*2, lipgloss.Center, overlayStyle.Render(overlay)))
		} else {
			for x, cell := range row {
				pt := game.Point{X: x, Y: y}
				switch {
				case active[pt]:
					sb.WriteString(lipgloss.NewStyle().Foreground(colorOf(color)).Render("██"))
				case cell != 0:
					sb.WriteString(lipgloss.NewStyle().Foreground(colorOf(cell)).Render("██"))
				case ghost[pt]:
					sb.WriteString(ghostStyle.Render("[]"))
				default:
					sb.WriteString("  ")
				}
			}
		}
		if y < len(s.Board)-1 {
			sb.WriteString("\n")
		}
	}

	return boardStyle.Render(sb.String())
}

func overlayText(s engine.Snapshot) string {
	switch {
	case s.State == engine.StatePaused:
		return "PAUSED"
	case s.Phase == engine.PhaseReady:
		return "READY"
	case s.Phase == engine.PhaseGo:
		return "GO!"
	}
	return ""
}

// RenderPiece draws k in its spawn orientation, trimmed to its filled rows.
func RenderPiece(k *game.Kind) string {
	if k == nil {
		return "Empty"
	}
	shape := game.ShapeOf(*k)
	if shape == nil {
		return "Empty"
	}
	minRow, maxRow, minCol, maxCol := shape.Bounds()

	var sb strings.Builder
	pieceStyle := lipgloss.NewStyle().Foreground(colorOf(k.Color()))

	for y := minRow; y <= maxRow; y++ {
		for x := minCol; x <= maxCol; x++ {
			if shape[y][x] {
				sb.WriteString(pieceStyle.Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < maxRow {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderInfo is the side panel: mode, score or clock, and previews.
func RenderInfo(s engine.Snapshot, name string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("BLOCKSTACK") + "\n\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Player: %s", name)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Mode: %s", s.ModeName)) + "\n")
	if s.IsTimeValue {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Time: %s", mode.FormatElapsed(s.Elapsed))) + "\n")
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines left: %d", s.Remaining)) + "\n")
	} else {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", s.Score)) + "\n")
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Level: %d", s.Level)) + "\n")
	}
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines: %d", s.Lines)) + "\n\n")

	next := s.Next
	sb.WriteString(titleStyle.Render("NEXT") + "\n")
	sb.WriteString(RenderPiece(&next) + "\n\n")

	sb.WriteString(titleStyle.Render("HOLD") + "\n")
	sb.WriteString(RenderPiece(s.Held) + "\n")

	return sb.String()
}

// RenderWelcome lists the modes with the cursor on the selected one.
func RenderWelcome(modes []mode.Config, cursor int, name string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(`
╔══════════════════════════════╗
║     B L O C K S T A C K      ║
╚══════════════════════════════╝`) + "\n\n")
	if name != "" {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Welcome, %s", name)) + "\n\n")
	}

	for i, m := range modes {
		line := fmt.Sprintf("  %-8s %s", m.Key, m.Name)
		if i == cursor {
			line = selectedStyle.Render(fmt.Sprintf("> %-8s %s", m.Key, m.Name))
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render("↑/↓ choose, ENTER to play, Q to quit") + "\n")

	return sb.String()
}

// RenderGameOver shows the final result and the saved leaderboard.
func RenderGameOver(s engine.Snapshot, res *engine.Result, top []leaderboard.Entry, name string) string {
	var sb strings.Builder

	title := "GAME OVER"
	if s.Reason == engine.ReasonGoalReached {
		title = "FINISHED!"
	}
	sb.WriteString(gameOverStyle.Render(title) + "\n")
	sb.WriteString(infoStyle.Render(reasonText(s.Reason)) + "\n\n")

	if res != nil {
		sb.WriteString(infoStyle.Render(formatValue(res.Value, res.IsTimeValue)) + "\n")
		if res.IsTimeValue && !res.Completed {
			sb.WriteString(infoStyle.Render(fmt.Sprintf("%d lines short", s.Remaining)) + "\n")
		}
	}

	if len(top) > 0 {
		sb.WriteString("\n" + titleStyle.Render("TOP "+fmt.Sprint(len(top))) + "\n")
		for i, e := range top {
			line := fmt.Sprintf("%2d. %-14s %s", i+1, e.Username, formatValue(e.Value, e.IsTimeValue))
			if strings.EqualFold(e.Username, name) && res != nil && e.Value == res.Value {
				line = selectedStyle.Render(line)
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render("R to retry, ENTER for menu, Q to quit") + "\n")

	return sb.String()
}

func reasonText(r engine.GameOverReason) string {
	switch r {
	case engine.ReasonLockOut:
		return "Locked above the board"
	case engine.ReasonBlockOut:
		return "No room for the next piece"
	case engine.ReasonGoalReached:
		return "Line goal reached"
	}
	return ""
}

func formatValue(v int64, isTime bool) string {
	if isTime {
		return "Time: " + mode.FormatElapsed(time.Duration(v)*time.Millisecond)
	}
	return fmt.Sprintf("Score: %d", v)
}

// RenderControls lists the play bindings.
func RenderControls(k KeyMap) string {
	var sb strings.Builder
	sb.WriteString("Controls:\n")
	for _, b := range k.PlayHelp() {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("  %-7s %s\n", h.Key, h.Desc))
	}
	return infoStyle.Render(sb.String())
}
