package watchlist

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Updater is anything that consumes messages and returns follow-up work.
type Updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// Drive runs cmd and every command it leads to, feeding each message to u,
// until no work remains. Batches are flattened in order. It is the loop a
// Bubble Tea program would run, minus the renderer.
func Drive(u Updater, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, u.Update(msg))
		}
	}
}
