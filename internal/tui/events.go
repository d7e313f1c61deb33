package tui

import (
	"github.com/ccboard/ccboard/internal/eventbus"
	"github.com/ccboard/ccboard/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

// eventMsg wraps a single EventBus notification for Update.
type eventMsg models.Event

// waitForEvent returns a tea.Cmd that blocks on the subscription's channel
// and resolves to the next event, to be re-issued after every delivery so
// the shell keeps listening for as long as the subscription is open.
func waitForEvent(sub *eventbus.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.C
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}
