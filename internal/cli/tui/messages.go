package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sidenote/sidenote/pkg/transport"
)

// outboundMsg wraps one controller event with the channel it came from so
// the update loop can chain the next wait.
type outboundMsg struct {
	msg transport.Outbound
	ch  <-chan transport.Outbound
}

// transportClosedMsg signals that the controller side closed the transport.
type transportClosedMsg struct{}

// eventHandledMsg signals that an inbound event finished processing. Chat
// turns resolve through the transport, so there is nothing to carry.
type eventHandledMsg struct{}

// waitForOutbound returns a command that blocks on the next controller
// event. Every outboundMsg handler must chain it to keep draining.
func waitForOutbound(ch <-chan transport.Outbound) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return transportClosedMsg{}
		}
		return outboundMsg{msg: msg, ch: ch}
	}
}
