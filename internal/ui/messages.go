package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kombatant/nvidia-oc/internal/ui/views"
)

// PollTickMsg asks for a telemetry poll.
type PollTickMsg time.Time

// FrameTickMsg asks for a chart redraw.
type FrameTickMsg time.Time

// loadedMsg is the start-up state plus whether NVML was initialized and
// needs a shutdown on exit.
type loadedMsg struct {
	views.LoadedMsg
	nvmlInit bool
}

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return PollTickMsg(t)
	})
}

func frameTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}
