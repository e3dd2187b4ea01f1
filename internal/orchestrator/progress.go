package orchestrator

import "fmt"

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Phase {
	case PhasePending:
		return fmt.Sprintf("  ○ %s (pending)", event.Team)
	case PhaseResolving:
		return fmt.Sprintf("  ● %s: resolving inputs...", event.Team)
	case PhaseExecuting:
		return fmt.Sprintf("  ● %s: executing...", event.Team)
	case PhaseRecording:
		return fmt.Sprintf("  ● %s: recording output...", event.Team)
	case PhaseComplete:
		if event.Message != "" {
			return fmt.Sprintf("  ✓ %s (%s)", event.Team, event.Message)
		}
		return fmt.Sprintf("  ✓ %s complete", event.Team)
	case PhaseFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Team, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown phase)", event.Team)
	}
}
