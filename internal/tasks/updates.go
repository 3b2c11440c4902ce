package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	WarmEntity Phase = iota
	WarmCompleted
	WarmFailed
)

func (p Phase) String() string {
	switch p {
	case WarmEntity:
		return "warm_entity"
	case WarmCompleted:
		return "warm_completed"
	case WarmFailed:
		return "warm_failed"
	default:
		return ""
	}
}

func warmingUpdate(step, total int, seed Seed) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmEntity,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Warming %s %s...", step, total, seed.Kind, seed.ID),
	}
}

func warmCompletedUpdate(step, total int, seed Seed) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCompleted,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s", step, total, seed.Kind, seed.ID),
	}
}

func warmFailedUpdate(step, total int, seed Seed, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s %s: %v", step, total, seed.Kind, seed.ID, err),
	}
}
