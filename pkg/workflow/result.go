package workflow

import (
	"fmt"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
	"github.com/devicelab-dev/hypium-runner/pkg/resolver"
)

// StepResult captures the outcome of one executed step.
type StepResult struct {
	Step       Step                    `json:"-"`
	Command    string                  `json:"command"`
	Detail     string                  `json:"detail"`
	Status     core.StepStatus         `json:"status"`
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"`
	DurationMs int64                   `json:"durationMs"`
	Matched    *resolver.MatchSnapshot `json:"matched,omitempty"`
}

// SequenceResult aggregates the ordered step results of one run. Every
// step's result is present even when earlier assertions failed; Success
// reflects whether any step failed at all.
type SequenceResult struct {
	Name       string       `json:"name,omitempty"`
	Success    bool         `json:"success"`
	Summary    string       `json:"summary"`
	DurationMs int64        `json:"durationMs"`
	Steps      []StepResult `json:"steps"`
}

// Passed returns the number of successful steps.
func (r *SequenceResult) Passed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed steps.
func (r *SequenceResult) Failed() int {
	return len(r.Steps) - r.Passed()
}

// summarize recomputes Success and Summary from the step results.
func (r *SequenceResult) summarize() {
	failed := r.Failed()
	r.Success = failed == 0
	if r.Success {
		r.Summary = fmt.Sprintf("%d steps passed in %dms", len(r.Steps), r.DurationMs)
	} else {
		r.Summary = fmt.Sprintf("%d of %d steps failed in %dms", failed, len(r.Steps), r.DurationMs)
	}
}

// matchSnapshot converts the best match for inclusion in a result.
func matchSnapshot(m *resolver.Match) *resolver.MatchSnapshot {
	if m == nil {
		return nil
	}
	return &resolver.MatchSnapshot{
		Path:  m.Path,
		Score: m.Score,
		Node:  m.Node.Snapshot(1),
	}
}
