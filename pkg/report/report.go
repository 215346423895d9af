// Package report writes run artifacts and renders terminal summaries.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/devicelab-dev/hypium-runner/pkg/resolver"
	"github.com/devicelab-dev/hypium-runner/pkg/workflow"
)

// Artifact is the on-disk JSON form of one run.
type Artifact struct {
	Name      string                `json:"name,omitempty"`
	Target    string                `json:"target,omitempty"`
	StartTime time.Time             `json:"startTime"`
	Success   bool                  `json:"success"`
	Summary   string                `json:"summary"`
	Steps     []workflow.StepResult `json:"steps"`
}

// Write stores the run result as result.json under outputDir, creating
// the directory when needed. Returns the artifact path.
func Write(outputDir string, target string, start time.Time, result workflow.SequenceResult) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	artifact := Artifact{
		Name:      result.Name,
		Target:    target,
		StartTime: start,
		Success:   result.Success,
		Summary:   result.Summary,
		Steps:     result.Steps,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	path := filepath.Join(outputDir, "result.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}

// RenderSteps renders the step results as a terminal table.
func RenderSteps(result workflow.SequenceResult, colors bool) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "Step", "Status", "Duration", "Message"})

	for i, step := range result.Steps {
		status := strings.ToUpper(step.Status.String())
		if colors {
			if step.Success {
				status = text.FgGreen.Sprint(status)
			} else {
				status = text.FgRed.Sprint(status)
			}
		}
		w.AppendRow(table.Row{
			i + 1,
			step.Detail,
			status,
			fmt.Sprintf("%dms", step.DurationMs),
			step.Message,
		})
	}
	w.AppendFooter(table.Row{"", "", "", "", result.Summary})

	return w.Render()
}

// RenderMatches renders resolution matches as a terminal table.
func RenderMatches(matches []resolver.Match) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Score", "Type", "Name", "Path"})

	for _, m := range matches {
		w.AppendRow(table.Row{m.Score, m.Node.Type, m.Node.Name, joinPath(m.Path)})
	}

	return w.Render()
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " > "
		}
		out += p
	}
	return out
}
