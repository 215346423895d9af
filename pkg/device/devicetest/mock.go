// Package devicetest provides a scripted connector for testing without a
// real device.
package devicetest

import (
	"fmt"
	"strings"
)

// Call records one operation issued to the connector.
type Call struct {
	Kind string // "command" or "input"
	Text string // full command line, or input kind + args
}

// Connector is a scripted device.Connector double. Command responses are
// served per matching prefix; dump responses are consumed in order so a
// test can script a screen appearing after a few polls.
type Connector struct {
	// Responses maps a command prefix to a fixed response.
	Responses map[string]string
	// Dumps is a queue of render-tree dumps, consumed one per dump
	// command. The last entry is repeated once the queue runs dry.
	Dumps []string
	// DumpErrs produces an error for dump request N (0-indexed) when the
	// entry is non-nil.
	DumpErrs []error
	// FailInput makes every SendInput call fail with this error.
	FailInput error

	Calls    []Call
	dumpIdx  int
	InputLog []string
}

// New creates an empty scripted connector.
func New() *Connector {
	return &Connector{Responses: make(map[string]string)}
}

// RunCommand serves the scripted response for cmd.
func (c *Connector) RunCommand(cmd string) (string, error) {
	c.Calls = append(c.Calls, Call{Kind: "command", Text: cmd})

	if strings.Contains(cmd, "hidumper") {
		return c.nextDump()
	}

	for prefix, resp := range c.Responses {
		if strings.HasPrefix(cmd, prefix) {
			return resp, nil
		}
	}
	return "", nil
}

// SendInput records the injected event.
func (c *Connector) SendInput(kind string, args ...string) (string, error) {
	line := kind
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	c.Calls = append(c.Calls, Call{Kind: "input", Text: line})
	c.InputLog = append(c.InputLog, line)

	if c.FailInput != nil {
		return "", c.FailInput
	}
	return "", nil
}

// InputCount returns how many input events were injected.
func (c *Connector) InputCount() int {
	return len(c.InputLog)
}

func (c *Connector) nextDump() (string, error) {
	idx := c.dumpIdx
	c.dumpIdx++

	if idx < len(c.DumpErrs) && c.DumpErrs[idx] != nil {
		return "", c.DumpErrs[idx]
	}
	if len(c.Dumps) == 0 {
		return "", fmt.Errorf("no dump scripted for request %d", idx)
	}
	if idx >= len(c.Dumps) {
		idx = len(c.Dumps) - 1
	}
	return c.Dumps[idx], nil
}
