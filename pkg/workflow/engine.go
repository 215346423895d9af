package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
	"github.com/devicelab-dev/hypium-runner/pkg/device"
	"github.com/devicelab-dev/hypium-runner/pkg/input"
	"github.com/devicelab-dev/hypium-runner/pkg/jsengine"
	"github.com/devicelab-dev/hypium-runner/pkg/logger"
	"github.com/devicelab-dev/hypium-runner/pkg/resolver"
	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

// Options tunes engine behavior. Zero values fall back to defaults.
type Options struct {
	ScreenWidth   int           // default 1260
	ScreenHeight  int           // default 2720
	LaunchTimeout time.Duration // poll budget after app launch; default 10s
	WaitTimeout   time.Duration // poll budget for extendedWaitUntil; default 10s
	PollInterval  time.Duration // sleep between ingestion attempts; default 500ms
	SettleDelay   time.Duration // pause after a scroll gesture; default 500ms
	MaxScrolls    int           // scroll budget for scrollUntilVisible; default 10
	MaxDumpErrors int           // consecutive ingestion errors tolerated while polling; default 3
	DumpCommand   string        // default device.DumpCommand
	Env           map[string]string
}

// Engine executes step sequences strictly in order against one device.
// It is not safe for concurrent use: the device channel is a single
// shared resource and the engine assumes one run at a time.
type Engine struct {
	conn device.Connector
	exec *input.Executor
	js   *jsengine.Engine
	opts Options

	// test seams
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates an Engine on the given connector.
func New(conn device.Connector, opts Options) *Engine {
	if opts.ScreenWidth <= 0 {
		opts.ScreenWidth = 1260
	}
	if opts.ScreenHeight <= 0 {
		opts.ScreenHeight = 2720
	}
	if opts.LaunchTimeout <= 0 {
		opts.LaunchTimeout = 10 * time.Second
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}
	if opts.MaxScrolls <= 0 {
		opts.MaxScrolls = 10
	}
	if opts.MaxDumpErrors <= 0 {
		opts.MaxDumpErrors = 3
	}
	if opts.DumpCommand == "" {
		opts.DumpCommand = device.DumpCommand
	}

	js := jsengine.New()
	js.ImportSystemEnv()
	js.SetVariables(opts.Env)

	return &Engine{
		conn:  conn,
		exec:  input.New(conn),
		js:    js,
		opts:  opts,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// RunFlow executes a parsed flow file: config env is loaded into the
// variable store and the config bundle fills launch steps that name none.
func (e *Engine) RunFlow(flow *Flow) SequenceResult {
	e.js.SetVariables(flow.Config.Env)

	for _, step := range flow.Steps {
		if s, ok := step.(*LaunchAppStep); ok && s.Bundle == "" {
			s.Bundle = flow.Config.Bundle
			if s.Ability == "" {
				s.Ability = flow.Config.Ability
			}
		}
	}

	result := e.RunSequence(flow.Steps)
	result.Name = flow.Config.Name
	return result
}

// RunSequence executes the steps strictly in order and returns the
// aggregated result. A failed step never halts the sequence; every step
// runs and reports, and overall success requires all of them to pass.
func (e *Engine) RunSequence(steps []Step) SequenceResult {
	runStart := e.now()
	result := SequenceResult{}

	for i, step := range steps {
		detail := step.Describe()
		if step.Label() != "" {
			detail = step.Label()
		}
		logger.Info("step %d/%d: %s", i+1, len(steps), detail)

		stepStart := e.now()
		success, message, matched := e.executeStep(step)
		durationMs := e.now().Sub(stepStart).Milliseconds()

		if success {
			logger.Info("step %d passed (%dms)", i+1, durationMs)
		} else {
			logger.Warn("step %d failed (%dms): %s", i+1, durationMs, message)
		}

		status := core.StatusPassed
		if !success {
			status = core.StatusFailed
		}
		result.Steps = append(result.Steps, StepResult{
			Step:       step,
			Command:    string(step.Type()),
			Detail:     detail,
			Status:     status,
			Success:    success,
			Message:    message,
			DurationMs: durationMs,
			Matched:    matchSnapshot(matched),
		})
	}

	result.DurationMs = e.now().Sub(runStart).Milliseconds()
	result.summarize()
	return result
}

func (e *Engine) executeStep(step Step) (bool, string, *resolver.Match) {
	switch s := step.(type) {
	case *LaunchAppStep:
		return e.executeLaunch(s)
	case *ScrollUntilVisibleStep:
		return e.executeScrollSearch(s)
	case *AssertVisibleStep:
		return e.executeAssertVisible(s)
	case *AssertTextEqualsStep:
		return e.executeAssertTextEquals(s)
	case *TapOnStep:
		return e.executeTapOn(s)
	case *InputTextStep:
		// Capability gap on the current target: report without touching
		// the device.
		return false, core.ErrInputTextUnsupported.Message, nil
	case *SwipeStep:
		return e.executeSwipe(s)
	case *WaitUntilStep:
		return e.executeWaitUntil(s)
	case *DelayStep:
		e.sleep(time.Duration(s.Ms) * time.Millisecond)
		return true, fmt.Sprintf("waited %dms", s.Ms), nil
	default:
		return false, fmt.Sprintf("unknown step type: %s", step.Type()), nil
	}
}

func (e *Engine) executeLaunch(s *LaunchAppStep) (bool, string, *resolver.Match) {
	bundle := e.js.Expand(s.Bundle)
	if bundle == "" {
		return false, "launchApp requires a bundle", nil
	}
	ability := e.js.Expand(s.Ability)
	if ability == "" {
		ability = "EntryAbility"
	}

	if _, err := e.conn.RunCommand(fmt.Sprintf("aa start -b %s -a %s", bundle, ability)); err != nil {
		return false, fmt.Sprintf("launch failed: %v", err), nil
	}
	if s.Selector.IsEmpty() {
		return true, "launched " + bundle, nil
	}

	text := e.js.Expand(s.Selector.Text)
	match, err := e.pollForText(text, s.Selector.Exact, stepTimeout(s.TimeoutMs, e.opts.LaunchTimeout))
	if err != nil {
		return false, fmt.Sprintf("polling for %q aborted: %v", text, err), nil
	}
	if match == nil {
		return false, fmt.Sprintf("%q did not appear after launching %s", text, bundle), nil
	}
	return e.tapMatch(match)
}

func (e *Engine) executeScrollSearch(s *ScrollUntilVisibleStep) (bool, string, *resolver.Match) {
	text := e.js.Expand(s.Selector.Text)
	maxScrolls := s.MaxScrolls
	if maxScrolls <= 0 {
		maxScrolls = e.opts.MaxScrolls
	}

	if match := e.tryResolve(text, s.Selector.Exact); match != nil {
		return e.tapMatch(match)
	}

	// Sweep down through the first half of the budget, then back up to
	// cover content above the starting position.
	downScrolls := (maxScrolls + 1) / 2
	var lastErr error
	for attempt := 1; attempt <= maxScrolls; attempt++ {
		if _, err := e.scrollGesture(attempt <= downScrolls); err != nil {
			lastErr = err
			continue
		}
		e.sleep(e.opts.SettleDelay)

		matches, err := e.resolveText(text, s.Selector.Exact)
		if err != nil {
			lastErr = err
			continue
		}
		if best := resolver.Best(matches); best != nil {
			return e.tapMatch(best)
		}
	}

	msg := fmt.Sprintf("%q not found after %d scrolls", text, maxScrolls)
	if lastErr != nil {
		msg += fmt.Sprintf(" (last error: %v)", lastErr)
	}
	return false, msg, nil
}

func (e *Engine) executeAssertVisible(s *AssertVisibleStep) (bool, string, *resolver.Match) {
	text := e.js.Expand(s.Selector.Text)
	matches, err := e.resolveText(text, s.Selector.Exact)
	if err != nil {
		return false, fmt.Sprintf("assertVisible %q: %v", text, err), nil
	}
	if best := resolver.Best(matches); best != nil {
		return true, fmt.Sprintf("%q visible (score %d)", text, best.Score), best
	}
	return false, e.notFoundMessage(text), nil
}

func (e *Engine) executeAssertTextEquals(s *AssertTextEqualsStep) (bool, string, *resolver.Match) {
	text := e.js.Expand(s.Selector.Text)
	expected := e.js.Expand(s.Expected)

	matches, err := e.resolveText(text, s.Selector.Exact)
	if err != nil {
		return false, fmt.Sprintf("assertTextEquals %q: %v", text, err), nil
	}
	best := resolver.Best(matches)
	if best == nil {
		return false, e.notFoundMessage(text), nil
	}
	if best.Node.Name != expected {
		return false, fmt.Sprintf("text mismatch: got %q, want %q", best.Node.Name, expected), best
	}
	return true, fmt.Sprintf("text equals %q", expected), best
}

func (e *Engine) executeTapOn(s *TapOnStep) (bool, string, *resolver.Match) {
	if s.Selector.IsEmpty() {
		if _, err := e.exec.Tap(s.X, s.Y); err != nil {
			return false, fmt.Sprintf("tap (%d, %d): %v", s.X, s.Y, err), nil
		}
		return true, fmt.Sprintf("tapped (%d, %d)", s.X, s.Y), nil
	}

	text := e.js.Expand(s.Selector.Text)
	matches, err := e.resolveText(text, s.Selector.Exact)
	if err != nil {
		return false, fmt.Sprintf("tapOn %q: %v", text, err), nil
	}
	best := resolver.Best(matches)
	if best == nil {
		return false, e.notFoundMessage(text), nil
	}
	return e.tapMatch(best)
}

func (e *Engine) executeSwipe(s *SwipeStep) (bool, string, *resolver.Match) {
	if _, err := e.exec.Swipe(s.StartX, s.StartY, s.EndX, s.EndY, s.Duration); err != nil {
		return false, fmt.Sprintf("swipe failed: %v", err), nil
	}
	return true, s.Describe(), nil
}

func (e *Engine) executeWaitUntil(s *WaitUntilStep) (bool, string, *resolver.Match) {
	text := e.js.Expand(s.Selector.Text)
	timeout := stepTimeout(s.TimeoutMs, e.opts.WaitTimeout)

	match, err := e.pollForText(text, s.Selector.Exact, timeout)
	if err != nil {
		return false, fmt.Sprintf("waiting for %q aborted: %v", text, err), nil
	}
	if match == nil {
		return false, fmt.Sprintf("%q did not appear within %dms", text, timeout.Milliseconds()), nil
	}
	return true, fmt.Sprintf("%q appeared (score %d)", text, match.Score), match
}

// pollForText re-ingests the tree at a fixed interval until the text
// resolves or the wall-clock deadline passes. A timed-out wait returns a
// nil match, not an error; only repeated ingestion failures abort. The
// deadline is checked at the top of each iteration.
func (e *Engine) pollForText(text string, exact bool, timeout time.Duration) (*resolver.Match, error) {
	deadline := e.now().Add(timeout)
	consecutiveErrs := 0

	for {
		if !e.now().Before(deadline) {
			return nil, nil
		}

		matches, err := e.resolveText(text, exact)
		if err != nil {
			consecutiveErrs++
			logger.Debug("ingestion attempt failed (%d consecutive): %v", consecutiveErrs, err)
			if consecutiveErrs >= e.opts.MaxDumpErrors {
				return nil, err
			}
		} else {
			consecutiveErrs = 0
			if best := resolver.Best(matches); best != nil {
				return best, nil
			}
		}

		e.sleep(e.opts.PollInterval)
	}
}

// tryResolve performs a single ingest+resolve, swallowing errors.
func (e *Engine) tryResolve(text string, exact bool) *resolver.Match {
	matches, err := e.resolveText(text, exact)
	if err != nil {
		return nil
	}
	return resolver.Best(matches)
}

// resolveText ingests a fresh dump and queries every tree of the forest.
// Per-root results are concatenated in ascending pid order and re-sorted
// by descending score.
func (e *Engine) resolveText(text string, exact bool) ([]resolver.Match, error) {
	forest, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	var all []resolver.Match
	for _, pid := range sortedPids(forest) {
		all = append(all, resolver.FindByText(forest[pid], text, exact)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})
	return all, nil
}

// snapshot reads and parses a fresh render-tree dump. The forest is
// consumed by exactly one resolution pass and then discarded.
func (e *Engine) snapshot() (rstree.Forest, error) {
	out, err := e.conn.RunCommand(e.opts.DumpCommand)
	if err != nil {
		return nil, core.ErrCommandFailed.WithCause(err)
	}
	return rstree.Parse(out), nil
}

// tapMatch taps the center of the matched node's rectangle.
func (e *Engine) tapMatch(m *resolver.Match) (bool, string, *resolver.Match) {
	x, y, ok := resolver.TapPoint(m.Node)
	if !ok {
		return false, fmt.Sprintf("%s: %s", core.ErrNoCoordinates.Message, strings.Join(m.Path, " > ")), m
	}
	if _, err := e.exec.Tap(x, y); err != nil {
		return false, fmt.Sprintf("tap (%d, %d): %v", x, y, err), m
	}
	return true, fmt.Sprintf("tapped %s at (%d, %d), score %d", strings.Join(m.Path, " > "), x, y, m.Score), m
}

// scrollGesture swipes vertically through the middle of the screen.
// down means the content advances (finger moves up).
func (e *Engine) scrollGesture(down bool) (string, error) {
	x := e.opts.ScreenWidth / 2
	high := e.opts.ScreenHeight * 3 / 10
	low := e.opts.ScreenHeight * 7 / 10

	if down {
		return e.exec.Swipe(x, low, x, high, 300)
	}
	return e.exec.Swipe(x, high, x, low, 300)
}

// notFoundMessage builds the diagnostic for a resolution miss, listing
// the closest named nodes from a fresh snapshot.
func (e *Engine) notFoundMessage(text string) string {
	msg := fmt.Sprintf("element not found: text=%q", text)

	forest, err := e.snapshot()
	if err != nil {
		return msg
	}

	candidates := resolver.NearestNames(forest, text, 3)
	if len(candidates) > 0 {
		msg += "; closest candidates: " + strings.Join(candidates, ", ")
	}
	return msg
}

func sortedPids(f rstree.Forest) []int {
	pids := make([]int, 0, len(f))
	for pid := range f {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

func stepTimeout(ms int, fallback time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
