// Package jsengine provides JavaScript expression evaluation for
// variable interpolation in workflow steps.
package jsengine

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// placeholderPattern matches ${...} interpolation sites.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// envVarPattern matches ALL_CAPS identifiers that look like env variables.
var envVarPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{2,}$`)

// Engine wraps a goja runtime with a string variable store.
type Engine struct {
	runtime   *goja.Runtime
	variables map[string]string
	mu        sync.Mutex
}

// New creates a new engine instance.
func New() *Engine {
	return &Engine{
		runtime:   goja.New(),
		variables: make(map[string]string),
	}
}

// SetVariable sets a variable in both the Go map and the JS runtime.
func (e *Engine) SetVariable(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables[name] = value
	e.runtime.Set(name, value) //nolint:errcheck
}

// SetVariables sets multiple variables.
func (e *Engine) SetVariables(vars map[string]string) {
	for name, value := range vars {
		e.SetVariable(name, value)
	}
}

// Variable returns a variable's current value.
func (e *Engine) Variable(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.variables[name]
	return v, ok
}

// ImportSystemEnv imports ALL_CAPS system environment variables into the
// runtime so flows can reference them directly.
func (e *Engine) ImportSystemEnv() {
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !envVarPattern.MatchString(name) {
			continue
		}
		e.SetVariable(name, value)
	}
}

// Eval evaluates a JavaScript expression and returns its string form.
func (e *Engine) Eval(expr string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.runtime.RunString(expr)
	if err != nil {
		return "", fmt.Errorf("eval %q: %w", expr, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", nil
	}
	return v.String(), nil
}

// Expand replaces every ${expr} site in s with the evaluated expression.
// Sites that fail to evaluate are left untouched.
func (e *Engine) Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		expr := m[2 : len(m)-1]
		v, err := e.Eval(expr)
		if err != nil {
			return m
		}
		return v
	})
}
