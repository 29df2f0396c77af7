// Package engine provides the Lisp evaluation engine for meshalyzer.
// It wraps zygomys in a sandboxed environment: scripts build and
// transform meshes, run topology queries against them, and emit named
// results for the caller.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshalyzer/pkg/mesh"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result bundles the output of an evaluation: the meshes the script
// emitted, keyed by name, plus the emission order.
type Result struct {
	Meshes map[string]*mesh.Mesh
	Order  []string
}

func newResult() *Result {
	return &Result{Meshes: make(map[string]*mesh.Mesh)}
}

// emit records a named mesh. Re-emitting a name replaces the mesh but
// keeps its original position in the order.
func (r *Result) emit(name string, m *mesh.Mesh) {
	if _, exists := r.Meshes[name]; !exists {
		r.Order = append(r.Order, name)
	}
	r.Meshes[name] = m
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment for
// determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine creates an Engine with the default evaluation timeout.
func NewEngine() *Engine {
	return NewEngineWithTimeout(DefaultEvalTimeout)
}

// NewEngineWithTimeout creates an Engine with a caller-chosen hard
// limit per evaluation.
func NewEngineWithTimeout(timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultEvalTimeout
	}
	return &Engine{timeout: timeout}
}

// Evaluate runs Lisp source and collects emitted meshes.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, e.timeout, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program that emits nothing.
	if strings.TrimSpace(source) == "" {
		return newResult(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls directly; file access goes through the load-obj and
	// save-obj builtins only.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	result := newResult()
	registerBuiltins(env, result)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return result, nil, nil
}

// preprocessSource transforms meshalyzer Lisp source before passing it
// to zygomys:
//
//  1. ; line comments become // comments (zygomys uses // rather than
//     the traditional Lisp ;).
//  2. Kebab-case identifiers become underscore form (find-holes ->
//     find_holes); zygomys reads a hyphen inside an identifier as the
//     subtraction operator.
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/8)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Copy backtick-quoted string literals untouched.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Kebab-case: a hyphen between identifier characters is part of
		// a name, not a minus operator.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
