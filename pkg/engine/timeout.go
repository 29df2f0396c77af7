package engine

import (
	"fmt"
	"sync"
	"time"
)

// DefaultEvalTimeout is the hard limit for a single evaluation when the
// engine is built with NewEngine.
const DefaultEvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results
// through channels.
type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout
// error if the evaluation exceeds the limit. It uses a generation
// counter to discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	timeout time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Result, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			// A newer evaluation was started; discard this result.
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.result, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
