package rpc

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/vietddude/dfsclient/internal/metrics"
)

// RetryOptions defines retry behavior for one Execute call.
type RetryOptions struct {
	// MaxTries bounds the number of attempts. 0 means unlimited: on
	// persistent transport errors only cancellation stops the call.
	MaxTries int

	// RetryDelay is the minimum spacing between attempt starts. If an
	// attempt consumed part of the interval, only the remainder is waited.
	RetryDelay time.Duration

	// DelayLastAttempt waits out the delay even before the final attempt's
	// failure surfaces.
	DelayLastAttempt bool
}

// DefaultRetryOptions provides sensible defaults.
var DefaultRetryOptions = RetryOptions{
	MaxTries:   5,
	RetryDelay: 5 * time.Second,
}

// Engine executes remote calls synchronously with retry. It blocks the
// calling goroutine for the full duration of all attempts and inter-attempt
// delays; concurrent Execute calls share no state, so the engine is safe to
// use from any number of goroutines and may wrap calls that themselves run
// through another Engine.
type Engine struct {
	logger     *slog.Logger
	classifier *Classifier
}

// NewEngine creates an engine. A nil logger falls back to slog.Default.
func NewEngine(logger *slog.Logger, classifier *Classifier) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = NewClassifier(logger, nil)
	}
	return &Engine{logger: logger, classifier: classifier}
}

// Classifier returns the classifier this engine surfaces failures through.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Execute invokes attempt until it succeeds, a non-retryable failure occurs,
// the attempt budget is exhausted, or ctx is cancelled.
//
// Only failures of ErrorTypeIO are retried. Cancellation is observed before
// each attempt, during the inter-attempt wait, and after each attempt
// returns; it never aborts an attempt already in flight, and a response
// completing after cancellation was observed is discarded.
//
// On success the response is returned and ownership transfers to the caller,
// who must Release it. On failure the returned error is always one of the
// typed failures of this package.
func (e *Engine) Execute(ctx context.Context, attempt func() Response, opts RetryOptions) (Response, error) {
	var resp Response
	interrupted := false

	for tries := 1; (tries <= opts.MaxTries || opts.MaxTries == 0) && !interrupted; tries++ {
		// Cancellation check before issuing an attempt.
		if ctx.Err() != nil {
			if resp != nil {
				resp.Release()
				resp = nil
			}
			interrupted = true
			break
		}

		// At most one response is live at a time.
		if resp != nil {
			resp.Release()
			resp = nil
		}

		start := time.Now()
		resp = attempt()
		metrics.RPCAttemptsTotal.Inc()
		metrics.RPCAttemptLatency.Observe(time.Since(start).Seconds())

		if resp.HasFailed() {
			errResp := resp.Error()
			if errResp.Type == ErrorTypeIO &&
				(tries < opts.MaxTries || opts.MaxTries == 0 ||
					(tries == opts.MaxTries && opts.DelayLastAttempt)) {
				// Log only on the first retry.
				if tries == 1 && opts.MaxTries != 1 {
					attemptsLeft := "unlimited"
					if opts.MaxTries != 0 {
						attemptsLeft = strconv.Itoa(opts.MaxTries - tries)
					}
					e.logger.Error("got no response from server, retrying",
						"attempts_left", attemptsLeft,
						"retry_delay", opts.RetryDelay)
				}
				metrics.RPCRetriesTotal.Inc()
				// Wait until the delay floor measured from the attempt start
				// is up, to avoid flooding the server.
				if !waitRemainder(ctx, start, opts.RetryDelay) {
					interrupted = true
				}
			} else {
				// Non-retryable error type or budget exhausted.
				break
			}
		}

		// Cancellation check after the attempt (and after any wait). A
		// response that completed after cancellation is discarded.
		if ctx.Err() != nil {
			e.logger.Debug("caught interrupt, aborting sync request")
			if resp != nil {
				resp.Release()
				resp = nil
			}
			interrupted = true
			break
		}
		if resp != nil && !resp.HasFailed() {
			break
		}
	}

	if resp == nil {
		// Interrupted before any attempt succeeded.
		return nil, e.classifier.Cancelled(ctx, context.Cause(ctx))
	}
	if !resp.HasFailed() {
		return resp, nil
	}

	// Copy the error details so the response can be released before the
	// failure is surfaced.
	errResp := *resp.Error()
	resp.Release()
	return nil, e.classifier.Classify(ctx, &errResp)
}

// waitRemainder sleeps until delay has elapsed since start, returning false
// if ctx was cancelled first.
func waitRemainder(ctx context.Context, start time.Time, delay time.Duration) bool {
	remaining := delay - time.Since(start)
	if remaining <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
