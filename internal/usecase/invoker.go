package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"tutor-agent/internal/domain"
)

// FallbackReply is returned to the user when the provider could not produce
// a real reply. It is appended to the session context like any assistant
// turn so the model sees the failure on the next exchange.
const FallbackReply = "El modelo está saturado en este momento, inténtalo de nuevo en unos segundos."

// LLMClient generates a reply from an ordered sequence of prompt contents.
type LLMClient interface {
	Generate(ctx context.Context, model string, contents []string) (domain.Generation, error)
}

// httpStatusCoder lets the retry predicate classify provider errors without
// importing the provider package.
type httpStatusCoder interface {
	HTTPStatusCode() int
}

// RetryPolicy bounds repeated attempts against the provider.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, first call included.
	MaxAttempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// Retryable reports whether a failed attempt may be retried.
	// Defaults to IsTransient.
	Retryable func(error) bool
}

// DefaultRetryPolicy matches the provider's observed failure profile:
// three attempts, two seconds apart, transient server errors only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second, Retryable: IsTransient}
}

// IsTransient reports whether err is a temporary server-side provider
// failure worth retrying. Client-side failures (auth, quota, malformed
// request) are not; retrying them inside one request cannot help.
func IsTransient(err error) bool {
	status, ok := upstreamStatusCode(err)
	return ok && status >= 500
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}

// Outcome is the tagged result of one generation cycle. Degraded marks the
// fallback path (retries exhausted or a non-retryable provider failure); a
// degraded outcome carries zero tokens and must not be persisted.
type Outcome struct {
	Reply    string
	Tokens   int
	Degraded bool
	// Cause is the last provider error when Degraded.
	Cause error
}

// Invoker calls the generation provider with bounded retries and converts
// every provider failure into a degraded outcome so the caller always has a
// usable reply. Only context cancellation propagates as an error.
type Invoker struct {
	llm    LLMClient
	model  string
	policy RetryPolicy

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewInvoker(llm LLMClient, model string, policy RetryPolicy) (*Invoker, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.Retryable == nil {
		policy.Retryable = IsTransient
	}
	return &Invoker{llm: llm, model: model, policy: policy, sleep: sleepContext}, nil
}

// Invoke runs the retry loop. The provider call blocks only the calling
// goroutine; concurrent sessions are unaffected.
func (iv *Invoker) Invoke(ctx context.Context, contents []string) (Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= iv.policy.MaxAttempts; attempt++ {
		gen, err := iv.llm.Generate(ctx, iv.model, contents)
		if err == nil {
			return Outcome{Reply: gen.Text, Tokens: gen.Tokens}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, ctxErr
		}
		lastErr = err
		if !iv.policy.Retryable(err) {
			break
		}
		if attempt < iv.policy.MaxAttempts {
			if err := iv.sleep(ctx, iv.policy.Delay); err != nil {
				return Outcome{}, err
			}
		}
	}
	return Outcome{Reply: FallbackReply, Degraded: true, Cause: lastErr}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
