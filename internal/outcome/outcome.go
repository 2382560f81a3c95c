// Package outcome runs backend calls in a best-effort manner and reports
// their results uniformly.
package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/backend"
	"github.com/delino/devbird-action/internal/logfields"
)

// Report is the result of a single best-effort step.
type Report struct {
	Step    string
	Success bool
	Skipped bool
	Message string

	body []byte
}

// Call is a backend call whose response carries the success/message envelope.
type Call func(context.Context) (*backend.Envelope, error)

// Skip returns a report for a step that was not executed.
func Skip(step, reason string) *Report {
	return &Report{
		Step:    step,
		Skipped: true,
		Message: reason,
	}
}

// Run executes call exactly once and converts its result into a Report.
// Errors, panics and responses with success=false are logged as warnings,
// Run never fails.
// Response bodies are never logged, they can contain credentials.
func Run(ctx context.Context, logger *zap.Logger, step string, call Call) (report *Report) {
	logger = logger.With(logfields.Step(step))

	defer func() {
		if r := recover(); r != nil {
			logger.Warn(
				"backend call panicked",
				logfields.Event("backend_call_panicked"),
				zap.String("panic", fmt.Sprint(r)),
			)

			report = &Report{
				Step:    step,
				Message: fmt.Sprint(r),
			}
		}
	}()

	env, err := call(ctx)
	if err != nil {
		logger.Warn(
			"backend call failed",
			logfields.Event("backend_call_failed"),
			zap.Error(err),
		)

		return &Report{
			Step:    step,
			Message: err.Error(),
		}
	}

	if env == nil {
		logger.Warn(
			"backend call returned no response",
			logfields.Event("backend_call_failed"),
		)

		return &Report{
			Step:    step,
			Message: "empty response",
		}
	}

	if !env.Success {
		logger.Warn(
			"backend reported failure",
			logfields.Event("backend_call_unsuccessful"),
			zap.String("response_message", env.Message),
		)

		return &Report{
			Step:    step,
			Message: env.Message,
			body:    env.Body,
		}
	}

	logger.Info(
		"backend call succeeded",
		logfields.Event("backend_call_succeeded"),
		zap.String("response_message", env.Message),
	)

	return &Report{
		Step:    step,
		Success: true,
		Message: env.Message,
		body:    env.Body,
	}
}

func (r *Report) String() string {
	switch {
	case r.Skipped:
		return fmt.Sprintf("%s: skipped (%s)", r.Step, r.Message)
	case r.Success:
		return fmt.Sprintf("%s: success (%s)", r.Step, r.Message)
	default:
		return fmt.Sprintf("%s: failed (%s)", r.Step, r.Message)
	}
}

// QueryInt evaluates the jq query on the JSON response body of the step and
// returns its single result as int.
func (r *Report) QueryInt(ctx context.Context, query string) (int, error) {
	if len(r.body) == 0 {
		return 0, errors.New("report has no response body")
	}

	q, err := gojq.Parse(query)
	if err != nil {
		return 0, fmt.Errorf("parsing query failed: %w", err)
	}

	var doc any
	if err := json.Unmarshal(r.body, &doc); err != nil {
		return 0, fmt.Errorf("unmarshaling response body failed: %w", err)
	}

	result, errs := goJQIterToSlice(q.RunWithContext(ctx, doc))
	if len(errs) != 0 {
		return 0, fmt.Errorf("json query returned errors, query: %q, errors: %s", query, errString(errs))
	}

	if len(result) != 1 {
		return 0, fmt.Errorf("json query returned %d results, expected 1, query: %q", len(result), query)
	}

	switch v := result[0].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("json query result has type %T, expected a number", v)
	}
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errs []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errs
		}

		if err, isErr := res.(error); isErr {
			errs = append(errs, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		result.WriteString(fmt.Sprintf("error %d: %s", i, err))
	}

	return result.String()
}
