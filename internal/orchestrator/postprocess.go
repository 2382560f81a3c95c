package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/actionerr"
	"github.com/delino/devbird-action/internal/backend"
	"github.com/delino/devbird-action/internal/linker"
	"github.com/delino/devbird-action/internal/logfields"
	"github.com/delino/devbird-action/internal/outcome"
	"github.com/delino/devbird-action/internal/scanner"
	"github.com/delino/devbird-action/internal/uploader"
)

// Postprocess runs the postprocess step of a DevBird workflow.
//
// If no workflow execution token is provided there is nothing to do and nil
// is returned. Otherwise the workflow run is linked to the DevBird task and,
// concurrently, depending on the mode, either the plan files or the branches
// of the repository are uploaded.
// An error is returned when the access token input is missing, the
// configuration is invalid or a task panicked.
func (o *Orchestrator) Postprocess(ctx context.Context) error {
	workflowExecutionToken := o.platform.Input(InputDevBirdWorkflowExecutionToken)
	if workflowExecutionToken == "" {
		o.logger.Info(
			"no workflow execution token provided, nothing to do",
			logfields.Event("postprocess_skipped"),
		)

		return nil
	}

	accessToken, err := o.platform.RequiredInput(InputDelinoAccessToken)
	if err != nil {
		return err
	}

	baseBranch := o.platform.Input(InputBaseBranch)
	modeInput := o.platform.Input(InputDevBirdMode)
	mode := ParseMode(modeInput)

	timeout, err := o.httpTimeout()
	if err != nil {
		return err
	}

	runID := o.platform.RunID()

	logger := o.logger.With(
		logfields.RunID(runID),
		logfields.Mode(mode.String()),
	)

	if modeInput != "" && modeInput != mode.String() {
		logger.Info(
			fmt.Sprintf("unknown devbird_mode %q, using %s mode", modeInput, mode),
			logfields.Event("devbird_mode_defaulted"),
		)
	}

	logger.Info(
		"postprocessing workflow run",
		logfields.Event("postprocess_started"),
		logfields.BaseBranch(baseBranch),
		zap.String("devbird_api_url", o.cfg.DevBirdAPIURL),
	)

	clt := backend.New(o.cfg.DevBirdAPIURL, accessToken, timeout)
	lnk := linker.New(clt, backend.DevBird)
	upl := uploader.New(clt, workflowExecutionToken)
	scn := o.newScanner()

	var tasks taskGroup

	tasks.Go(func() []*outcome.Report {
		return []*outcome.Report{lnk.Link(ctx, workflowExecutionToken, runID)}
	})

	switch mode {
	case ModePlan:
		tasks.Go(func() []*outcome.Report {
			return uploadPlans(ctx, scn, upl)
		})

	case ModeDevelop:
		tasks.Go(func() []*outcome.Report {
			branches := scn.DetectBranches(ctx, baseBranch)
			return []*outcome.Report{upl.UploadBranches(ctx, branches)}
		})

	default:
		logger.Panic("mode has undefined enum value", zap.Int("mode_int", int(mode)))
	}

	reports, err := tasks.Wait()
	if err != nil {
		return err
	}

	logger.Info(
		"postprocessing completed",
		logfields.Event("postprocess_completed"),
		zap.Strings("results", reportStrings(reports)),
	)

	return nil
}

func uploadPlans(ctx context.Context, scn *scanner.Scanner, upl *uploader.Uploader) []*outcome.Report {
	plans := scn.DetectPlanFiles()
	reports := make([]*outcome.Report, 0, len(plans))

	for _, plan := range plans {
		reports = append(reports, upl.UploadPlan(ctx, plan))
	}

	return reports
}

func reportStrings(reports []*outcome.Report) []string {
	result := make([]string, 0, len(reports))

	for _, r := range reports {
		result = append(result, r.String())
	}

	return result
}

// taskGroup runs functions in go-routines and collects their reports.
// A panic in a function is recovered and returned as error by Wait.
type taskGroup struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	reports []*outcome.Report
	errs    []error
}

func (g *taskGroup) Go(fn func() []*outcome.Report) {
	g.wg.Add(1)

	go func() {
		defer g.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				g.mu.Lock()
				g.errs = append(g.errs, &actionerr.PanicError{Value: r})
				g.mu.Unlock()
			}
		}()

		reports := fn()

		g.mu.Lock()
		g.reports = append(g.reports, reports...)
		g.mu.Unlock()
	}()
}

// Wait blocks until all started functions returned.
func (g *taskGroup) Wait() ([]*outcome.Report, error) {
	g.wg.Wait()

	return g.reports, errors.Join(g.errs...)
}
