// Package uploader sends branches and plan files that were discovered in the
// repository to DevBird.
package uploader

import (
	"context"

	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/backend"
	"github.com/delino/devbird-action/internal/logfields"
	"github.com/delino/devbird-action/internal/outcome"
	"github.com/delino/devbird-action/internal/scanner"
)

const loggerName = "uploader"

const (
	registerBranchesMethod = "RegisterBranchesByToken"
	uploadPlanMethod       = "UploadTaskGraphPlanByToken"

	registerBranchesStep = "register_branches"
	uploadPlanStep       = "upload_task_graph_plan"
)

// registeredPRsQuery counts the pull requests DevBird linked to the
// registered branches, the field is either a list or a number.
const registeredPRsQuery = ".registered_pull_requests | length"

type Uploader struct {
	clt                    *backend.Client
	workflowExecutionToken string
	logger                 *zap.Logger
}

type branchesRequest struct {
	WorkflowExecutionToken string            `json:"workflow_execution_token"`
	BranchNames            scanner.BranchSet `json:"branch_names"`
}

type planRequest struct {
	WorkflowExecutionToken string `json:"workflow_execution_token"`
	PlanFilename           string `json:"plan_filename"`
	PlanContent            string `json:"plan_content"`
}

// New returns an Uploader that sends data for the task identified by
// workflowExecutionToken.
// clt must point to the DevBird backend.
func New(clt *backend.Client, workflowExecutionToken string) *Uploader {
	return &Uploader{
		clt:                    clt,
		workflowExecutionToken: workflowExecutionToken,
		logger:                 zap.L().Named(loggerName),
	}
}

// UploadBranches registers branches for the task.
// An empty BranchSet is not uploaded.
func (u *Uploader) UploadBranches(ctx context.Context, branches scanner.BranchSet) *outcome.Report {
	logger := u.logger.With(logfields.Branches(branches))

	if len(branches) == 0 {
		logger.Info("no branches to register", logfields.Event("branch_registration_skipped"))
		return outcome.Skip(registerBranchesStep, "no branches")
	}

	report := outcome.Run(ctx, logger, registerBranchesStep, func(ctx context.Context) (*backend.Envelope, error) {
		return u.clt.Post(
			ctx,
			backend.DevBird.Path(registerBranchesMethod),
			&branchesRequest{
				WorkflowExecutionToken: u.workflowExecutionToken,
				BranchNames:            branches,
			},
			nil,
		)
	})
	if !report.Success {
		return report
	}

	cnt, err := report.QueryInt(ctx, registeredPRsQuery)
	if err != nil {
		logger.Debug(
			"could not evaluate registered pull requests from response",
			logfields.Event("registered_pull_requests_unknown"),
			zap.Error(err),
		)

		return report
	}

	if cnt > 0 {
		logger.Info(
			"existing pull requests were registered for the branches",
			logfields.Event("pull_requests_registered"),
			zap.Int("registered_pull_requests", cnt),
		)
	}

	return report
}

// UploadPlan uploads the content of a plan file for the task.
func (u *Uploader) UploadPlan(ctx context.Context, plan scanner.PlanFile) *outcome.Report {
	logger := u.logger.With(logfields.PlanFile(plan.Name))

	return outcome.Run(ctx, logger, uploadPlanStep, func(ctx context.Context) (*backend.Envelope, error) {
		return u.clt.Post(
			ctx,
			backend.DevBird.Path(uploadPlanMethod),
			&planRequest{
				WorkflowExecutionToken: u.workflowExecutionToken,
				PlanFilename:           plan.Name,
				PlanContent:            plan.Content,
			},
			nil,
		)
	})
}
