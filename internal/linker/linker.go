// Package linker associates a GitHub Actions workflow run with the task of a
// Delino backend.
package linker

import (
	"context"

	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/backend"
	"github.com/delino/devbird-action/internal/logfields"
	"github.com/delino/devbird-action/internal/outcome"
)

const loggerName = "task_linker"

const (
	rpcMethod = "LinkGitHubActionByToken"
	stepName  = "link_github_action"
)

type Linker struct {
	clt     *backend.Client
	service backend.Service
	logger  *zap.Logger
}

type request struct {
	WorkflowExecutionToken string `json:"workflow_execution_token"`
	GithubRunID            string `json:"github_run_id"`
}

// New returns a Linker for the given backend service.
// clt must be authenticated with the access token of the service.
func New(clt *backend.Client, service backend.Service) *Linker {
	return &Linker{
		clt:     clt,
		service: service,
		logger:  zap.L().Named(loggerName).With(logfields.Service(string(service))),
	}
}

// Link registers the workflow run runID for the task identified by
// workflowExecutionToken.
// When workflowExecutionToken is empty, linking is skipped.
// Failures are logged as warnings and reported, they are never returned as
// errors.
func (l *Linker) Link(ctx context.Context, workflowExecutionToken, runID string) *outcome.Report {
	logger := l.logger.With(logfields.RunID(runID))

	if workflowExecutionToken == "" {
		logger.Info(
			"no workflow execution token, skipping linking workflow run",
			logfields.Event("link_skipped"),
		)

		return outcome.Skip(stepName, "no workflow execution token")
	}

	return outcome.Run(ctx, logger, stepName, func(ctx context.Context) (*backend.Envelope, error) {
		return l.clt.Post(
			ctx,
			l.service.Path(rpcMethod),
			&request{
				WorkflowExecutionToken: workflowExecutionToken,
				GithubRunID:            runID,
			},
			nil,
		)
	})
}
