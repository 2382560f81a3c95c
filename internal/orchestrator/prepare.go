package orchestrator

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/backend"
	"github.com/delino/devbird-action/internal/exchange"
	"github.com/delino/devbird-action/internal/linker"
	"github.com/delino/devbird-action/internal/logfields"
)

// Prepare runs the prepare step of an AutoDev workflow.
//
// It tries to exchange the OIDC token of the job for a GitHub token,
// publishes the step outputs and links the workflow run to the AutoDev task
// when an access token is provided.
// An error is only returned when a required input is missing or the
// configuration is invalid.
func (o *Orchestrator) Prepare(ctx context.Context) error {
	workflowExecutionToken, err := o.platform.RequiredInput(InputAutoDevWorkflowExecutionToken)
	if err != nil {
		return err
	}

	agent, err := o.platform.RequiredInput(InputAgent)
	if err != nil {
		return err
	}

	agentModel := o.platform.Input(InputAgentModel)
	accessToken := o.platform.Input(InputDelinoAccessToken)
	baseBranch := o.platform.Input(InputBaseBranch)

	timeout, err := o.httpTimeout()
	if err != nil {
		return err
	}

	owner, repo := o.platform.Repository()
	runID := o.platform.RunID()

	logger := o.logger.With(
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.RunID(runID),
	)

	logger.Info(
		"preparing workflow run",
		logfields.Event("prepare_started"),
		zap.String("agent", agent),
		zap.String("agent_model", agentModel),
		logfields.BaseBranch(baseBranch),
		logfields.Secret("delino_access_token", accessToken),
		zap.String("autodev_api_url", o.cfg.AutoDevAPIURL),
	)

	exchanger := exchange.New(backend.New(o.cfg.AutoDevAPIURL, "", timeout))

	githubToken, obtained := exchanger.ExchangeFromEnvironment(ctx, o.platform, owner, repo)
	if obtained {
		o.platform.AddMask(githubToken)
		o.platform.SetOutput(OutputGithubToken, githubToken)
		o.platform.ExportVariable(EnvGithubToken, githubToken)
	}

	o.platform.SetOutput(OutputWorkflowExecutionToken, workflowExecutionToken)
	o.platform.SetOutput(OutputAgent, agent)
	o.platform.SetOutput(OutputAgentModel, agentModel)
	o.platform.SetOutput(OutputGithubTokenObtained, strconv.FormatBool(obtained))

	if accessToken == "" {
		logger.Info(
			"no delino access token provided, skipping linking workflow run",
			logfields.Event("link_skipped"),
		)
	} else {
		lnk := linker.New(backend.New(o.cfg.AutoDevAPIURL, accessToken, timeout), backend.AutoDev)
		report := lnk.Link(ctx, workflowExecutionToken, runID)

		logger = logger.With(zap.Stringer("link_result", report))
	}

	logger.Info(
		"preparation completed",
		logfields.Event("prepare_completed"),
		zap.Bool("github_token_obtained", obtained),
	)

	return nil
}
