// Package orchestrator implements the prepare and postprocess steps that
// connect a GitHub Actions workflow run with a Delino AutoDev or DevBird
// task.
//
// Both steps are independent process executions, they do not share state.
// Only missing required inputs and unexpected failures fail a step; failing
// backend calls, git commands and file reads are logged as warnings and the
// step continues.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/cfg"
	"github.com/delino/devbird-action/internal/scanner"
)

const loggerName = "orchestrator"

// Action inputs.
const (
	InputAutoDevWorkflowExecutionToken = "autodev_workflow_execution_token"
	InputDevBirdWorkflowExecutionToken = "devbird_workflow_execution_token"
	InputDelinoAccessToken             = "delino_access_token"
	InputBaseBranch                    = "base_branch"
	InputAgent                         = "agent"
	InputAgentModel                    = "agent_model"
	InputDevBirdMode                   = "devbird_mode"
)

// Action outputs.
const (
	OutputWorkflowExecutionToken = "workflow_execution_token"
	OutputAgent                  = "agent"
	OutputAgentModel             = "agent_model"
	OutputGithubTokenObtained    = "githubToken_obtained"
	OutputGithubToken            = "github_token"
)

// EnvGithubToken is the environment variable the exchanged GitHub token is
// exported as for subsequent steps.
const EnvGithubToken = "GITHUB_TOKEN"

//go:generate mockgen -destination=mocks/platform.go -package=mocks . Platform

// Platform provides the inputs of the step and receives its results.
type Platform interface {
	Input(name string) string
	RequiredInput(name string) (string, error)
	SetOutput(name, value string)
	ExportVariable(name, value string)
	AddMask(value string)
	IDToken(ctx context.Context) (string, error)
	RunID() string
	Repository() (owner, name string)
	Workspace() string
}

type Orchestrator struct {
	cfg      *cfg.Config
	platform Platform

	scannerOpts []scanner.Option

	logger *zap.Logger
}

type Option func(*Orchestrator)

// WithScannerOptions passes additional options to the repository scanner.
// They are applied after the options derived from the configuration.
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(o *Orchestrator) {
		o.scannerOpts = append(o.scannerOpts, opts...)
	}
}

func New(config *cfg.Config, platform Platform, opts ...Option) *Orchestrator {
	o := Orchestrator{
		cfg:      config,
		platform: platform,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = zap.L().Named(loggerName)
	}

	return &o
}

func (o *Orchestrator) httpTimeout() (time.Duration, error) {
	d, err := o.cfg.Timeout()
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %w", err)
	}

	return d, nil
}

func (o *Orchestrator) newScanner() *scanner.Scanner {
	opts := append([]scanner.Option{
		scanner.WithMaxBranches(o.cfg.MaxBranches),
		scanner.WithPlanFilePattern(o.cfg.PlanFilePattern),
	}, o.scannerOpts...)

	return scanner.New(o.platform.Workspace(), opts...)
}
