// Package ghaction provides access to the GitHub Actions runtime of the
// current job step.
package ghaction

import (
	"context"
	"strings"

	"github.com/sethvargo/go-githubactions"

	"github.com/delino/devbird-action/internal/actionerr"
)

// Action reads inputs and publishes results of an action step.
type Action struct {
	gha *githubactions.Action
}

// New returns an Action, opts are passed to githubactions.New.
func New(opts ...githubactions.Option) *Action {
	return &Action{gha: githubactions.New(opts...)}
}

// Input returns the whitespace-trimmed value of the input, an empty string
// if it is not set.
func (a *Action) Input(name string) string {
	return strings.TrimSpace(a.gha.GetInput(name))
}

// RequiredInput returns the value of the input.
// An *actionerr.InputError is returned if the input is not set.
func (a *Action) RequiredInput(name string) (string, error) {
	val := a.Input(name)
	if val == "" {
		return "", actionerr.NewInputError(name)
	}

	return val, nil
}

func (a *Action) SetOutput(name, value string) {
	a.gha.SetOutput(name, value)
}

// ExportVariable makes the environment variable available to subsequent
// steps of the job.
func (a *Action) ExportVariable(name, value string) {
	a.gha.SetEnv(name, value)
}

// AddMask registers value as secret, the runner replaces it in all log
// output.
func (a *Action) AddMask(value string) {
	a.gha.AddMask(value)
}

// IDToken requests an OIDC identity token for the job from the runner.
// It fails if the workflow does not have the id-token permission.
func (a *Action) IDToken(ctx context.Context) (string, error) {
	return a.gha.GetIDToken(ctx, "")
}

func (a *Action) RunID() string {
	return a.gha.Getenv("GITHUB_RUN_ID")
}

// Repository returns the owner and name of the repository the workflow runs
// for.
func (a *Action) Repository() (owner, name string) {
	owner = a.gha.Getenv("GITHUB_REPOSITORY_OWNER")

	repoOwner, repoName, found := strings.Cut(a.gha.Getenv("GITHUB_REPOSITORY"), "/")
	if !found {
		return owner, repoOwner
	}

	if owner == "" {
		owner = repoOwner
	}

	return owner, repoName
}

// Workspace returns the directory the repository is checked out to.
func (a *Action) Workspace() string {
	return a.gha.Getenv("GITHUB_WORKSPACE")
}

// Fail writes an error annotation for the step.
// It does not terminate the process.
func (a *Action) Fail(err error) {
	a.gha.Errorf("%s", err)
}
