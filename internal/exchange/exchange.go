// Package exchange trades the OIDC identity token of a workflow run for a
// GitHub installation token issued by the AutoDev backend.
package exchange

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/backend"
	"github.com/delino/devbird-action/internal/logfields"
	"github.com/delino/devbird-action/internal/outcome"
)

const loggerName = "token_exchanger"

const (
	rpcMethod = "ExchangeOIDCTokenForGitHubToken"
	stepName  = "exchange_oidc_token"
)

// IDTokenSource provides the OIDC identity token of the running job.
type IDTokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

type Exchanger struct {
	clt    *backend.Client
	logger *zap.Logger
}

type request struct {
	OIDCToken       string `json:"oidc_token"`
	RepositoryOwner string `json:"repository_owner"`
	RepositoryName  string `json:"repository_name"`
}

type response struct {
	GithubToken string `json:"githubToken"`
}

// New returns an Exchanger that sends requests via clt.
// clt must point to the AutoDev backend.
func New(clt *backend.Client) *Exchanger {
	return &Exchanger{
		clt:    clt,
		logger: zap.L().Named(loggerName),
	}
}

// ExchangeFromEnvironment requests an identity token from src and exchanges
// it.
// If no identity token can be obtained, the exchange is skipped and false is
// returned.
func (e *Exchanger) ExchangeFromEnvironment(ctx context.Context, src IDTokenSource, owner, repo string) (string, bool) {
	logger := e.logger.With(logfields.RepositoryOwner(owner), logfields.Repository(repo))

	idToken, err := src.IDToken(ctx)
	if err == nil && idToken == "" {
		err = errors.New("identity token is empty")
	}
	if err != nil {
		logger.Info(
			"oidc token is not available, skipping github token exchange",
			logfields.Event("oidc_token_unavailable"),
			zap.Error(err),
		)

		return "", false
	}

	return e.Exchange(ctx, idToken, owner, repo)
}

// Exchange sends idToken to the AutoDev backend and returns the GitHub token
// it issued.
// Failures are logged as warnings and result in false being returned.
func (e *Exchanger) Exchange(ctx context.Context, idToken, owner, repo string) (string, bool) {
	logger := e.logger.With(logfields.RepositoryOwner(owner), logfields.Repository(repo))

	var resp response

	report := outcome.Run(ctx, logger, stepName, func(ctx context.Context) (*backend.Envelope, error) {
		return e.clt.Post(
			ctx,
			backend.AutoDev.Path(rpcMethod),
			&request{
				OIDCToken:       idToken,
				RepositoryOwner: owner,
				RepositoryName:  repo,
			},
			&resp,
		)
	})
	if !report.Success {
		return "", false
	}

	if resp.GithubToken == "" {
		logger.Warn(
			"exchange response does not contain a github token",
			logfields.Event("github_token_missing_in_response"),
		)

		return "", false
	}

	logger.Info(
		"github token obtained",
		logfields.Event("github_token_obtained"),
		logfields.Secret("github_token", resp.GithubToken),
	)

	return resp.GithubToken, true
}
