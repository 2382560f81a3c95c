package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/delino/devbird-action/internal/actionerr"
)

const (
	exchangePath    = "/AutoDev/ExchangeOIDCTokenForGitHubToken"
	autoDevLinkPath = "/AutoDev/LinkGitHubActionByToken"
)

func prepareInputs() map[string]string {
	return map[string]string{
		InputAutoDevWorkflowExecutionToken: "wet-autodev",
		InputDelinoAccessToken:             "delino-token",
		InputAgent:                         "claude-code",
		InputAgentModel:                    "sonnet",
		InputBaseBranch:                    "main",
	}
}

func TestPrepareExchangesTokenAndLinks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	b := newFakeBackend(t, map[string]response{
		exchangePath: {status: http.StatusOK, body: `{"success":true,"message":"ok","githubToken":"ghs_installation"}`},
	})
	p, state := newPlatform(t, platformConfig{inputs: prepareInputs(), idToken: "oidc-jwt"})

	err := New(testConfig(b), p).Prepare(context.Background())
	require.NoError(t, err)

	exchangeCalls := b.callsTo(exchangePath)
	require.Len(t, exchangeCalls, 1)
	assert.Empty(t, exchangeCalls[0].Auth)
	assert.Equal(t, map[string]any{
		"oidc_token":       "oidc-jwt",
		"repository_owner": "delino",
		"repository_name":  "app",
	}, exchangeCalls[0].Body)

	linkCalls := b.callsTo(autoDevLinkPath)
	require.Len(t, linkCalls, 1)
	assert.Equal(t, "Bearer delino-token", linkCalls[0].Auth)
	assert.Equal(t, map[string]any{
		"workflow_execution_token": "wet-autodev",
		"github_run_id":            "777",
	}, linkCalls[0].Body)

	assert.Equal(t, map[string]string{
		OutputWorkflowExecutionToken: "wet-autodev",
		OutputAgent:                  "claude-code",
		OutputAgentModel:             "sonnet",
		OutputGithubTokenObtained:    "true",
		OutputGithubToken:            "ghs_installation",
	}, state.outputs)
	assert.Equal(t, map[string]string{EnvGithubToken: "ghs_installation"}, state.env)
	assert.Equal(t, []string{"ghs_installation"}, state.masks)

	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, "ghs_installation")
		assert.NotContains(t, entry.Message, "delino-token")
		for k, v := range entry.ContextMap() {
			assert.NotContainsf(t, fmt.Sprint(v), "ghs_installation", "log field %q leaks github token", k)
			assert.NotContainsf(t, fmt.Sprint(v), "delino-token", "log field %q leaks access token", k)
		}
	}
}

func TestPrepareWithoutOIDCProvider(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, nil)
	p, state := newPlatform(t, platformConfig{
		inputs: prepareInputs(),
		idErr:  errors.New("ACTIONS_ID_TOKEN_REQUEST_URL is not set"),
	})

	require.NoError(t, New(testConfig(b), p).Prepare(context.Background()))

	assert.Empty(t, b.callsTo(exchangePath))
	assert.Len(t, b.callsTo(autoDevLinkPath), 1)

	obtained, _ := state.output(OutputGithubTokenObtained)
	assert.Equal(t, "false", obtained)

	_, exist := state.output(OutputGithubToken)
	assert.False(t, exist)
	assert.Empty(t, state.env)
	assert.Empty(t, state.masks)
}

func TestPrepareBackendFailuresAreNotFatal(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, map[string]response{
		exchangePath:    {status: http.StatusInternalServerError, body: "internal error"},
		autoDevLinkPath: {status: http.StatusOK, body: `{"success":false,"message":"task not found"}`},
	})
	p, state := newPlatform(t, platformConfig{inputs: prepareInputs(), idToken: "oidc-jwt"})

	require.NoError(t, New(testConfig(b), p).Prepare(context.Background()))

	obtained, _ := state.output(OutputGithubTokenObtained)
	assert.Equal(t, "false", obtained)

	agent, _ := state.output(OutputAgent)
	assert.Equal(t, "claude-code", agent)
}

func TestPrepareWithoutAccessTokenSkipsLinking(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	inputs := prepareInputs()
	delete(inputs, InputDelinoAccessToken)
	delete(inputs, InputAgentModel)

	b := newFakeBackend(t, nil)
	p, state := newPlatform(t, platformConfig{inputs: inputs, idErr: errors.New("no oidc")})

	require.NoError(t, New(testConfig(b), p).Prepare(context.Background()))

	assert.Zero(t, b.callCount())

	model, exist := state.output(OutputAgentModel)
	assert.True(t, exist)
	assert.Empty(t, model)
}

func TestPrepareMissingRequiredInputs(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	for _, input := range []string{InputAutoDevWorkflowExecutionToken, InputAgent} {
		t.Run(input, func(t *testing.T) {
			inputs := prepareInputs()
			delete(inputs, input)

			b := newFakeBackend(t, nil)
			p, state := newPlatform(t, platformConfig{inputs: inputs, idToken: "oidc-jwt"})

			err := New(testConfig(b), p).Prepare(context.Background())
			require.Error(t, err)
			assert.True(t, actionerr.IsInputError(err))
			assert.Contains(t, err.Error(), input)

			assert.Zero(t, b.callCount())
			assert.Empty(t, state.outputs)
		})
	}
}

func TestPrepareInvalidTimeoutConfig(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, nil)
	p, _ := newPlatform(t, platformConfig{inputs: prepareInputs(), idToken: "oidc-jwt"})

	config := testConfig(b)
	config.HTTPClientTimeout = "soon"

	assert.Error(t, New(config, p).Prepare(context.Background()))
	assert.Zero(t, b.callCount())
}
