package orchestrator

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/delino/devbird-action/internal/actionerr"
	"github.com/delino/devbird-action/internal/scanner"
)

const (
	devBirdLinkPath  = "/DevBird/LinkGitHubActionByToken"
	registerPath     = "/DevBird/RegisterBranchesByToken"
	uploadPlanPath   = "/DevBird/UploadTaskGraphPlanByToken"
	gitBranchOutput  = "main\nfeature-a\nfeature-b\n"
	planFileContent1 = "tasks:\n  - id: one\n"
	planFileContent2 = "tasks:\n  - id: two\n"
)

func postprocessInputs(mode string) map[string]string {
	return map[string]string{
		InputDevBirdWorkflowExecutionToken: "wet-devbird",
		InputDelinoAccessToken:             "delino-token",
		InputBaseBranch:                    "main",
		InputDevBirdMode:                   mode,
	}
}

// workspaceWithPlans returns a directory containing two plan files.
func workspaceWithPlans(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PLAN-1.yaml"), []byte(planFileContent1), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PLAN-2.yaml"), []byte(planFileContent2), 0o600))

	return dir
}

// countingGit returns a CommandRunner that returns out and counts its
// invocations.
func countingGit(out string, cnt *int32) scanner.CommandRunner {
	return func(context.Context, string, string, ...string) ([]byte, error) {
		atomic.AddInt32(cnt, 1)
		return []byte(out), nil
	}
}

func TestPostprocessDevelopMode(t *testing.T) {
	for _, mode := range []string{"develop", "", "review"} {
		t.Run("mode_"+mode, func(t *testing.T) {
			t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

			var gitCalls int32

			b := newFakeBackend(t, nil)
			p, _ := newPlatform(t, platformConfig{
				inputs:    postprocessInputs(mode),
				workspace: workspaceWithPlans(t),
			})

			o := New(testConfig(b), p, WithScannerOptions(scanner.WithCommandRunner(countingGit(gitBranchOutput, &gitCalls))))
			require.NoError(t, o.Postprocess(context.Background()))

			assert.EqualValues(t, 1, atomic.LoadInt32(&gitCalls))

			linkCalls := b.callsTo(devBirdLinkPath)
			require.Len(t, linkCalls, 1)
			assert.Equal(t, "Bearer delino-token", linkCalls[0].Auth)
			assert.Equal(t, map[string]any{
				"workflow_execution_token": "wet-devbird",
				"github_run_id":            "777",
			}, linkCalls[0].Body)

			registerCalls := b.callsTo(registerPath)
			require.Len(t, registerCalls, 1)
			assert.Equal(t, "Bearer delino-token", registerCalls[0].Auth)
			assert.Equal(t, map[string]any{
				"workflow_execution_token": "wet-devbird",
				"branch_names":             []any{"feature-a", "feature-b"},
			}, registerCalls[0].Body)

			assert.Empty(t, b.callsTo(uploadPlanPath))
		})
	}
}

func TestPostprocessPlanMode(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var gitCalls int32

	b := newFakeBackend(t, nil)
	p, _ := newPlatform(t, platformConfig{
		inputs:    postprocessInputs("plan"),
		workspace: workspaceWithPlans(t),
	})

	o := New(testConfig(b), p, WithScannerOptions(scanner.WithCommandRunner(countingGit(gitBranchOutput, &gitCalls))))
	require.NoError(t, o.Postprocess(context.Background()))

	assert.Zero(t, atomic.LoadInt32(&gitCalls))
	assert.Empty(t, b.callsTo(registerPath))
	assert.Len(t, b.callsTo(devBirdLinkPath), 1)

	uploads := b.callsTo(uploadPlanPath)
	require.Len(t, uploads, 2)
	assert.ElementsMatch(t, []any{
		map[string]any{
			"workflow_execution_token": "wet-devbird",
			"plan_filename":            "PLAN-1.yaml",
			"plan_content":             planFileContent1,
		},
		map[string]any{
			"workflow_execution_token": "wet-devbird",
			"plan_filename":            "PLAN-2.yaml",
			"plan_content":             planFileContent2,
		},
	}, []any{uploads[0].Body, uploads[1].Body})
}

func TestPostprocessPlanModeReadFailureIsIsolated(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, nil)
	p, _ := newPlatform(t, platformConfig{
		inputs:    postprocessInputs("plan"),
		workspace: workspaceWithPlans(t),
	})

	readFile := func(path string) ([]byte, error) {
		if filepath.Base(path) == "PLAN-1.yaml" {
			return nil, os.ErrPermission
		}
		return os.ReadFile(path)
	}

	o := New(testConfig(b), p, WithScannerOptions(scanner.WithReadFileFunc(readFile)))
	require.NoError(t, o.Postprocess(context.Background()))

	uploads := b.callsTo(uploadPlanPath)
	require.Len(t, uploads, 1)
	assert.Equal(t, "PLAN-2.yaml", uploads[0].Body["plan_filename"])
}

func TestPostprocessPlanUploadFailureDoesNotStopOthers(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, map[string]response{
		uploadPlanPath: {status: http.StatusBadRequest, body: `{"success":false,"message":"invalid plan"}`},
	})
	p, _ := newPlatform(t, platformConfig{
		inputs:    postprocessInputs("plan"),
		workspace: workspaceWithPlans(t),
	})

	require.NoError(t, New(testConfig(b), p).Postprocess(context.Background()))
	assert.Len(t, b.callsTo(uploadPlanPath), 2)
}

func TestPostprocessWithoutWorkflowTokenDoesNothing(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var gitCalls int32

	inputs := postprocessInputs("develop")
	delete(inputs, InputDevBirdWorkflowExecutionToken)
	delete(inputs, InputDelinoAccessToken)

	b := newFakeBackend(t, nil)
	p, _ := newPlatform(t, platformConfig{inputs: inputs})

	o := New(testConfig(b), p, WithScannerOptions(scanner.WithCommandRunner(countingGit(gitBranchOutput, &gitCalls))))
	require.NoError(t, o.Postprocess(context.Background()))

	assert.Zero(t, b.callCount())
	assert.Zero(t, atomic.LoadInt32(&gitCalls))
}

func TestPostprocessMissingAccessTokenFails(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	inputs := postprocessInputs("develop")
	delete(inputs, InputDelinoAccessToken)

	b := newFakeBackend(t, nil)
	p, _ := newPlatform(t, platformConfig{inputs: inputs})

	err := New(testConfig(b), p).Postprocess(context.Background())
	require.Error(t, err)
	assert.True(t, actionerr.IsInputError(err))
	assert.Contains(t, err.Error(), InputDelinoAccessToken)
	assert.Zero(t, b.callCount())
}

func TestPostprocessBackendFailuresAreNotFatal(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, map[string]response{
		devBirdLinkPath: {status: http.StatusServiceUnavailable, body: "unavailable"},
		registerPath:    {status: http.StatusOK, body: `{"success":`},
	})
	p, _ := newPlatform(t, platformConfig{inputs: postprocessInputs("develop")})

	var gitCalls int32
	o := New(testConfig(b), p, WithScannerOptions(scanner.WithCommandRunner(countingGit(gitBranchOutput, &gitCalls))))

	assert.NoError(t, o.Postprocess(context.Background()))
	assert.Len(t, b.callsTo(devBirdLinkPath), 1)
	assert.Len(t, b.callsTo(registerPath), 1)
}

func TestPostprocessPanicFailsStep(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	b := newFakeBackend(t, nil)
	p, _ := newPlatform(t, platformConfig{inputs: postprocessInputs("develop")})

	panickingGit := func(context.Context, string, string, ...string) ([]byte, error) {
		panic("git runner exploded")
	}

	o := New(testConfig(b), p, WithScannerOptions(scanner.WithCommandRunner(panickingGit)))

	err := o.Postprocess(context.Background())
	require.Error(t, err)

	var panicErr *actionerr.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Contains(t, err.Error(), "git runner exploded")

	// linking runs independently of the failed branch detection
	assert.Len(t, b.callsTo(devBirdLinkPath), 1)
}
