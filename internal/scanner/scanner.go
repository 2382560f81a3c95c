// Package scanner inspects the checked-out repository of a workflow run for
// branches and plan files that are reported to DevBird.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/delino/devbird-action/internal/logfields"
)

const loggerName = "repository_scanner"

const (
	DefBaseBranch      = "main"
	DefMaxBranches     = 20
	DefPlanFilePattern = "PLAN-*.yaml"
)

// BranchSet is an ordered list of unique branch names.
type BranchSet []string

// PlanFile is a task graph plan found in the repository.
type PlanFile struct {
	Name    string
	Content string
}

// CommandRunner runs the command name with args in dir and returns its
// stdout.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Scanner reads branches and plan files of a local git repository.
type Scanner struct {
	dir         string
	maxBranches int
	planPattern string

	runCmd   CommandRunner
	readFile func(string) ([]byte, error)

	logger *zap.Logger
}

type Option func(*Scanner)

// WithCommandRunner sets the function that is used to run git.
func WithCommandRunner(fn CommandRunner) Option {
	return func(s *Scanner) {
		s.runCmd = fn
	}
}

// WithReadFileFunc sets the function that is used to read plan files.
func WithReadFileFunc(fn func(string) ([]byte, error)) Option {
	return func(s *Scanner) {
		s.readFile = fn
	}
}

func WithMaxBranches(n int) Option {
	return func(s *Scanner) {
		s.maxBranches = n
	}
}

// WithPlanFilePattern sets the filepath.Match pattern plan file names must
// match.
func WithPlanFilePattern(pattern string) Option {
	return func(s *Scanner) {
		s.planPattern = pattern
	}
}

// New returns a Scanner for the repository in dir.
// If dir is empty the current working directory is scanned.
func New(dir string, opts ...Option) *Scanner {
	s := Scanner{
		dir:         dir,
		maxBranches: DefMaxBranches,
		planPattern: DefPlanFilePattern,
		runCmd:      runCommand,
		readFile:    os.ReadFile,
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.logger == nil {
		s.logger = zap.L().Named(loggerName)
	}

	return &s
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s %s failed: %w, stderr: %q",
				name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
		}

		return nil, err
	}

	return out, nil
}

// DetectBranches returns the local branches of the repository except
// baseBranch.
// At most maxBranches branches are returned, in the order git lists them.
// If listing the branches fails, a warning is logged and an empty BranchSet
// is returned.
func (s *Scanner) DetectBranches(ctx context.Context, baseBranch string) BranchSet {
	if baseBranch == "" {
		baseBranch = DefBaseBranch
	}

	logger := s.logger.With(logfields.BaseBranch(baseBranch))

	out, err := s.runCmd(ctx, s.dir, "git", "branch", "--list", "--format=%(refname:short)")
	if err != nil {
		logger.Warn(
			"listing git branches failed",
			logfields.Event("git_branch_listing_failed"),
			zap.Error(err),
		)

		return BranchSet{}
	}

	if len(bytes.TrimSpace(out)) == 0 {
		logger.Warn(
			"git did not list any branches",
			logfields.Event("git_branch_listing_empty"),
		)

		return BranchSet{}
	}

	result := BranchSet{}
	seen := map[string]struct{}{}

	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "* "))
		if name == "" || name == baseBranch {
			continue
		}

		// detached HEAD entries, e.g. "(HEAD detached at 3f2a1c0)"
		if strings.HasPrefix(name, "(") {
			continue
		}

		if _, exist := seen[name]; exist {
			continue
		}
		seen[name] = struct{}{}

		if len(result) == s.maxBranches {
			logger.Info(
				"repository has more branches than can be registered, ignoring the remaining",
				logfields.Event("git_branches_truncated"),
				zap.Int("max_branches", s.maxBranches),
			)

			break
		}

		result = append(result, name)
	}

	logger.Info(
		"detected branches",
		logfields.Event("git_branches_detected"),
		logfields.Branches(result),
	)

	return result
}

// DetectPlanFiles returns the plan files in the scanned directory.
// Files that can not be read are skipped with a warning, they do not affect
// the other files.
func (s *Scanner) DetectPlanFiles() []PlanFile {
	logger := s.logger.With(zap.String("plan_file_pattern", s.planPattern))

	names, err := s.matchPlanFiles()
	if err != nil {
		logger.Warn(
			"searching for plan files failed",
			logfields.Event("plan_file_search_failed"),
			zap.Error(err),
		)

		return nil
	}

	if len(names) == 0 {
		logger.Info("no plan files found", logfields.Event("plan_files_not_found"))
		return nil
	}

	result := make([]PlanFile, 0, len(names))

	for _, name := range names {
		logger := logger.With(logfields.PlanFile(name))

		content, err := s.readFile(filepath.Join(s.dir, name))
		if err != nil {
			logger.Warn(
				"reading plan file failed, skipping it",
				logfields.Event("plan_file_reading_failed"),
				zap.Error(err),
			)

			continue
		}

		inspectPlan(logger, content)

		result = append(result, PlanFile{
			Name:    name,
			Content: string(content),
		})
	}

	return result
}

// matchPlanFiles returns the names of the regular files in the scanned
// directory that match the plan file pattern, sorted by name.
// Only the file name is matched, glob characters in the directory path are
// taken literally.
func (s *Scanner) matchPlanFiles() ([]string, error) {
	if _, err := filepath.Match(s.planPattern, ""); err != nil {
		return nil, fmt.Errorf("invalid plan file pattern %q: %w", s.planPattern, err)
	}

	dir := s.dir
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var result []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, err := filepath.Match(s.planPattern, entry.Name())
		if err != nil {
			return nil, err
		}

		if matched {
			result = append(result, entry.Name())
		}
	}

	return result, nil
}

// inspectPlan logs whether content is well-formed YAML.
// The content is uploaded unchanged either way.
func inspectPlan(logger *zap.Logger, content []byte) {
	var doc map[string]any

	if err := yaml.Unmarshal(content, &doc); err != nil {
		logger.Warn(
			"plan file is not a valid yaml mapping, uploading it unchanged",
			logfields.Event("plan_file_invalid_yaml"),
			zap.Error(err),
		)

		return
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}

	logger.Debug(
		"plan file found",
		logfields.Event("plan_file_found"),
		zap.Int("plan_file_size", len(content)),
		zap.Strings("plan_top_level_keys", keys),
	)
}
