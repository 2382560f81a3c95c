package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thecodeteam/goodbye"

	"github.com/delino/devbird-action/internal/cmdutil"
	"github.com/delino/devbird-action/internal/ghaction"
	"github.com/delino/devbird-action/internal/orchestrator"
)

const appName = "autodev-prepare"

// Version is set via a ldflag on compilation
var Version = "unknown"

func main() {
	ctx := context.Background()

	goodbye.Notify(ctx)

	args := cmdutil.MustParseCommandlineParams(
		appName,
		"Exchange the workflow OIDC token for a GitHub token and link the run to an AutoDev task.",
	)

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0)
	}

	config := cmdutil.MustLoadCfg(args)
	logger := cmdutil.MustInitLogger(config, *args.Verbose)
	cmdutil.RegisterSignalLogger()

	cmdutil.LogCfg(logger, config, args, Version)

	action := ghaction.New()

	exitCode := cmdutil.Run(ctx, action, orchestrator.New(config, action).Prepare)

	goodbye.Exit(ctx, exitCode)
}
