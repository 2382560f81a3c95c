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

const appName = "devbird-postprocess"

// Version is set via a ldflag on compilation
var Version = "unknown"

func main() {
	ctx := context.Background()

	goodbye.Notify(ctx)

	args := cmdutil.MustParseCommandlineParams(
		appName,
		"Link the workflow run to a DevBird task and upload the branches or plan files of the repository.",
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

	exitCode := cmdutil.Run(ctx, action, orchestrator.New(config, action).Postprocess)

	goodbye.Exit(ctx, exitCode)
}
