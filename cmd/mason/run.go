package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/masonbuild/mason/internal/app"
	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
)

// unitSwitches are the boolean flags that double as activation switches:
// setting one activates every registered hook of the same name.
var unitSwitches = []string{"clean", "styles", "scripts", "assets", "serve", "watch"}

type runOptions struct {
	ConfigPath string
	Verbose    bool
	Tasks      []string
	Switches   []string
}

var runCmdRunner = runRun

func newRunCmd(root *rootFlags) *cobra.Command {
	switchValues := make(map[string]*bool, len(unitSwitches))

	cmd := &cobra.Command{
		Use:   "run [tasks]",
		Short: "Run build tasks by hook name",
		Long: "Run publishes the requested hook names to the workers that subscribe to\n" +
			"them, then, if any plugin switch is set, to the matching plugins.\n" +
			"Tasks may be given as arguments (comma separated or repeated).",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{
				ConfigPath: root.configPath,
				Verbose:    root.verbose,
				Tasks:      splitTasks(args),
			}
			for _, name := range unitSwitches {
				if *switchValues[name] {
					opts.Switches = append(opts.Switches, name)
				}
			}
			return runCmdRunner(opts)
		},
	}

	for _, name := range unitSwitches {
		value := false
		switchValues[name] = &value
		cmd.Flags().BoolVar(switchValues[name], name, false, fmt.Sprintf("Activate the %q hook", name))
	}

	return cmd
}

func runRun(opts runOptions) error {
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	snap := env.NewSnapshot(cfg)

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: term.IsTerminal(int(os.Stdout.Fd())),
	})
	if err != nil {
		return err
	}

	a := app.New(cfg, snap, log)
	if err := a.Mount(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := a.Run(ctx, opts.Tasks, opts.Switches)
	if summary != nil {
		fmt.Fprintln(os.Stdout, summary.Render())
	}
	return runErr
}

func splitTasks(args []string) []string {
	var tasks []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				tasks = append(tasks, part)
			}
		}
	}
	return tasks
}
