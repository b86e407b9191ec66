package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/cronweave/internal/codegen"
	"github.com/roach88/cronweave/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Container string // container override, relative to the project root
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Regenerate wrappers on source changes",
		Long: `Generate the container once, then watch the project tree and
regenerate whenever source files, tsconfig/jsconfig, or cronweave.yaml
change. Changes are debounced so editor write bursts settle into a
single rebuild; changes inside the container itself are ignored.

Example:
  cronweave watch ./web
  cronweave watch ./web --verbose`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) > 0 {
				root = args[0]
			}
			return runWatch(opts, root, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Container, "container", "", "container location relative to the project root")

	return cmd
}

func runWatch(opts *WatchOptions, rootArg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	project, err := LoadProject(rootArg, opts.Container)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	watcher, err := watch.New(project.Root, project.Config)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "preparing watcher", err)
	}
	watcher.SetOnBuild(func(res *codegen.Result, err error) {
		reportBuild(formatter, project, res, err)
	})

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	if formatter.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s. Press Ctrl-C to stop.\n", project.Root)
	}

	if err := watcher.Run(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return WrapExitError(ExitFailure, "watch error", err)
	}

	slog.Info("watch stopped gracefully")
	return nil
}

// reportBuild prints one line per completed rebuild. In JSON mode each
// build emits a single response object, one per line.
func reportBuild(formatter *OutputFormatter, project *Project, res *codegen.Result, err error) {
	if err != nil {
		_ = formatter.Error(ErrCodeGenerateFailed, fmt.Sprintf("rebuild failed: %v", err), nil)
		return
	}

	if formatter.Format == "json" {
		summary := GenerationSummary{
			Container: project.Rel(res.ContainerRoot),
			Wrappers:  make([]WrapperSummary, 0, len(res.Wrappers)),
			Changed:   res.Changed,
		}
		for _, w := range res.Wrappers {
			summary.Wrappers = append(summary.Wrappers, WrapperSummary{
				Function:     w.FunctionName,
				Wrapper:      w.WrapperName,
				ContainerDir: w.ContainerDir,
			})
		}
		for _, f := range res.FilesWritten {
			summary.Files = append(summary.Files, project.Rel(f))
		}
		_ = formatter.Success(summary)
		return
	}

	suffix := ""
	if !res.Changed {
		suffix = " (unchanged)"
	}
	fmt.Fprintf(formatter.Writer, "✓ %d wrapper(s) in %s%s\n", len(res.Wrappers), project.Rel(res.ContainerRoot), suffix)
}
