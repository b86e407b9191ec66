package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cronweave/internal/codegen"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Container string // container override, relative to the project root
}

// WrapperSummary describes one synthesized scheduler wrapper.
type WrapperSummary struct {
	Function     string `json:"function"`
	Wrapper      string `json:"wrapper"`
	ContainerDir string `json:"container_dir"`
}

// GenerationSummary is the success payload for a generation pass.
type GenerationSummary struct {
	Container string           `json:"container"`
	Wrappers  []WrapperSummary `json:"wrappers"`
	Files     []string         `json:"files"`
	Changed   bool             `json:"changed"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [root]",
		Short: "Generate scheduler wrappers for a project",
		Long: `Scan a project for scheduling call sites and generate the container
of scheduler workflow modules, one wrapper per scheduled function, plus
the route handler and manifest.

Generation is transactional: files are staged beside the container and
swapped in only when complete, so a failed pass never leaves a partial
container behind. When the staged tree is byte-identical to the existing
container the swap is skipped.

Examples:
  cronweave generate
  cronweave generate ./web --container app/cron
  cronweave generate ./web --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) > 0 {
				root = args[0]
			}
			return runGenerate(opts, root, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Container, "container", "", "container location relative to the project root")

	return cmd
}

func runGenerate(opts *GenerateOptions, rootArg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	project, err := LoadProject(rootArg, opts.Container)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Scanning %s", project.Root)

	sites, err := project.Discover(cmd.Context())
	if err != nil {
		return outputLoadError(formatter, err)
	}
	for _, site := range sites {
		formatter.VerboseLog("Call site: %s from %s (%s)", site.FunctionName, site.Origin, project.Rel(site.File))
	}

	result, err := codegen.Generate(cmd.Context(), sites, project.Root, codegen.Options{
		ContainerDir: project.Config.Container,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeGenerateFailed, fmt.Sprintf("generation failed: %v", err), nil)
		return WrapExitError(ExitFailure, "generation failed", err)
	}

	return outputGenerateSuccess(formatter, project, result)
}

// outputGenerateSuccess outputs a completed generation pass.
func outputGenerateSuccess(formatter *OutputFormatter, project *Project, result *codegen.Result) error {
	summary := GenerationSummary{
		Container: project.Rel(result.ContainerRoot),
		Wrappers:  make([]WrapperSummary, 0, len(result.Wrappers)),
		Files:     make([]string, 0, len(result.FilesWritten)),
		Changed:   result.Changed,
	}
	for _, w := range result.Wrappers {
		summary.Wrappers = append(summary.Wrappers, WrapperSummary{
			Function:     w.FunctionName,
			Wrapper:      w.WrapperName,
			ContainerDir: w.ContainerDir,
		})
	}
	for _, f := range result.FilesWritten {
		summary.Files = append(summary.Files, project.Rel(f))
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	// Human-readable text output
	if result.Changed {
		fmt.Fprintf(formatter.Writer, "✓ Generated %d wrapper(s) in %s\n", len(summary.Wrappers), summary.Container)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ Container up to date: %d wrapper(s) in %s\n", len(summary.Wrappers), summary.Container)
	}

	if len(summary.Wrappers) > 0 {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, "Wrappers:")
		for _, w := range summary.Wrappers {
			fmt.Fprintf(formatter.Writer, "  %s → %s (%s/)\n", w.Function, w.Wrapper, w.ContainerDir)
		}
	}

	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "%d file(s) written\n", len(summary.Files))
	return nil
}

// outputLoadError renders a project resolution failure and maps it to a
// command-level exit code.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
