package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/cronweave/internal/transform"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	*RootOptions
	Root      string // project root the file belongs to
	Container string // container override, relative to the project root
}

// TransformSummary is the success payload for a file rewrite.
type TransformSummary struct {
	File    string        `json:"file"`
	Changed bool          `json:"changed"`
	Sites   []SiteSummary `json:"sites,omitempty"`
	Code    string        `json:"code"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transform <file>",
		Short: "Rewrite scheduling calls in a source file",
		Long: `Rewrite every scheduling call in a source file to start its generated
scheduler wrapper, and print the result to stdout. The file itself is
never modified; build pipelines run this as a load-time source
transform.

Files that do not import the scheduling package, or whose calls do not
match the expected shape, pass through unchanged.

Examples:
  cronweave transform src/page.ts
  cronweave transform src/page.ts --root ./web
  cronweave transform src/page.ts --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "project root the file belongs to (default \".\")")
	cmd.Flags().StringVar(&opts.Container, "container", "", "container location relative to the project root")

	return cmd
}

func runTransform(opts *TransformOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	project, err := LoadProject(opts.Root, opts.Container)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("resolving %s: %v", file, err), nil)
		return WrapExitError(ExitCommandError, fmt.Sprintf("resolving %s", file), err)
	}
	source, err := os.ReadFile(abs)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", file, err), nil)
		return WrapExitError(ExitCommandError, fmt.Sprintf("reading %s", file), err)
	}

	tr, err := transform.New(project.Root, transform.Options{
		SchedulePackage: project.Config.SchedulePackage,
		ContainerDir:    project.Config.Container,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeTransformError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "preparing transformer", err)
	}

	result := tr.Transform(string(source), abs)
	formatter.VerboseLog("Rewrote %d call site(s) in %s", len(result.Sites), project.Rel(abs))

	if formatter.Format == "json" {
		summary := TransformSummary{
			File:    project.Rel(abs),
			Changed: result.Changed,
			Code:    result.Code,
		}
		for _, s := range result.Sites {
			summary.Sites = append(summary.Sites, SiteSummary{
				Function: s.FunctionName,
				Origin:   s.Origin,
				Kind:     string(s.Kind),
				File:     project.Rel(s.File),
				Inferred: s.Inferred,
			})
		}
		return formatter.Success(summary)
	}

	// Text mode emits the rewritten source itself; this is what a build
	// pipeline consumes.
	return formatter.Raw(result.Code)
}
