package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
}

// SiteSummary describes one discovered scheduling call site.
type SiteSummary struct {
	Function string `json:"function"`
	Origin   string `json:"origin"`
	Kind     string `json:"kind"`
	File     string `json:"file"`
	Inferred bool   `json:"inferred,omitempty"`
}

// ScanSummary is the success payload for a scan pass.
type ScanSummary struct {
	Sites []SiteSummary `json:"sites"`
	Count int           `json:"count"`
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "List scheduling call sites in a project",
		Long: `Scan a project tree for scheduling call sites without generating
anything. Each site reports the scheduled function, the module it is
imported from, and the file the call appears in.

A site whose function has no matching import is reported with an
inferred origin pointing at the calling file itself.

Examples:
  cronweave scan
  cronweave scan ./web
  cronweave scan ./web --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) > 0 {
				root = args[0]
			}
			return runScan(opts, root, cmd)
		},
	}

	return cmd
}

func runScan(opts *ScanOptions, rootArg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	project, err := LoadProject(rootArg, "")
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Scanning %s", project.Root)

	sites, err := project.Discover(cmd.Context())
	if err != nil {
		return outputLoadError(formatter, err)
	}

	summary := ScanSummary{
		Sites: make([]SiteSummary, 0, len(sites)),
		Count: len(sites),
	}
	for _, s := range sites {
		summary.Sites = append(summary.Sites, SiteSummary{
			Function: s.FunctionName,
			Origin:   s.Origin,
			Kind:     string(s.Kind),
			File:     project.Rel(s.File),
			Inferred: s.Inferred,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	// Human-readable text output
	if summary.Count == 0 {
		fmt.Fprintln(formatter.Writer, "No scheduling call sites found.")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Found %d scheduling call site(s)\n\n", summary.Count)
	for _, s := range summary.Sites {
		marker := ""
		if s.Inferred {
			marker = " [inferred]"
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s (%s)%s\n    %s\n", s.Function, s.Origin, s.Kind, marker, s.File)
	}
	return nil
}
