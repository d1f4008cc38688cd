package photorganize

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/user/photorganize/pkg"
)

// fileDetails returns the extra prompt lines shown about a file: its size,
// birth time and resolution.
func fileDetails(fs afero.Fs, resolver *pkg.TimestampResolver) func(string) []string {
	return func(path string) []string {
		var lines []string
		if info, err := fs.Stat(path); err == nil {
			lines = append(lines, fmt.Sprintf("Size           : %d bytes", info.Size()))
		}
		if bt, ok := resolver.BirthTime(path); ok {
			lines = append(lines, fmt.Sprintf("File created   : %s", bt.Format(pkg.CanonicalTimeLayout)))
		}
		if w, h, err := pkg.GetImageResolution(fs, path); err == nil {
			lines = append(lines, fmt.Sprintf("Resolution     : %dx%d", w, h))
		}
		return lines
	}
}

// RunApplicationLogic organizes cfg.Root on the OS filesystem. Prompts are
// read from stdin and written to stdout; warnings go to stderr. The returned
// error is an *pkg.InvocationError when the run could not start.
func RunApplicationLogic(ctx context.Context, cfg Config, stdin io.Reader, stdout, stderr io.Writer) (pkg.Summary, error) {
	return runOnFs(ctx, afero.NewOsFs(), cfg, stdin, stdout, stderr)
}

func runOnFs(ctx context.Context, fs afero.Fs, cfg Config, stdin io.Reader, stdout, stderr io.Writer) (pkg.Summary, error) {
	cfg, err := cfg.Validate(fs)
	if err != nil {
		return pkg.Summary{}, err
	}

	logger := pkg.NewLogger(stdout, stderr, cfg.Verbose)

	mode := "interactive"
	if !cfg.Interactive {
		mode = "non-interactive"
	}
	fmt.Fprintf(stdout, "Photo Organizer Initializing...\nDirectory: %s\nHash: %s\nDuplicates: %s\nMode: %s\n",
		cfg.Root, cfg.HashAlgorithm, cfg.DuplicatePolicy, mode)
	if cfg.DryRun {
		fmt.Fprintln(stdout, "Dry run: nothing will be moved or deleted.")
	}

	opts := []Option{WithLogger(logger)}
	if !cfg.Interactive && !cfg.Verbose {
		opts = append(opts, WithObserver(newProgressObserver(stderr)))
	}

	org, err := NewOrganizer(fs, cfg, opts...)
	if err != nil {
		return pkg.Summary{}, err
	}
	if cfg.Interactive {
		prompter := NewConsolePrompter(stdin, stdout, fileDetails(fs, org.Resolver()))
		WithConfirmation(prompter)(org)
		WithDuplicateDecider(prompter)(org)
	}

	summary, err := org.Run(ctx)
	if err != nil && pkg.IsInvocationError(err) {
		return summary, err
	}
	if err != nil {
		logger.Warnf("%v", err)
	}

	fmt.Fprintln(stdout, "\n--- Photo Organizing Completed ---")
	fmt.Fprintln(stdout, summary.Line())

	if cfg.ReportPath != "" {
		if genErr := pkg.GenerateReport(fs, cfg.ReportPath, summary); genErr != nil {
			logger.Errorf("failed to generate report: %v", genErr)
		} else {
			fmt.Fprintf(stdout, "Report written to %s\n", cfg.ReportPath)
		}
	}
	return summary, err
}
