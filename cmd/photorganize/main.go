package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	photorganize "github.com/user/photorganize/cmd/photorganize/lib"
	"github.com/user/photorganize/pkg"
)

const (
	exitOK          = 0
	exitInterrupted = 1
	exitInvocation  = 2
)

func main() {
	photorganize.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.LookupEnv, os.Stdin, os.Stdout, os.Stderr))
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: photorganize [flags] <directory>")
	fmt.Fprintln(w, "\nMoves the photos at the top level of <directory> into YYYY-MM folders,")
	fmt.Fprintln(w, "renamed to \"YYYY-MM-DD hh:mm:ss NNN.ext\". Running it again is safe.")
	fmt.Fprintln(w, "\nOptions:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w, "\nEnvironment (also read from ./.env, or the file given with -env):")
	fmt.Fprintf(w, "  %s, %s, %s, %s\n", photorganize.EnvHash, photorganize.EnvDuplicates, photorganize.EnvNonInteractive, photorganize.EnvExtensions)
	fmt.Fprintln(w, "\nDependency Information:")
	fmt.Fprintln(w, "  This project relies on the following Go modules:")
	fmt.Fprintln(w, "  - goexif (github.com/rwcarlsen/goexif): EXIF extraction. BSD 2-Clause License")
	fmt.Fprintln(w, "  - go-exif (github.com/dsoprea/go-exif/v3): EXIF search in other containers. MIT License")
	fmt.Fprintln(w, "  - heif-go (github.com/vegidio/heif-go): HEIF/HEIC decoding. MIT License")
	fmt.Fprintln(w, "  - afero (github.com/spf13/afero): filesystem abstraction. Apache License 2.0")
	fmt.Fprintln(w, "  - times (github.com/djherbis/times): file birth times. MIT License")
	fmt.Fprintln(w, "  - blake3 (lukechampine.com/blake3), xxhash (github.com/cespare/xxhash),")
	fmt.Fprintln(w, "    murmur3 (github.com/twmb/murmur3): content hashes. MIT/BSD Licenses")
	fmt.Fprintln(w, "  - natural (github.com/maruel/natural): file ordering. Apache License 2.0")
	fmt.Fprintln(w, "  - progressbar (github.com/schollz/progressbar/v3): progress display. MIT License")
	fmt.Fprintln(w, "  - godotenv (github.com/joho/godotenv): .env defaults. MIT License")
	fmt.Fprintln(w, "  - uuid (github.com/google/uuid): temporary file names. BSD 3-Clause License")
	fmt.Fprintln(w, "  - testify (github.com/stretchr/testify): tests. MIT License")
	fmt.Fprintln(w, "\n  Please refer to the respective repositories for full license texts.")
}

// run parses args and organizes the directory. It returns the process exit code.
func run(ctx context.Context, args []string, lookupEnv func(string) (string, bool), stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := photorganize.DefaultConfig()

	fs := flag.NewFlagSet("photorganize", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	hashFlag := fs.String("hash", cfg.HashAlgorithm, "Content hash used to detect duplicates: "+strings.Join(pkg.SupportedHashAlgorithms(), ", "))
	dupFlag := fs.String("duplicates", string(cfg.DuplicatePolicy), "What to do with duplicates: leave-in-place, delete or ask")
	nonInteractive := fs.Bool("non-interactive", !cfg.Interactive, "Never prompt; use the fallback timestamp when capture metadata is missing")
	yes := fs.Bool("y", false, "Shorthand for -non-interactive")
	dryRun := fs.Bool("dry-run", false, "Show what would be done without changing anything")
	verbose := fs.Bool("verbose", false, "Enable verbose output for detailed processing information.")
	extFlag := fs.String("ext", strings.Join(cfg.Extensions, ","), "Comma-separated list of file extensions to organize")
	reportFlag := fs.String("report", "", "Write a text report of the run to this path")
	envFile := fs.String("env", "", "Read "+photorganize.EnvPrefix+"* settings from this .env file")
	help := fs.Bool("help", false, "Show help message and dependency information")

	// Flags may appear before or after the directory.
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				printHelp(stdout, fs)
				return exitOK
			}
			fmt.Fprintf(stderr, "Error: %v\n", err)
			fmt.Fprintln(stderr, "Run 'photorganize -help' for usage.")
			return exitInvocation
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	if *help {
		printHelp(stdout, fs)
		return exitOK
	}
	if len(positional) != 1 {
		fmt.Fprintln(stderr, "Error: exactly one directory to organize is required.")
		fmt.Fprintln(stderr, "Usage: photorganize [flags] <directory>")
		return exitInvocation
	}

	// Precedence: flags, then the -env file, then the process environment.
	lookup := lookupEnv
	if *envFile != "" {
		fileLookup, err := photorganize.EnvFileLookup(*envFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvocation
		}
		lookup = photorganize.ChainLookup(fileLookup, lookupEnv)
	}
	cfg = photorganize.ConfigFromEnv(lookup)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hash":
			cfg.HashAlgorithm = *hashFlag
		case "duplicates":
			cfg.DuplicatePolicy = photorganize.DuplicatePolicy(*dupFlag)
		case "non-interactive":
			cfg.Interactive = !*nonInteractive
		case "y":
			if *yes {
				cfg.Interactive = false
			}
		case "ext":
			cfg.Extensions = photorganize.SplitList(*extFlag)
		}
	})
	cfg.Root = positional[0]
	cfg.DryRun = *dryRun
	cfg.Verbose = *verbose
	cfg.ReportPath = *reportFlag

	_, err := photorganize.RunApplicationLogic(ctx, cfg, stdin, stdout, stderr)
	switch {
	case err == nil:
		return exitOK
	case pkg.IsInvocationError(err):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvocation
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Interrupted. Run again to finish organizing.")
		return exitInterrupted
	default:
		fmt.Fprintf(stderr, "Application Error: %v\n", err)
		return exitInterrupted
	}
}
