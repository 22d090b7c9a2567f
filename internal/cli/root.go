package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/macropower/cleave/pkg/config"
	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/log"
	"github.com/macropower/cleave/pkg/trace"
	"github.com/macropower/cleave/pkg/version"
)

const (
	cmdName = "cleave"
	cmdDesc = `Compile protease cleavage rules and digest protein sequences.`

	cmdExamples = `  # List the built-in enzymes:
  cleave enzymes

  # Digest a sequence with trypsin:
  cleave digest trypsin MAKPWKPARG

  # Digest a FASTA file, allowing one missed cleavage:
  cleave digest lys-c proteins.fasta --missed 1

  # Keep only peptides between 7 and 30 residues:
  cat proteins.fasta | cleave digest trypsin --filter 'length >= 7 && length <= 30'

  # Check rule expressions:
  cleave check '(K or R,)' '(K,)(P)'

  # Show the compiled rule tree of an enzyme:
  cleave compile trypsin`
)

type RootArgs struct {
	shutdown     trace.ShutdownFunc
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	ConfigPaths  []string
	OTLPInsecure bool
	NoDiscovery  bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint to export traces to")
	cmd.PersistentFlags().
		BoolVar(&ra.OTLPInsecure, "otlp-insecure", false, "Disable TLS for the OTLP exporter")
	cmd.PersistentFlags().
		StringSliceVar(&ra.ConfigPaths, "config", nil, "Additional enzyme set files, applied in order")
	cmd.PersistentFlags().
		BoolVar(&ra.NoDiscovery, "no-discovery", false, "Skip the user and project enzyme files")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// Paths returns the enzyme set files to overlay on the built-in catalogue.
func (ra *RootArgs) Paths() ([]string, error) {
	var paths []string

	if !ra.NoDiscovery {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}

		paths, err = config.DiscoverPaths(wd)
		if err != nil {
			return nil, fmt.Errorf("discover enzyme files: %w", err)
		}
	}

	for _, p := range ra.ConfigPaths {
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}

	return paths, nil
}

// Registry loads the built-in enzymes overlaid with any configured files.
func (ra *RootArgs) Registry(ctx context.Context) (*enzyme.Registry, error) {
	paths, err := ra.Paths()
	if err != nil {
		return nil, err
	}

	log.WithContext(ctx).Debug("load enzymes", slog.Any("paths", paths))

	reg, err := config.LoadRegistry(ctx, paths, config.WithColoredErrors(isTerminal(os.Stderr)))
	if err != nil {
		return nil, fmt.Errorf("load enzymes: %w", err)
	}

	return reg, nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		SilenceUsage:       true,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewCheckCmd(args),
		NewCompileCmd(args),
		NewDescribeCmd(args),
		NewDigestCmd(args),
		NewEnzymesCmd(args),
		NewMCPCmd(args),
		NewSchemaCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		ra.shutdown, err = trace.Setup(cmd.Context(),
			trace.WithEndpoint(ra.OTLPEndpoint),
			trace.WithInsecure(ra.OTLPInsecure),
			trace.WithServiceVersion(version.GetVersion()),
		)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdown == nil {
			return nil
		}

		err := ra.shutdown(context.WithoutCancel(cmd.Context()))
		if err != nil {
			return fmt.Errorf("shutdown tracing: %w", err)
		}

		return nil
	}
}
