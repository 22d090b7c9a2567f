package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/cleave/pkg/config"
	"github.com/macropower/cleave/pkg/log"
	"github.com/macropower/cleave/pkg/mcp"
)

type MCPArgs struct {
	*RootArgs

	Address string
	Watch   bool
}

func NewMCPCmd(ra *RootArgs) *cobra.Command {
	args := &MCPArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the enzymes as Model Context Protocol tools",
		Long: `Serve the enzymes as Model Context Protocol tools.

Without --address the server speaks MCP over stdio. With an address such
as ":8080" it serves streamable HTTP.`,
		Example: `  cleave mcp
  cleave mcp --address :8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd, args)
		},
	}

	cmd.Flags().StringVar(&args.Address, "address", "", "Serve streamable HTTP at this address instead of stdio")
	cmd.Flags().BoolVarP(&args.Watch, "watch", "w", false, "Reload enzyme files when they change")

	return cmd
}

func runMCP(cmd *cobra.Command, ma *MCPArgs) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reg, err := ma.Registry(ctx)
	if err != nil {
		return err
	}

	if ma.Watch {
		paths, err := ma.Paths()
		if err != nil {
			return err
		}

		go func() {
			err := config.WatchRegistry(ctx, reg, paths)
			if err != nil {
				log.WithContext(ctx).ErrorContext(ctx, "watch enzymes", slog.Any("err", err))
			}
		}()
	}

	err = mcp.NewServer(ma.Address, reg).Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}

	return nil
}
