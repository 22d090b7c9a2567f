package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"

	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/log"
	"github.com/macropower/cleave/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Server implements the MCP server for cleave.
type Server struct {
	registry *enzyme.Registry
	server   *mcp.Server
	address  string
}

// NewServer creates a new MCP server instance serving the enzymes in
// registry. With an empty address it serves over stdio, otherwise over
// streamable HTTP.
func NewServer(address string, registry *enzyme.Registry) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	opts := &mcp.ServerOptions{
		Instructions: instructions,
	}

	s := &Server{
		address:  address,
		registry: registry,
		server:   mcp.NewServer(impl, opts),
	}

	s.registerTools()

	return s
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	tracer := otel.Tracer("github.com/macropower/cleave/pkg/mcp")

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_enzymes",
		Description: "List the available enzymes with their aliases and cleavage rules.",
	}, WithTracing(tracer, s.handleListEnzymes))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compile_rules",
		Description: "Compile cleavage rules and describe the result. Optionally find where the rules cut a sequence.",
	}, WithTracing(tracer, s.handleCompileRules))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "digest",
		Description: "Digest a protein sequence with an enzyme. You MUST use an enzyme name or alias from the list_enzymes output.",
	}, WithTracing(tracer, s.handleDigest))
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is canceled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	logger := log.WithContext(ctx)

	if s.address == "" {
		logger.InfoContext(ctx, "starting MCP server", slog.String("transport", "stdio"))

		err := s.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	logger.InfoContext(ctx, "starting MCP server",
		slog.String("transport", "http"),
		slog.String("address", s.address),
	)

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	}
}
