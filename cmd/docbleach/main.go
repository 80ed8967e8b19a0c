// CLAUDE:SUMMARY Entry point: `sanitize` one file, `serve` the HTTP API (chi) or run the MCP server on stdio.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/docbleach/bleach"
	"github.com/hazyhaar/docbleach/engine"
	"github.com/hazyhaar/docbleach/idgen"
	"github.com/hazyhaar/docbleach/kit"
)

const version = "0.3.0"

const usage = `usage:
  docbleach sanitize [-config f] [-password p] <in> <out>
  docbleach serve    [-config f] [-listen addr]
  docbleach mcp      [-config f] [-root dir]`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	logger := newLogger(env("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "sanitize":
		err = runSanitize(ctx, logger, os.Args[2:])
	case "serve":
		err = runServe(ctx, logger, os.Args[2:])
	case "mcp":
		err = runMCP(ctx, logger, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1], "error", err)
		if errors.Is(err, bleach.ErrCredentials) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	// stdout carries results (sanitize) and the MCP stream (mcp).
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func loadEngine(path string, logger *slog.Logger) (*engine.Engine, error) {
	cfg := engine.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = engine.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	return engine.Build(cfg, logger)
}

func runSanitize(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sanitize", flag.ExitOnError)
	cfgPath := fs.String("config", env("DOCBLEACH_CONFIG", ""), "YAML config file")
	password := fs.String("password", "", "password of a protected document")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return errors.New("sanitize needs <in> and <out>")
	}

	e, err := loadEngine(*cfgPath, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	var cred *bleach.Credentials
	if *password != "" {
		cred = &bleach.Credentials{Secret: *password}
	}
	res, err := e.Pipeline.SanitizeFile(kit.WithTransport(ctx, "cli"), fs.Arg(0), fs.Arg(1), cred)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runServe(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", env("DOCBLEACH_CONFIG", ""), "YAML config file")
	listen := fs.String("listen", "", "listen address (overrides config)")
	fs.Parse(args)

	e, err := loadEngine(*cfgPath, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.Config.Listen
	if *listen != "" {
		addr = *listen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(e, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		e.RunRetention(gctx, time.Hour)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func runMCP(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", env("DOCBLEACH_CONFIG", ""), "YAML config file")
	root := fs.String("root", env("DOCBLEACH_MCP_ROOT", ""), "confine tool paths below this directory (overrides mcp.root)")
	fs.Parse(args)

	e, err := loadEngine(*cfgPath, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	if *root != "" {
		e.Config.MCP.Root = *root
	}
	var opts []bleach.MCPOption
	if e.Config.MCP.Root != "" {
		opts = append(opts, bleach.WithRoot(e.Config.MCP.Root))
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "docbleach",
		Version: version,
	}, nil)
	e.Pipeline.RegisterMCP(srv, kit.Chain(
		kit.WithRequestIDs(idgen.RequestID),
		kit.Logging(logger, "bleach"),
	), opts...)

	slog.Info("mcp server starting", "transport", "stdio", "root", e.Config.MCP.Root)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
