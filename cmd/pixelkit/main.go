package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/pixelkit/internal/codec"
	"github.com/ironsheep/pixelkit/internal/filter"
	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/pipeline"
	"github.com/ironsheep/pixelkit/internal/sample"
	"github.com/ironsheep/pixelkit/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if strings.EqualFold(os.Getenv("PIXELKIT_LOG_LEVEL"), "debug") {
		imaging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		log.Printf("pixelkit v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("Application error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && (!strings.HasPrefix(args[0], "-") || isInfoFlag(args[0])) {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		cfg, err := parseServe(args)
		if err != nil {
			return err
		}
		srv := server.New(server.Config{Version: Version, Workers: cfg.Workers})
		if err := srv.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case "apply":
		cfg, err := parseApply(args)
		if err != nil {
			return err
		}
		return apply(cfg, stdout)

	case "filters":
		for _, name := range filter.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil

	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "pixelkit %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil

	case "help", "--help", "-h":
		printUsage(stdout)
		return nil

	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func isInfoFlag(arg string) bool {
	switch arg {
	case "--version", "-v", "--help", "-h":
		return true
	}
	return false
}

func apply(cfg *ApplyConfig, stdout io.Writer) error {
	f, err := filter.Lookup(cfg.Filter)
	if err != nil {
		return err
	}
	kind, err := sample.ParseKind(cfg.Type)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(codec.NewCache(), pipeline.Job{
		Input:   cfg.Input,
		Output:  cfg.Output,
		Filter:  f,
		Kind:    kind,
		Layout:  cfg.Layout,
		Start:   cfg.Start,
		Workers: cfg.Workers,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d frame(s) %dx%d %s/%s -> %s\n",
		cfg.Filter, res.Frames, res.Width, res.Height, res.Layout, res.Type, res.Output)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pixelkit - generic pixel engine and MCP image server")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pixelkit [serve] [--workers N]       Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  pixelkit apply -i IN -o OUT -f NAME   Apply a registered filter to a file")
	fmt.Fprintln(w, "  pixelkit filters                      List registered filters")
	fmt.Fprintln(w, "  pixelkit version                      Print version information")
	fmt.Fprintln(w)
	io.WriteString(w, "IN and OUT may be images, animated GIFs or numbered sequences such as frame_%04d.png.\n")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  PIXELKIT_LOG_LEVEL=debug    Enable debug logging")
}
