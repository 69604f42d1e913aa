package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// ServeConfig holds the flags of the serve command.
type ServeConfig struct {
	Workers int
}

// ApplyConfig holds the flags of the apply command.
type ApplyConfig struct {
	Input   string
	Output  string
	Filter  string
	Type    string
	Layout  string
	Start   int
	Workers int
}

func parseServe(args []string) (*ServeConfig, error) {
	cfg := &ServeConfig{}
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.IntVarP(&cfg.Workers, "workers", "w", 0, "Default worker goroutines for filter tools (0 uses all CPUs).")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("--workers must not be negative")
	}
	return cfg, nil
}

func parseApply(args []string) (*ApplyConfig, error) {
	cfg := &ApplyConfig{}
	fs := pflag.NewFlagSet("apply", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Input, "input", "i", "", "Input image, GIF or numbered sequence pattern.")
	fs.StringVarP(&cfg.Output, "output", "o", "", "Output image, GIF or numbered sequence pattern.")
	fs.StringVarP(&cfg.Filter, "filter", "f", "", "Registered filter name (see 'pixelkit filters').")
	fs.StringVarP(&cfg.Type, "type", "t", "f32", "Sample type: u8, u16, u32, f16, f32 or f64.")
	fs.StringVarP(&cfg.Layout, "layout", "l", "", "Channel layout; defaults to the input's natural layout.")
	fs.IntVar(&cfg.Start, "start", 0, "First index of a numbered sequence.")
	fs.IntVarP(&cfg.Workers, "workers", "w", 0, "Worker goroutines (0 uses all CPUs, 1 is sequential).")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := validateApply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateApply checks that the apply configuration is usable.
func validateApply(cfg *ApplyConfig) error {
	if cfg.Input == "" {
		return fmt.Errorf("--input/-i flag is required")
	}
	if cfg.Output == "" {
		return fmt.Errorf("--output/-o flag is required")
	}
	if cfg.Filter == "" {
		return fmt.Errorf("--filter/-f flag is required")
	}
	if !strings.Contains(cfg.Input, "%") {
		if _, err := os.Stat(cfg.Input); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", cfg.Input)
		}
	}
	if _, err := sample.ParseKind(cfg.Type); err != nil {
		return err
	}
	if cfg.Layout != "" {
		if _, err := imaging.ParseColor(cfg.Layout); err != nil {
			return err
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}
	if cfg.Start < 0 {
		return fmt.Errorf("--start must not be negative")
	}
	return nil
}
