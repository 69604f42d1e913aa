package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGray(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 4)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRun_Apply(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeGray(t, in)

	var stdout bytes.Buffer
	if err := run([]string{"apply", "-i", in, "-o", out, "-f", "invert", "--type", "u8", "-w", "2"}, &stdout); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "1 frame(s) 8x8 gray/u8") {
		t.Errorf("unexpected output: %q", stdout.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.GrayModel.Convert(img.At(1, 0)).(color.Gray).Y; got != 255-4 {
		t.Errorf("inverted sample: got %d, want %d", got, 255-4)
	}
}

func TestRun_Commands(t *testing.T) {
	var stdout bytes.Buffer
	if err := run([]string{"version"}, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout.String(), "pixelkit "+Version) {
		t.Errorf("version output: %q", stdout.String())
	}

	for _, arg := range []string{"--version", "-h"} {
		stdout.Reset()
		if err := run([]string{arg}, &stdout); err != nil {
			t.Errorf("run(%s): %v", arg, err)
		}
		if !strings.HasPrefix(stdout.String(), "pixelkit") {
			t.Errorf("run(%s) output: %q", arg, stdout.String())
		}
	}

	stdout.Reset()
	if err := run([]string{"filters"}, &stdout); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"invert", "gaussian5", "sobel"} {
		if !strings.Contains(stdout.String(), name+"\n") {
			t.Errorf("filters output missing %s", name)
		}
	}

	if err := run([]string{"bogus"}, &stdout); err == nil {
		t.Error("unknown command should fail")
	}
	if err := run([]string{"apply", "-i", "x"}, &stdout); err == nil {
		t.Error("incomplete apply should fail")
	}
}

func TestValidateApply(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeGray(t, in)

	valid := ApplyConfig{Input: in, Output: "o.png", Filter: "invert", Type: "f32"}

	tests := []struct {
		name    string
		modify  func(*ApplyConfig)
		wantErr bool
	}{
		{"valid", func(*ApplyConfig) {}, false},
		{"sequence input is not stat'ed", func(c *ApplyConfig) { c.Input = filepath.Join(dir, "f_%03d.png") }, false},
		{"missing input", func(c *ApplyConfig) { c.Input = "" }, true},
		{"input does not exist", func(c *ApplyConfig) { c.Input = filepath.Join(dir, "nope.png") }, true},
		{"missing output", func(c *ApplyConfig) { c.Output = "" }, true},
		{"missing filter", func(c *ApplyConfig) { c.Filter = "" }, true},
		{"bad type", func(c *ApplyConfig) { c.Type = "int8" }, true},
		{"bad layout", func(c *ApplyConfig) { c.Layout = "hsv" }, true},
		{"negative workers", func(c *ApplyConfig) { c.Workers = -1 }, true},
		{"negative start", func(c *ApplyConfig) { c.Start = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			err := validateApply(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateApply() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseServe(t *testing.T) {
	cfg, err := parseServe([]string{"--workers", "4"})
	if err != nil || cfg.Workers != 4 {
		t.Errorf("parseServe: %+v, %v", cfg, err)
	}
	if _, err := parseServe([]string{"-w", "-2"}); err == nil {
		t.Error("negative workers should fail")
	}
}
