package stamp

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/kiesman99/gridmark/internal/watermark"
)

// Options contains the CLI stamping parameters
type Options struct {
	// Input is a file path, or "-" for stdin
	Input string

	// Output is a file path; empty writes to stdout
	Output string

	Watermark watermark.Options
}

// Stamper watermarks files for the command line
type Stamper struct {
	compositor *watermark.Compositor
	logger     *log.Logger
	stdin      io.Reader
	stdout     io.Writer
}

// NewStamper creates a new stamper reading stdin and writing stdout
func NewStamper(logger *log.Logger) *Stamper {
	if logger == nil {
		logger = log.Default()
	}
	return &Stamper{
		compositor: watermark.New(logger),
		logger:     logger,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
	}
}

// Stamp reads the input image, watermarks it and writes a PNG
func (s *Stamper) Stamp(ctx context.Context, opts Options) error {
	if opts.Input == "" {
		return errors.New("no input file specified")
	}

	if opts.Output == "" && isTerminal(s.stdout) {
		return errors.New("didn't specify output file and standard output is a terminal")
	}

	if err := opts.Watermark.Validate(); err != nil {
		return &watermark.Error{Kind: watermark.KindInvalidArgument, Op: "stamp", Err: err}
	}

	img, format, err := s.readImage(opts.Input)
	if err != nil {
		return err
	}

	s.logger.Debug("Stamping", "input", opts.Input, "format", format, "size", img.Bounds().Size(), "count", opts.Watermark.Count, "text", opts.Watermark.Style.Text)

	result, err := s.compositor.Render(ctx, img, opts.Watermark)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		s.logger.Debug("Output PNG: stdout")
		_, err := s.stdout.Write(result)
		return err
	}

	if err := writeFileAtomic(opts.Output, result); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	s.logger.Info("Wrote watermarked image", "output", opts.Output, "bytes", len(result))
	return nil
}

// readImage decodes the input file, or stdin for "-"
func (s *Stamper) readImage(input string) (image.Image, string, error) {
	if input == "-" {
		return watermark.Decode(s.stdin)
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input: %w", err)
	}
	defer f.Close()

	return watermark.Decode(f)
}

// writeFileAtomic writes data next to path and renames it into place,
// so readers never see a partial file
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gridmark-*.png")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}
