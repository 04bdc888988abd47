package webptool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/acm19/webp-tools/internal/logger"
)

// Encoder defines the interface for producing a WebP file from a source image.
type Encoder interface {
	// Encode writes a WebP encoding of input to output using the given
	// argument set. A nonzero codec exit or an empty output file is an
	// ErrEncodeFailure; the partial output is removed.
	Encode(ctx context.Context, input, output string, args []Arg) error
}

// cwebpEncoder implements the Encoder interface over the cwebp binary.
type cwebpEncoder struct {
	bin string
}

// NewCwebpEncoder resolves the cwebp binary on PATH.
func NewCwebpEncoder() (Encoder, error) {
	bin, err := exec.LookPath("cwebp")
	if err != nil {
		return nil, fmt.Errorf("%w: cwebp not found on PATH (install libwebp tools, e.g. 'apt install webp' or 'brew install webp')", ErrMissingDependency)
	}
	return &cwebpEncoder{bin: bin}, nil
}

// Encode runs cwebp against a temporary or final output path.
func (e *cwebpEncoder) Encode(ctx context.Context, input, output string, args []Arg) error {
	argv := Flatten(args, input, output)
	logger.Debug("Running encoder", "bin", e.bin, "args", argv)

	cmd := exec.CommandContext(ctx, e.bin, argv...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(output)
		return fmt.Errorf("%w: cwebp on %s: %v (output: %s)", ErrEncodeFailure, input, err, out)
	}
	return checkOutput(input, output)
}

// magickEncoder implements the Encoder interface over ImageMagick, used for
// source formats cwebp cannot read (gif, svg, ico, heic, heif).
type magickEncoder struct {
	bin string
}

// NewMagickEncoder resolves ImageMagick on PATH, preferring the v7 "magick"
// entrypoint and falling back to the legacy "convert" one.
func NewMagickEncoder() (Encoder, error) {
	for _, name := range []string{"magick", "convert"} {
		if bin, err := exec.LookPath(name); err == nil {
			return &magickEncoder{bin: bin}, nil
		}
	}
	return nil, fmt.Errorf("%w: ImageMagick not found on PATH (install it, e.g. 'apt install imagemagick' or 'brew install imagemagick')", ErrMissingDependency)
}

// Encode runs ImageMagick, translating the subset of the argument set it
// understands. cwebp-specific tuning flags have no counterpart and are dropped.
func (e *magickEncoder) Encode(ctx context.Context, input, output string, args []Arg) error {
	argv := magickArgs(args, input, output)
	logger.Debug("Running encoder", "bin", e.bin, "args", argv)

	cmd := exec.CommandContext(ctx, e.bin, argv...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(output)
		return fmt.Errorf("%w: ImageMagick on %s: %v (output: %s)", ErrEncodeFailure, input, err, out)
	}
	return checkOutput(input, output)
}

// magickArgs translates typed cwebp args to the ImageMagick argv:
// input [-quality N] [-define webp:lossless=true] [-resize WxH] output.
func magickArgs(args []Arg, input, output string) []string {
	argv := []string{input}
	for _, a := range args {
		switch a.Flag {
		case "-q":
			argv = append(argv, "-quality", a.Values[0])
		case "-lossless":
			argv = append(argv, "-define", "webp:lossless=true")
		case "-resize":
			geometry := a.Values[0]
			if h, _ := strconv.Atoi(a.Values[1]); h > 0 {
				geometry += "x" + a.Values[1]
			}
			argv = append(argv, "-resize", geometry)
		}
	}
	// Force the WebP writer regardless of the output file's name.
	return append(argv, "webp:"+output)
}

// checkOutput rejects an empty output file as a failed encode.
func checkOutput(input, output string) error {
	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("%w: codec produced no output for %s", ErrEncodeFailure, input)
	}
	if info.Size() == 0 {
		os.Remove(output)
		return fmt.Errorf("%w: codec produced an empty file for %s", ErrEncodeFailure, input)
	}
	return nil
}
