package webptool

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/acm19/webp-tools/internal/logger"
)

// MaxWebPDimension is the WebP format's hard per-side pixel limit. Sources
// larger than this make the codec fail outright and need a downscale retry.
const MaxWebPDimension = 16383

// cwebpReadable lists the source formats the cwebp binary decodes itself.
// Everything else on the converter's allow-list goes through ImageMagick.
var cwebpReadable = []string{".jpg", ".jpeg", ".png", ".webp", ".tiff", ".tif", ".bmp"}

// Converter converts a supported image to WebP.
type Converter struct {
	cwebp  Encoder
	magick Encoder // may be nil when ImageMagick is not installed
	probe  Prober
}

// NewConverter creates a Converter. magick may be nil; conversions of formats
// cwebp cannot read then fail with ErrMissingDependency.
func NewConverter(cwebp, magick Encoder, probe Prober) *Converter {
	return &Converter{cwebp: cwebp, magick: magick, probe: probe}
}

// Convert encodes input to output per cfg. The output is only kept when it is
// strictly smaller than the input; an equal-or-larger encode is discarded and
// reported as ErrNoGain.
func (c *Converter) Convert(ctx context.Context, input, output string, cfg Config) (Result, error) {
	info, err := os.Stat(input)
	if err != nil {
		return Result{}, fmt.Errorf("cannot access input: %w", err)
	}
	originalSize := info.Size()

	if !cfg.Force {
		if _, err := os.Stat(output); err == nil {
			return Result{}, fmt.Errorf("%w: %s", ErrOutputExists, output)
		}
	}

	enc, err := c.encoderFor(input)
	if err != nil {
		return Result{}, err
	}

	tmp := output + ".tmp"
	if err := enc.Encode(ctx, input, tmp, CwebpArgs(cfg)); err != nil {
		if retryErr := c.retryOversized(ctx, enc, input, tmp, cfg); retryErr != nil {
			return Result{}, retryErr
		}
	}

	compressedSize, err := fileSize(tmp)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	if compressedSize >= originalSize {
		os.Remove(tmp)
		return Result{OriginalSize: originalSize, CompressedSize: compressedSize},
			fmt.Errorf("%w: %s (%d >= %d bytes)", ErrNoGain, input, compressedSize, originalSize)
	}

	if err := promote(tmp, input, output, cfg); err != nil {
		return Result{}, err
	}
	return Result{
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Ratio:          Ratio(originalSize, compressedSize),
	}, nil
}

// OutputPath derives the default destination for an input file: same
// directory, same base name, .webp extension.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".webp"
}

// encoderFor picks the codec by source extension.
func (c *Converter) encoderFor(input string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if slices.Contains(cwebpReadable, ext) {
		return c.cwebp, nil
	}
	if c.magick == nil {
		return nil, fmt.Errorf("%w: %s sources need ImageMagick", ErrMissingDependency, ext)
	}
	return c.magick, nil
}

// retryOversized handles a primary encode failure caused by the codec's
// dimension limit: it downscales to fit and retries exactly once. Any other
// failure, or a second failure, is terminal for the file.
func (c *Converter) retryOversized(ctx context.Context, enc Encoder, input, tmp string, cfg Config) error {
	width, height, err := c.probe.Dimensions(input)
	if err != nil {
		return fmt.Errorf("%w: dimensions unknown for %s: %v", ErrResizeRetry, input, err)
	}
	if max(width, height) <= MaxWebPDimension {
		return fmt.Errorf("%w: %s", ErrEncodeFailure, input)
	}

	newWidth, newHeight := ScaleDimensions(width, height, MaxWebPDimension)
	logger.Info("Image exceeds codec limit, retrying downscaled",
		"file", filepath.Base(input),
		"from", fmt.Sprintf("%dx%d", width, height),
		"to", fmt.Sprintf("%dx%d", newWidth, newHeight))

	retryCfg := cfg
	retryCfg.ResizeWidth = newWidth
	retryCfg.ResizeHeight = newHeight
	if err := enc.Encode(ctx, input, tmp, CwebpArgs(retryCfg)); err != nil {
		return fmt.Errorf("%w: %s at %dx%d: %v", ErrResizeRetry, input, newWidth, newHeight, err)
	}
	return nil
}

// promote makes a successful temp encode the final output: optional backup of
// the original, atomic rename, optional delete of the original.
func promote(tmp, input, output string, cfg Config) error {
	if cfg.Backup {
		if err := copyFile(input, input+".backup"); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("backup failed: %w", err)
		}
	}
	if err := os.Rename(tmp, output); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot move output into place: %w", err)
	}
	if cfg.DeleteOriginal && !sameFile(input, output) {
		if err := os.Remove(input); err != nil {
			logger.Warn("Could not delete original", "file", input, "error", err)
		}
	}
	return nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
