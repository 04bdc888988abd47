package webptool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acm19/webp-tools/internal/logger"
)

// GridParams is one aggressive-search candidate tuple.
type GridParams struct {
	Method    int
	Quality   int
	Sharpness int
}

// SearchGrid is the aggressive-search candidate grid, enumerated method-major:
// methods {6,5,4} x qualities {80,70,60} x sharpness {0,1,2}. It is a variable
// so tests can substitute a smaller grid; the default stays fixed.
var SearchGrid = buildGrid(
	[]int{6, 5, 4},
	[]int{80, 70, 60},
	[]int{0, 1, 2},
)

func buildGrid(methods, qualities, sharpnesses []int) []GridParams {
	grid := make([]GridParams, 0, len(methods)*len(qualities)*len(sharpnesses))
	for _, m := range methods {
		for _, q := range qualities {
			for _, s := range sharpnesses {
				grid = append(grid, GridParams{Method: m, Quality: q, Sharpness: s})
			}
		}
	}
	return grid
}

// Compressor recompresses an existing WebP file in place.
type Compressor struct {
	encoder Encoder
	grid    []GridParams
}

// NewCompressor creates a Compressor using the default search grid.
func NewCompressor(encoder Encoder) *Compressor {
	return &Compressor{encoder: encoder, grid: SearchGrid}
}

// Compress re-encodes input in place with cfg. If the primary attempt does not
// shrink the file, the aggressive search tries every grid tuple and keeps the
// smallest strictly-improving result; when nothing improves, the input is left
// byte-for-byte untouched and ErrNoImprovement is returned.
func (c *Compressor) Compress(ctx context.Context, input string, cfg Config) (Result, error) {
	info, err := os.Stat(input)
	if err != nil {
		return Result{}, fmt.Errorf("cannot access input: %w", err)
	}
	originalSize := info.Size()

	tmp := input + ".tmp"
	switch err = c.primaryAttempt(ctx, input, tmp, originalSize, cfg); {
	case err == nil:
		compressedSize, err := fileSize(input)
		if err != nil {
			return Result{}, err
		}
		return Result{
			OriginalSize:   originalSize,
			CompressedSize: compressedSize,
			Ratio:          Ratio(originalSize, compressedSize),
		}, nil
	case !errors.Is(err, ErrNoGain) && !errors.Is(err, ErrEncodeFailure):
		return Result{}, err
	}

	logger.Debug("Primary attempt failed, starting aggressive search",
		"file", filepath.Base(input), "reason", err)
	return c.aggressiveSearch(ctx, input, originalSize, cfg)
}

// primaryAttempt encodes with the user's settings and promotes the result in
// place when it shrank the file.
func (c *Compressor) primaryAttempt(ctx context.Context, input, tmp string, originalSize int64, cfg Config) error {
	if err := c.encoder.Encode(ctx, input, tmp, CwebpArgs(cfg)); err != nil {
		return err
	}
	compressedSize, err := fileSize(tmp)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	if compressedSize >= originalSize {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s (%d >= %d bytes)", ErrNoGain, input, compressedSize, originalSize)
	}
	return promote(tmp, input, input, cfg)
}

// aggressiveSearch brute-forces the grid, tracking the smallest successful
// encode. Strict < comparison keeps the first-enumerated tuple on ties.
func (c *Compressor) aggressiveSearch(ctx context.Context, input string, originalSize int64, cfg Config) (Result, error) {
	scratch := input + ".test"
	bestPath := input + ".best"
	bestSize := originalSize
	var best *GridParams

	defer os.Remove(scratch)
	defer os.Remove(bestPath)

	for _, params := range c.grid {
		attempt := cfg
		attempt.Lossless = false
		attempt.Method = params.Method
		attempt.Quality = params.Quality
		attempt.Sharpness = params.Sharpness
		attempt.AutoFilter = true
		attempt.Strong = true

		if err := c.encoder.Encode(ctx, input, scratch, CwebpArgs(attempt)); err != nil {
			logger.Debug("Grid attempt failed", "params", params, "error", err)
			continue
		}
		size, err := fileSize(scratch)
		if err != nil {
			continue
		}
		if size < bestSize {
			if err := os.Rename(scratch, bestPath); err != nil {
				return Result{}, fmt.Errorf("cannot keep search candidate: %w", err)
			}
			bestSize = size
			p := params
			best = &p
			logger.Debug("New best candidate", "params", params, "bytes", size)
		} else {
			os.Remove(scratch)
		}
	}

	if best == nil {
		return Result{OriginalSize: originalSize},
			fmt.Errorf("%w: %s after %d attempts", ErrNoImprovement, input, len(c.grid))
	}

	if err := promote(bestPath, input, input, cfg); err != nil {
		return Result{}, err
	}
	return Result{
		OriginalSize:   originalSize,
		CompressedSize: bestSize,
		Ratio:          Ratio(originalSize, bestSize),
		Params:         best,
	}, nil
}
