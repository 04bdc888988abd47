package webptool

import (
	"context"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/acm19/webp-tools/internal/logger"
)

// Stats accumulates a batch run's totals. Byte totals only count files that
// actually shrank; failures are tallied but contribute no bytes.
type Stats struct {
	OriginalBytes   int64
	CompressedBytes int64
	Succeeded       int
	Total           int
}

// Ratio returns the aggregate size reduction percentage over the successes.
func (s Stats) Ratio() float64 {
	return Ratio(s.OriginalBytes, s.CompressedBytes)
}

// ProcessFunc handles one candidate file.
type ProcessFunc func(ctx context.Context, candidate Candidate) (Result, error)

// RunBatch applies process to every candidate sequentially. A file's failure
// is logged and counted but never aborts the batch. A progress bar renders
// unless verbose mode already prints a line per file.
func RunBatch(ctx context.Context, candidates []Candidate, verbose bool, process ProcessFunc) Stats {
	stats := Stats{Total: len(candidates)}

	var bar *progressbar.ProgressBar
	if !verbose {
		bar = progressbar.Default(int64(len(candidates)), "processing")
	}

	for _, candidate := range candidates {
		result, err := process(ctx, candidate)
		if err != nil {
			logger.Warn("Skipping file", "file", filepath.Base(candidate.Path), "error", err)
		} else {
			stats.Succeeded++
			stats.OriginalBytes += result.OriginalSize
			stats.CompressedBytes += result.CompressedSize
			if verbose {
				logger.Info("Processed",
					"file", filepath.Base(candidate.Path),
					"original_bytes", result.OriginalSize,
					"compressed_bytes", result.CompressedSize,
					"saved_percent", result.Ratio)
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return stats
}
