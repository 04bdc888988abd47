package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/spf13/cobra"

	"github.com/acm19/webp-tools/apps/cli/completion"
	"github.com/acm19/webp-tools/internal/logger"
	"github.com/acm19/webp-tools/internal/webptool"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "webp-tools",
	Short:   "Convert images to WebP and recompress existing WebP files",
	Long:    `webp-tools wraps the cwebp and ImageMagick binaries to convert images to WebP and squeeze existing WebP files, keeping a result only when it is smaller than the input.`,
	Version: version,
}

var convertCmd = &cobra.Command{
	Use:   "convert INPUT [OUTPUT]",
	Short: "Convert an image (or a directory of images) to WebP",
	Long: `Convert a supported image to WebP, or every supported image in a
directory with --batch. The output is kept only when it is smaller than the
input. Images above the WebP 16383-pixel limit are downscaled and retried
once.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runConvert,
}

var compressCmd = &cobra.Command{
	Use:   "compress INPUT",
	Short: "Recompress a WebP file (or a directory of them) in place",
	Long: `Re-encode an existing WebP file in place. When the requested settings
do not shrink the file, a fixed grid of method/quality/sharpness combinations
is brute-forced and the smallest improving result wins.`,
	Args: cobra.ExactArgs(1),
	Run:  runCompress,
}

// codecFlags holds the raw flag values shared by both commands.
type codecFlags struct {
	quality        int
	lossless       bool
	method         int
	sharpness      int
	filterStrength int
	autoFilter     bool
	filterType     int
	passes         int
	preprocessing  int
	nearLossless   int
	deltaPalette   bool
	strong         bool
	resize         string
	force          bool
	verbose        bool
	backup         bool
	deleteOriginal bool
	batch          bool
}

var (
	convertFlags  codecFlags
	compressFlags codecFlags
)

func registerFlags(cmd *cobra.Command, f *codecFlags, defaultQuality int) {
	cmd.Flags().IntVarP(&f.quality, "quality", "q", defaultQuality, "Encoding quality (0-100)")
	cmd.Flags().BoolVar(&f.lossless, "lossless", true, "Lossless encoding (use --lossless=false for lossy)")
	cmd.Flags().IntVarP(&f.method, "method", "m", webptool.Unset, "Compression method (0-6, codec default if unset)")
	cmd.Flags().IntVar(&f.sharpness, "sharpness", webptool.Unset, "Sharpness (0-7, codec default if unset)")
	cmd.Flags().IntVar(&f.filterStrength, "filter-strength", webptool.Unset, "Deblocking filter strength (0-100)")
	cmd.Flags().BoolVar(&f.autoFilter, "auto-filter", false, "Let the codec pick the filter strength")
	cmd.Flags().IntVar(&f.filterType, "filter-type", webptool.Unset, "Filter type (0 simple, 1 strong)")
	cmd.Flags().IntVar(&f.passes, "passes", webptool.Unset, "Analysis passes (1-10)")
	cmd.Flags().IntVar(&f.preprocessing, "preprocessing", webptool.Unset, "Preprocessing filter (0-2)")
	cmd.Flags().IntVar(&f.nearLossless, "near-lossless", webptool.Unset, "Near-lossless preprocessing (0-100)")
	cmd.Flags().BoolVar(&f.deltaPalette, "delta-palette", false, "Use delta palette (experimental)")
	cmd.Flags().BoolVar(&f.strong, "strong", false, "Use strong filtering")
	cmd.Flags().StringVar(&f.resize, "resize", "", "Downscale to WIDTHxHEIGHT or a single max width")
	cmd.Flags().BoolVar(&f.force, "force", false, "Overwrite existing outputs without asking")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print a line per processed file")
	cmd.Flags().BoolVarP(&f.backup, "backup", "b", false, "Keep a .backup copy of each original")
	cmd.Flags().BoolVarP(&f.deleteOriginal, "delete-original", "d", false, "Delete the source file after a successful conversion")
	cmd.Flags().BoolVar(&f.batch, "batch", false, "Process every supported file in the input directory")
}

func init() {
	registerFlags(convertCmd, &convertFlags, 80)
	registerFlags(compressCmd, &compressFlags, 100)

	rootCmd.AddCommand(convertCmd, compressCmd)

	// Add autocomplete commands
	rootCmd.AddCommand(completion.NewInstallCmd(rootCmd))
	rootCmd.AddCommand(completion.NewUninstallCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig turns raw flag values into a validated immutable Config.
func buildConfig(f codecFlags) webptool.Config {
	cfg := webptool.Config{
		Quality:        f.quality,
		Lossless:       f.lossless,
		Method:         f.method,
		Sharpness:      f.sharpness,
		FilterStrength: f.filterStrength,
		AutoFilter:     f.autoFilter,
		FilterType:     f.filterType,
		Passes:         f.passes,
		Preprocessing:  f.preprocessing,
		NearLossless:   f.nearLossless,
		DeltaPalette:   f.deltaPalette,
		Strong:         f.strong,
		Force:          f.force,
		Verbose:        f.verbose,
		Backup:         f.backup,
		DeleteOriginal: f.deleteOriginal,
		Batch:          f.batch,
	}

	width, height, err := webptool.ParseResizeSpec(f.resize)
	if err != nil {
		logger.Error("Invalid resize specification", "resize", f.resize, "error", err)
		os.Exit(1)
	}
	cfg.ResizeWidth = width
	cfg.ResizeHeight = height

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// newProber prefers exiftool and falls back to the in-process header decoder.
// The returned cleanup must run before exit.
func newProber() (webptool.Prober, func()) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		logger.Debug("exiftool unavailable, probing dimensions in-process", "error", err)
		return webptool.NewDecodeProber(), func() {}
	}
	return webptool.NewExiftoolProber(et), func() { et.Close() }
}

func runConvert(cmd *cobra.Command, args []string) {
	cfg := buildConfig(convertFlags)
	input := args[0]

	info, err := os.Stat(input)
	if err != nil {
		logger.Error("Cannot access input", "input", input, "error", err)
		os.Exit(1)
	}

	cwebpEnc, err := webptool.NewCwebpEncoder()
	if err != nil {
		logger.Error("Encoder unavailable", "error", err)
		os.Exit(1)
	}
	var magickEnc webptool.Encoder
	if enc, err := webptool.NewMagickEncoder(); err == nil {
		magickEnc = enc
	} else {
		logger.Debug("ImageMagick unavailable, gif/svg/ico/heic sources will fail", "error", err)
	}

	probe, closeProbe := newProber()
	defer closeProbe()

	converter := webptool.NewConverter(cwebpEnc, magickEnc, probe)
	classifier := webptool.NewConverterClassifier()
	ctx := context.Background()

	if info.IsDir() {
		if !cfg.Batch {
			logger.Error("Input is a directory, pass --batch to convert its contents", "input", input)
			os.Exit(1)
		}
		if len(args) > 1 {
			logger.Error("An explicit output path cannot be combined with --batch")
			os.Exit(1)
		}
		runConvertBatch(ctx, converter, classifier, input, cfg)
		return
	}

	if classifier.Classify(input) == webptool.KindUnsupported {
		logger.Error("Unsupported input format", "input", input)
		os.Exit(1)
	}

	output := webptool.OutputPath(input)
	if len(args) > 1 {
		output = args[1]
	}

	result, err := converter.Convert(ctx, input, output, cfg)
	if errors.Is(err, webptool.ErrOutputExists) {
		if !confirmOverwrite(output) {
			fmt.Println("Cancelled.")
			return
		}
		cfg.Force = true
		result, err = converter.Convert(ctx, input, output, cfg)
	}
	if err != nil {
		logger.Error("Conversion failed", "input", input, "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s -> %s: %d -> %d bytes (%.1f%% saved)\n",
		input, output, result.OriginalSize, result.CompressedSize, result.Ratio)
}

// runConvertBatch converts every candidate in dir. Existing outputs are
// silently skipped unless --force is set.
func runConvertBatch(ctx context.Context, converter *webptool.Converter, classifier webptool.Classifier, dir string, cfg webptool.Config) {
	candidates, err := classifier.ListCandidates(dir)
	if err != nil {
		logger.Error("Cannot list directory", "dir", dir, "error", err)
		os.Exit(1)
	}

	pending := candidates[:0:0]
	for _, candidate := range candidates {
		output := webptool.OutputPath(candidate.Path)
		if !cfg.Force {
			if _, err := os.Stat(output); err == nil {
				logger.Debug("Output exists, skipping", "file", output)
				continue
			}
		}
		pending = append(pending, candidate)
	}

	stats := webptool.RunBatch(ctx, pending, cfg.Verbose, func(ctx context.Context, candidate webptool.Candidate) (webptool.Result, error) {
		return converter.Convert(ctx, candidate.Path, webptool.OutputPath(candidate.Path), cfg)
	})
	reportBatch(stats)
}

func runCompress(cmd *cobra.Command, args []string) {
	cfg := buildConfig(compressFlags)
	input := args[0]

	info, err := os.Stat(input)
	if err != nil {
		logger.Error("Cannot access input", "input", input, "error", err)
		os.Exit(1)
	}

	encoder, err := webptool.NewCwebpEncoder()
	if err != nil {
		logger.Error("Encoder unavailable", "error", err)
		os.Exit(1)
	}

	compressor := webptool.NewCompressor(encoder)
	classifier := webptool.NewCompressorClassifier()
	ctx := context.Background()

	if info.IsDir() {
		if !cfg.Batch {
			logger.Error("Input is a directory, pass --batch to compress its contents", "input", input)
			os.Exit(1)
		}
		candidates, err := classifier.ListCandidates(input)
		if err != nil {
			logger.Error("Cannot list directory", "dir", input, "error", err)
			os.Exit(1)
		}
		// In-place recompression always overwrites; no existing-output skip.
		stats := webptool.RunBatch(ctx, candidates, cfg.Verbose, func(ctx context.Context, candidate webptool.Candidate) (webptool.Result, error) {
			return compressor.Compress(ctx, candidate.Path, cfg)
		})
		reportBatch(stats)
		return
	}

	if classifier.Classify(input) != webptool.KindWebP {
		logger.Error("Input is not a WebP file", "input", input)
		os.Exit(1)
	}

	result, err := compressor.Compress(ctx, input, cfg)
	if err != nil {
		logger.Error("Compression failed", "input", input, "error", err)
		os.Exit(1)
	}

	if result.Params != nil {
		fmt.Printf("%s: %d -> %d bytes (%.1f%% saved) via method=%d quality=%d sharpness=%d\n",
			input, result.OriginalSize, result.CompressedSize, result.Ratio,
			result.Params.Method, result.Params.Quality, result.Params.Sharpness)
		return
	}
	fmt.Printf("%s: %d -> %d bytes (%.1f%% saved)\n",
		input, result.OriginalSize, result.CompressedSize, result.Ratio)
}

// reportBatch prints the run summary and exits nonzero on total failure.
func reportBatch(stats webptool.Stats) {
	fmt.Printf("%d/%d succeeded, %d -> %d bytes (%.1f%% saved)\n",
		stats.Succeeded, stats.Total, stats.OriginalBytes, stats.CompressedBytes, stats.Ratio())
	if stats.Total > 0 && stats.Succeeded == 0 {
		os.Exit(1)
	}
}

// confirmOverwrite asks the user before replacing an existing output file.
func confirmOverwrite(path string) bool {
	fmt.Printf("%s already exists. Overwrite? [y/N]: ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
