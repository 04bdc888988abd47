package webptool

import (
	"fmt"
	"strconv"
	"strings"
)

// Unset marks an optional numeric field the user did not provide. Unset fields
// are omitted from the codec argument set so the codec's own defaults apply.
const Unset = -1

// Config holds one invocation's encoder settings. It is built once by the CLI
// layer, validated, and passed by value; nothing mutates it afterwards.
type Config struct {
	Quality        int  // 0-100
	Lossless       bool
	Method         int // 0-6, Unset to omit
	Sharpness      int // 0-7, Unset to omit
	FilterStrength int // 0-100, Unset to omit
	AutoFilter     bool
	FilterType     int // 0 simple, 1 strong, Unset to omit
	Passes         int // 1-10, Unset to omit
	Preprocessing  int // 0-2, Unset to omit
	NearLossless   int // 0-100, Unset to omit
	DeltaPalette   bool
	Strong         bool

	// ResizeWidth/ResizeHeight request an explicit downscale. A zero height
	// tells the codec to preserve aspect ratio.
	ResizeWidth  int
	ResizeHeight int

	Force          bool
	Verbose        bool
	Backup         bool
	DeleteOriginal bool
	Batch          bool
}

// DefaultConvertConfig returns the converter tool's defaults.
func DefaultConvertConfig() Config {
	return Config{
		Quality:        80,
		Lossless:       true,
		Method:         Unset,
		Sharpness:      Unset,
		FilterStrength: Unset,
		FilterType:     Unset,
		Passes:         Unset,
		Preprocessing:  Unset,
		NearLossless:   Unset,
	}
}

// DefaultCompressConfig returns the compressor tool's defaults.
func DefaultCompressConfig() Config {
	cfg := DefaultConvertConfig()
	cfg.Quality = 100
	return cfg
}

// Validate checks every field against its documented range. All violations
// wrap ErrInvalidArgument.
func (c Config) Validate() error {
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("%w: quality must be in [0,100], got %d", ErrInvalidArgument, c.Quality)
	}
	if c.Method != Unset && (c.Method < 0 || c.Method > 6) {
		return fmt.Errorf("%w: method must be in [0,6], got %d", ErrInvalidArgument, c.Method)
	}
	if c.Sharpness != Unset && (c.Sharpness < 0 || c.Sharpness > 7) {
		return fmt.Errorf("%w: sharpness must be in [0,7], got %d", ErrInvalidArgument, c.Sharpness)
	}
	if c.FilterStrength != Unset && (c.FilterStrength < 0 || c.FilterStrength > 100) {
		return fmt.Errorf("%w: filter strength must be in [0,100], got %d", ErrInvalidArgument, c.FilterStrength)
	}
	if c.FilterType != Unset && c.FilterType != 0 && c.FilterType != 1 {
		return fmt.Errorf("%w: filter type must be 0 or 1, got %d", ErrInvalidArgument, c.FilterType)
	}
	if c.Passes != Unset && (c.Passes < 1 || c.Passes > 10) {
		return fmt.Errorf("%w: passes must be in [1,10], got %d", ErrInvalidArgument, c.Passes)
	}
	if c.Preprocessing != Unset && (c.Preprocessing < 0 || c.Preprocessing > 2) {
		return fmt.Errorf("%w: preprocessing must be in [0,2], got %d", ErrInvalidArgument, c.Preprocessing)
	}
	if c.NearLossless != Unset && (c.NearLossless < 0 || c.NearLossless > 100) {
		return fmt.Errorf("%w: near-lossless must be in [0,100], got %d", ErrInvalidArgument, c.NearLossless)
	}
	if c.ResizeWidth < 0 || c.ResizeHeight < 0 {
		return fmt.Errorf("%w: resize dimensions must be positive", ErrInvalidArgument)
	}
	return nil
}

// ParseResizeSpec parses a resize flag value: either "WIDTHxHEIGHT" or a single
// number meaning "fit the width, keep aspect". Case-insensitive separator.
func ParseResizeSpec(spec string) (width, height int, err error) {
	if spec == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(strings.ToLower(spec), "x", 2)
	width, err = strconv.Atoi(parts[0])
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid resize spec %q", ErrInvalidArgument, spec)
	}
	if len(parts) == 1 {
		return width, 0, nil
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid resize spec %q", ErrInvalidArgument, spec)
	}
	return width, height, nil
}
