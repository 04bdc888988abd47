package webptool

import (
	"fmt"
	"image"
	"os"

	"github.com/barasher/go-exiftool"

	// Register decoders for the dimension fallback probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Prober defines the interface for querying an image's pixel dimensions.
type Prober interface {
	// Dimensions returns the width and height of the image at path.
	Dimensions(path string) (width, height int, err error)
}

// exiftoolProber implements the Prober interface using exiftool metadata.
type exiftoolProber struct {
	et *exiftool.Exiftool
}

// NewExiftoolProber creates a Prober backed by a running exiftool instance.
// The caller owns the instance and closes it after use.
func NewExiftoolProber(et *exiftool.Exiftool) Prober {
	return &exiftoolProber{et: et}
}

// Dimensions reads ImageWidth/ImageHeight from the file's metadata.
func (p *exiftoolProber) Dimensions(path string) (int, int, error) {
	infos := p.et.ExtractMetadata(path)
	if len(infos) == 0 {
		return 0, 0, fmt.Errorf("exiftool returned no metadata for %s", path)
	}
	if infos[0].Err != nil {
		return 0, 0, fmt.Errorf("exiftool failed for %s: %w", path, infos[0].Err)
	}

	width, err := infos[0].GetInt("ImageWidth")
	if err != nil {
		return 0, 0, fmt.Errorf("no ImageWidth for %s: %w", path, err)
	}
	height, err := infos[0].GetInt("ImageHeight")
	if err != nil {
		return 0, 0, fmt.Errorf("no ImageHeight for %s: %w", path, err)
	}
	return int(width), int(height), nil
}

// decodeProber implements the Prober interface by decoding the image header
// in-process. Used when exiftool is not installed.
type decodeProber struct{}

// NewDecodeProber creates a Prober that reads dimensions from the image
// header with the registered stdlib and x/image decoders.
func NewDecodeProber() Prober {
	return decodeProber{}
}

// Dimensions decodes only the image config, not the pixel data.
func (decodeProber) Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot decode dimensions of %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
