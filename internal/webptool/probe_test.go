package webptool

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeProber(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Cannot create test image: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 5))); err != nil {
		t.Fatalf("Cannot encode test image: %v", err)
	}
	f.Close()

	width, height, err := NewDecodeProber().Dimensions(path)
	if err != nil {
		t.Fatalf("Dimensions() failed: %v", err)
	}
	if width != 3 || height != 5 {
		t.Errorf("Dimensions() = %dx%d, expected 3x5", width, height)
	}
}

func TestDecodeProber_MissingFile(t *testing.T) {
	if _, _, err := NewDecodeProber().Dimensions("/does/not/exist.png"); err == nil {
		t.Error("Dimensions() on a missing file succeeded, expected error")
	}
}

func TestDecodeProber_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "junk.png", 64)

	if _, _, err := NewDecodeProber().Dimensions(path); err == nil {
		t.Error("Dimensions() on garbage bytes succeeded, expected error")
	}
}
