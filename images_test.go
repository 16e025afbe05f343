package inkwell

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestProcessImageResizesWide(t *testing.T) {
	src := encodePNG(t, 1600, 800)

	info, data, err := ProcessImage(bytes.NewReader(src), "Holiday Photo.PNG")
	if err != nil {
		t.Fatalf("ProcessImage() error = %v", err)
	}
	if info.Width != 800 || info.Height != 400 {
		t.Errorf("dimensions = %dx%d, want 800x400", info.Width, info.Height)
	}
	if info.Filename != "holiday-photo.jpg" {
		t.Errorf("Filename = %q", info.Filename)
	}
	if info.OriginalName != "Holiday Photo.PNG" {
		t.Errorf("OriginalName = %q", info.OriginalName)
	}
	if info.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, len(data) = %d", info.SizeBytes, len(data))
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 800 || b.Dy() != 400 {
		t.Errorf("decoded dimensions = %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessImageKeepsSmall(t *testing.T) {
	src := encodePNG(t, 400, 300)

	info, _, err := ProcessImage(bytes.NewReader(src), "small.png")
	if err != nil {
		t.Fatalf("ProcessImage() error = %v", err)
	}
	if info.Width != 400 || info.Height != 300 {
		t.Errorf("dimensions = %dx%d, want 400x300", info.Width, info.Height)
	}
}

func TestProcessImageInvalidInput(t *testing.T) {
	if _, _, err := ProcessImage(bytes.NewReader([]byte("not an image")), "x.png"); err == nil {
		t.Fatal("expected error for invalid image data")
	}
}

func TestBuildImageVariants(t *testing.T) {
	imagesDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	if err := os.WriteFile(filepath.Join(imagesDir, "pic.png"), encodePNG(t, 1000, 500), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	processed, err := BuildImageVariants(imagesDir, outDir)
	if err != nil {
		t.Fatalf("BuildImageVariants() error = %v", err)
	}
	if len(processed) != 1 {
		t.Fatalf("processed %d images, want 1", len(processed))
	}
	if processed[0].Filename != "pic.jpg" {
		t.Errorf("Filename = %q", processed[0].Filename)
	}
	if _, err := os.Stat(filepath.Join(outDir, "pic.jpg")); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestBuildImageVariantsMissingDir(t *testing.T) {
	processed, err := BuildImageVariants(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	if err != nil {
		t.Fatalf("missing images dir must not be an error: %v", err)
	}
	if processed != nil {
		t.Errorf("processed = %v", processed)
	}
}

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Holiday Photo.PNG", "holiday-photo"},
		{"already-fine.jpg", "already-fine"},
		{"___.png", "image"},
	}
	for _, tt := range tests {
		if got := slugifyFilename(tt.in); got != tt.want {
			t.Errorf("slugifyFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
