package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageData is a decoded image in tightly packed RGBA8 rows.
type ImageData struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// BytesPerRow is the row pitch used for texture uploads.
func (img *ImageData) BytesPerRow() uint32 {
	return img.Width * 4
}

// Valid reports whether the pixel buffer matches the dimensions.
func (img *ImageData) Valid() bool {
	return img != nil && img.Width > 0 && img.Height > 0 &&
		uint64(len(img.Pixels)) == uint64(img.Width)*uint64(img.Height)*4
}

// FromImage converts any image.Image into RGBA8, copying when the source is
// not already a zero-origin *image.RGBA.
func FromImage(src image.Image) *ImageData {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return &ImageData{
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Pixels: rgba.Pix[:b.Dx()*b.Dy()*4],
	}
}

// Decode reads a png, jpeg, bmp or webp stream.
func Decode(r io.Reader) (*ImageData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	data := FromImage(img)
	if !data.Valid() {
		return nil, fmt.Errorf("decode %s: empty image", format)
	}
	return data, nil
}

// LoadFile decodes an image file. Files with a .bin extension are read as
// raw cache files.
func LoadFile(path string) (*ImageData, error) {
	if strings.EqualFold(filepath.Ext(path), CacheExt) {
		return ReadCache(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
