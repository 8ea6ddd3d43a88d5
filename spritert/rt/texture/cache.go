package texture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CacheExt is the extension of raw RGBA cache files.
const CacheExt = ".bin"

// maxCacheDim bounds dimensions read from cache headers.
const maxCacheDim = 1 << 15

var ErrCorruptCache = errors.New("corrupt image cache")

// WriteCache stores img as little-endian u32 width, u32 height, then RGBA rows.
func WriteCache(path string, img *ImageData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := EncodeCache(w, img); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func EncodeCache(w io.Writer, img *ImageData) error {
	if !img.Valid() {
		return fmt.Errorf("encode cache: %w", ErrCorruptCache)
	}
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:], img.Width)
	binary.LittleEndian.PutUint32(header[4:], img.Height)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(img.Pixels)
	return err
}

func ReadCache(path string) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := DecodeCache(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func DecodeCache(r io.Reader) (*ImageData, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", ErrCorruptCache)
	}
	width := binary.LittleEndian.Uint32(header[0:])
	height := binary.LittleEndian.Uint32(header[4:])
	if width == 0 || height == 0 || width > maxCacheDim || height > maxCacheDim {
		return nil, fmt.Errorf("dimensions %dx%d: %w", width, height, ErrCorruptCache)
	}

	pixels := make([]byte, int(width)*int(height)*4)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, fmt.Errorf("read pixels: %w", ErrCorruptCache)
	}
	return &ImageData{Width: width, Height: height, Pixels: pixels}, nil
}

// LoadOrCache loads base+".png", preferring base+".bin" when the cache is at
// least as new as the png. A fresh decode rewrites the cache; if that write
// fails the decoded image is returned together with the error.
func LoadOrCache(base string) (img *ImageData, cached bool, err error) {
	base = strings.TrimSuffix(base, ".png")
	pngPath := base + ".png"
	binPath := base + CacheExt

	pngInfo, pngErr := os.Stat(pngPath)
	if binInfo, err := os.Stat(binPath); err == nil {
		if pngErr != nil || !binInfo.ModTime().Before(pngInfo.ModTime()) {
			if img, err := ReadCache(binPath); err == nil {
				return img, true, nil
			}
		}
	}
	if pngErr != nil {
		return nil, false, pngErr
	}

	img, err = LoadFile(pngPath)
	if err != nil {
		return nil, false, err
	}
	if err := WriteCache(binPath, img); err != nil {
		return img, false, fmt.Errorf("write cache %s: %w", binPath, err)
	}
	return img, false, nil
}
