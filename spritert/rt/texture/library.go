package texture

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

// ImageLibrary holds decoded images by base name, for layers that are
// swapped at runtime.
type ImageLibrary struct {
	Dir    string
	images map[string]*ImageData
	logger core.Logger
}

func NewImageLibrary(dir string, logger core.Logger) *ImageLibrary {
	return &ImageLibrary{
		Dir:    dir,
		images: make(map[string]*ImageData),
		logger: core.OrNop(logger),
	}
}

// Load decodes Dir/<name>.png for every name, going through the .bin cache.
func (l *ImageLibrary) Load(names ...string) error {
	for _, name := range names {
		img, cached, err := LoadOrCache(filepath.Join(l.Dir, name))
		if err != nil {
			if img == nil {
				return fmt.Errorf("load image %q: %w", name, err)
			}
			l.logger.Warnf("image %q: %v", name, err)
		}
		if cached {
			l.logger.Debugf("image %q loaded from cache (%dx%d)", name, img.Width, img.Height)
		} else {
			l.logger.Debugf("image %q decoded (%dx%d)", name, img.Width, img.Height)
		}
		l.images[name] = img
	}
	return nil
}

func (l *ImageLibrary) Add(name string, img *ImageData) {
	l.images[name] = img
}

func (l *ImageLibrary) Get(name string) (*ImageData, bool) {
	img, ok := l.images[name]
	return img, ok
}

func (l *ImageLibrary) Len() int { return len(l.images) }

// Names returns the loaded names in sorted order.
func (l *ImageLibrary) Names() []string {
	names := make([]string, 0, len(l.images))
	for n := range l.images {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
