package texture

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtlasEntry names one image to load as an atlas layer.
type AtlasEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	TileWidth  uint32 `json:"tile_width"`
	TileHeight uint32 `json:"tile_height"`
	// Single loads the whole image as one tile; tile sizes are ignored.
	Single bool `json:"single,omitempty"`
}

// Manifest lists the atlases loaded at startup and the images kept in the
// ImageLibrary for hot swaps.
type Manifest struct {
	Atlases []AtlasEntry `json:"atlases"`
	Images  []string     `json:"images,omitempty"`
	// ImageDir is where Images are looked up, relative to the manifest.
	ImageDir string `json:"image_dir,omitempty"`
}

// ParseManifest decodes and validates a manifest. Relative paths are
// resolved against baseDir.
func ParseManifest(r io.Reader, baseDir string) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Atlases))
	for i := range m.Atlases {
		e := &m.Atlases[i]
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("manifest atlas %d: missing name", i)
		case e.Path == "":
			return nil, fmt.Errorf("manifest atlas %q: missing path", e.Name)
		case !e.Single && (e.TileWidth == 0 || e.TileHeight == 0):
			return nil, fmt.Errorf("manifest atlas %q: tile size %dx%d", e.Name, e.TileWidth, e.TileHeight)
		case seen[e.Name]:
			return nil, fmt.Errorf("manifest atlas %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		if !filepath.IsAbs(e.Path) {
			e.Path = filepath.Join(baseDir, e.Path)
		}
	}
	if !filepath.IsAbs(m.ImageDir) {
		m.ImageDir = filepath.Join(baseDir, m.ImageDir)
	}
	return &m, nil
}

func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseManifest(f, filepath.Dir(path))
}
