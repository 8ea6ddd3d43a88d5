package texture

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	src := `{
		"atlases": [
			{"name": "tiles", "path": "tiles.png", "tile_width": 16, "tile_height": 16},
			{"name": "title", "path": "/abs/title.png", "single": true}
		],
		"images": ["npc_a", "npc_b"],
		"image_dir": "swap"
	}`
	m, err := ParseManifest(strings.NewReader(src), "/game/assets")
	require.NoError(t, err)
	require.Len(t, m.Atlases, 2)

	assert.Equal(t, filepath.Join("/game/assets", "tiles.png"), m.Atlases[0].Path)
	assert.Equal(t, "/abs/title.png", m.Atlases[1].Path)
	assert.True(t, m.Atlases[1].Single)
	assert.Equal(t, []string{"npc_a", "npc_b"}, m.Images)
	assert.Equal(t, filepath.Join("/game/assets", "swap"), m.ImageDir)
}

func TestParseManifestInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `{"atlases": [`},
		{"unknown field", `{"atlas": []}`},
		{"missing name", `{"atlases": [{"path": "a.png", "tile_width": 1, "tile_height": 1}]}`},
		{"missing path", `{"atlases": [{"name": "a", "tile_width": 1, "tile_height": 1}]}`},
		{"zero tile", `{"atlases": [{"name": "a", "path": "a.png", "tile_width": 0, "tile_height": 1}]}`},
		{"duplicate", `{"atlases": [
			{"name": "a", "path": "a.png", "tile_width": 1, "tile_height": 1},
			{"name": "a", "path": "b.png", "tile_width": 1, "tile_height": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest(strings.NewReader(tt.src), ".")
			assert.Error(t, err)
		})
	}
}
