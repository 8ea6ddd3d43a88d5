package shaders

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed sprite.wgsl
var spriteWGSL string

// SpriteWGSL returns the sprite shader with the atlas info array sized to
// maxLayers. Uniform arrays need a constant length, so the count is baked in.
func SpriteWGSL(maxLayers uint32) string {
	if maxLayers == 0 {
		maxLayers = 1
	}
	return strings.ReplaceAll(spriteWGSL, "MAX_LAYERS", strconv.FormatUint(uint64(maxLayers), 10))
}
