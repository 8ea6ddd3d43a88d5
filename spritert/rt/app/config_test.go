package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, uint32(16), cfg.MaxLayers)
	assert.InDelta(t, 1.5, cfg.CameraAspect, 1e-6)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"no layers", func(c *Config) { c.MaxLayers = 0 }},
		{"zero layer height", func(c *Config) { c.LayerHeight = 0 }},
		{"negative extent", func(c *Config) { c.CameraHalfWidth = -1 }},
		{"eye below plane", func(c *Config) { c.CameraEyeZ = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestClampLayers(t *testing.T) {
	assert.Equal(t, uint32(16), clampLayers(16, 256))
	assert.Equal(t, uint32(8), clampLayers(16, 8))
	assert.Equal(t, uint32(16), clampLayers(16, 0))
}
