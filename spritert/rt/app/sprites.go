package app

import (
	"fmt"

	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// CreateSprite cuts the tile rect (texX, texY, texW, texH) from the named
// atlas and places it at (x, y).
func (a *App) CreateSprite(x, y float32, texX, texY, texW, texH uint32, atlasName string, scaleX, scaleY float32) (*core.Sprite, error) {
	atlas, err := a.registry.get(atlasName)
	if err != nil {
		return nil, err
	}
	return core.BuildSprite(
		mgl32.Vec2{x, y},
		atlas,
		core.TileRect{X: texX, Y: texY, W: texW, H: texH},
		mgl32.Vec2{scaleX, scaleY},
	)
}

func (a *App) GetAtlas(name string) (core.Atlas, error) {
	return a.registry.get(name)
}

// AtlasNames lists registered atlases in sorted order.
func (a *App) AtlasNames() []string {
	return a.registry.names()
}

// LoadTexture loads path into a new layer and registers it as name.
func (a *App) LoadTexture(name, path string, tileWidth, tileHeight uint32) (core.Atlas, error) {
	a.Profiler.BeginScope("LoadTexture")
	defer a.Profiler.EndScope("LoadTexture")

	atlas, err := a.Atlases.LoadTexture(path, tileWidth, tileHeight)
	if err != nil {
		return core.Atlas{}, fmt.Errorf("load texture %q: %w", name, err)
	}
	a.registry.set(name, atlas)
	a.Logger.Infof("loaded %q into layer %d: %s", name, atlas.Index, atlas)
	return atlas, nil
}

// LoadImage registers an already decoded image as name.
func (a *App) LoadImage(name string, img *texture.ImageData, tileWidth, tileHeight uint32) (core.Atlas, error) {
	atlas, err := a.Atlases.LoadImage(img, tileWidth, tileHeight)
	if err != nil {
		return core.Atlas{}, fmt.Errorf("load image %q: %w", name, err)
	}
	a.registry.set(name, atlas)
	a.Logger.Infof("loaded %q into layer %d: %s", name, atlas.Index, atlas)
	return atlas, nil
}

// LoadSingle registers path as a one-tile atlas.
func (a *App) LoadSingle(name, path string) (core.Atlas, error) {
	atlas, err := a.Atlases.LoadSingle(path)
	if err != nil {
		return core.Atlas{}, fmt.Errorf("load texture %q: %w", name, err)
	}
	a.registry.set(name, atlas)
	a.Logger.Infof("loaded %q into layer %d: %s", name, atlas.Index, atlas)
	return atlas, nil
}

// LoadImages fills the image library used by UpdateTexture.
func (a *App) LoadImages(dir string, names ...string) error {
	a.Images.Dir = dir
	if err := a.Images.Load(names...); err != nil {
		return err
	}
	a.Logger.Infof("loaded %d images from %s", len(names), dir)
	return nil
}

// LoadManifest loads every atlas and library image listed in m.
func (a *App) LoadManifest(m *texture.Manifest) error {
	for _, e := range m.Atlases {
		var err error
		if e.Single {
			_, err = a.LoadSingle(e.Name, e.Path)
		} else {
			_, err = a.LoadTexture(e.Name, e.Path, e.TileWidth, e.TileHeight)
		}
		if err != nil {
			return err
		}
	}
	if len(m.Images) > 0 {
		return a.LoadImages(m.ImageDir, m.Images...)
	}
	return nil
}

// UpdateTexture swaps the library image called name into layer and
// registers the result under name. Names already bound to the layer stay
// registered and describe the new grid.
func (a *App) UpdateTexture(layer uint32, name string, tileWidth, tileHeight uint32) (core.Atlas, error) {
	img, ok := a.Images.Get(name)
	if !ok {
		return core.Atlas{}, fmt.Errorf("update layer %d: image %q not loaded", layer, name)
	}
	atlas, err := a.UpdateTextureImage(layer, img, tileWidth, tileHeight)
	if err != nil {
		return core.Atlas{}, fmt.Errorf("update layer %d with %q: %w", layer, name, err)
	}
	a.registry.set(name, atlas)
	return atlas, nil
}

// UpdateTextureImage overwrites layer with img and rebinds the names
// registered on that layer to the new atlas.
func (a *App) UpdateTextureImage(layer uint32, img *texture.ImageData, tileWidth, tileHeight uint32) (core.Atlas, error) {
	a.Profiler.BeginScope("UpdateTexture")
	defer a.Profiler.EndScope("UpdateTexture")
	atlas, err := a.Atlases.UpdateTexture(layer, img, tileWidth, tileHeight)
	if err != nil {
		return core.Atlas{}, err
	}
	if rebound := a.registry.refreshLayer(atlas); len(rebound) > 0 {
		a.Logger.Debugf("layer %d replaced, rebound %v", layer, rebound)
	}
	return atlas, nil
}

// AddStatic appends instances to the static buffer drawn every frame.
func (a *App) AddStatic(instances []core.Instance) (core.StaticGroupID, error) {
	id, err := a.Static.Append(instances)
	if err != nil {
		return core.StaticGroupID{}, err
	}
	a.Logger.Debugf("static group %s: %d instances, %d total", id, len(instances), a.Static.Count())
	return id, nil
}

func (a *App) RemoveStatic(id core.StaticGroupID) (bool, error) {
	return a.Static.Remove(id)
}

func (a *App) ClearStatic() {
	a.Static.Clear()
}
