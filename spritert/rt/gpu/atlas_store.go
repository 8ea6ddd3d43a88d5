package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/texture"
)

// AtlasFormat is the texel format of every atlas layer.
const AtlasFormat = wgpu.TextureFormatRGBA8UnormSrgb

// AtlasStore owns the atlas texture array, its sampler and the AtlasInfo
// uniform. Each loaded image occupies one layer; layer count is fixed.
type AtlasStore struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	Texture    *wgpu.Texture
	View       *wgpu.TextureView
	Sampler    *wgpu.Sampler
	InfoBuffer *wgpu.Buffer

	Layout    *wgpu.BindGroupLayout
	BindGroup *wgpu.BindGroup

	arena       *LayerArena
	infos       *core.AtlasInfoTable
	layerWidth  uint32
	layerHeight uint32
	uploader    atlasUploader
}

// atlasUploader moves validated layer contents and AtlasInfo records to the GPU.
type atlasUploader interface {
	uploadLayer(layer uint32, img *texture.ImageData) error
	uploadInfo(offset uint64, info core.AtlasInfo)
}

type queueUploader struct {
	s *AtlasStore
}

func (u queueUploader) uploadLayer(layer uint32, img *texture.ImageData) error {
	return u.s.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  u.s.Texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		img.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  img.BytesPerRow(),
			RowsPerImage: img.Height,
		},
		&wgpu.Extent3D{Width: img.Width, Height: img.Height, DepthOrArrayLayers: 1},
	)
}

func (u queueUploader) uploadInfo(offset uint64, info core.AtlasInfo) {
	u.s.Queue.WriteBuffer(u.s.InfoBuffer, offset, info.Bytes())
}

func NewAtlasStore(device *wgpu.Device, maxLayers, layerWidth, layerHeight uint32) (*AtlasStore, error) {
	if maxLayers == 0 || layerWidth == 0 || layerHeight == 0 {
		return nil, fmt.Errorf("atlas store: invalid size %dx%d x %d layers", layerWidth, layerHeight, maxLayers)
	}

	s := &AtlasStore{
		Device:      device,
		Queue:       device.GetQueue(),
		arena:       NewLayerArena(maxLayers),
		infos:       core.NewAtlasInfoTable(maxLayers, layerWidth, layerHeight),
		layerWidth:  layerWidth,
		layerHeight: layerHeight,
	}
	s.uploader = queueUploader{s: s}

	var err error
	s.Texture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Atlas Array",
		Size:          wgpu.Extent3D{Width: layerWidth, Height: layerHeight, DepthOrArrayLayers: maxLayers},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        AtlasFormat,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas texture: %w", err)
	}

	s.View, err = s.Texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "Atlas Array View",
		Format:          AtlasFormat,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: maxLayers,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create atlas view: %w", err)
	}

	s.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Atlas Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create atlas sampler: %w", err)
	}

	infoBytes := s.infos.Bytes()
	s.InfoBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "AtlasInfos UB",
		Contents: infoBytes,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create atlas info buffer: %w", err)
	}

	s.Layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Atlas BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2DArray,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(len(infoBytes)),
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create atlas layout: %w", err)
	}

	s.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Atlas BG",
		Layout: s.Layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: s.View},
			{Binding: 1, Buffer: s.InfoBuffer, Size: uint64(len(infoBytes))},
			{Binding: 2, Sampler: s.Sampler},
		},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create atlas bind group: %w", err)
	}

	return s, nil
}

// LoadTexture decodes path into the next free layer.
func (s *AtlasStore) LoadTexture(path string, tileWidth, tileHeight uint32) (core.Atlas, error) {
	img, err := texture.LoadFile(path)
	if err != nil {
		return core.Atlas{}, err
	}
	return s.LoadImage(img, tileWidth, tileHeight)
}

// LoadSingle loads path as an atlas whose only tile is the whole image.
func (s *AtlasStore) LoadSingle(path string) (core.Atlas, error) {
	img, err := texture.LoadFile(path)
	if err != nil {
		return core.Atlas{}, err
	}
	return s.LoadImage(img, img.Width, img.Height)
}

// LoadImage uploads img into the next free layer. The layer is taken only
// once the upload succeeded, so a rejected or failed image leaves it free.
func (s *AtlasStore) LoadImage(img *texture.ImageData, tileWidth, tileHeight uint32) (core.Atlas, error) {
	layer, atlas, err := s.reserve(img, tileWidth, tileHeight)
	if err != nil {
		return core.Atlas{}, err
	}
	if err := s.uploader.uploadLayer(layer, img); err != nil {
		return core.Atlas{}, fmt.Errorf("upload layer %d: %w", layer, err)
	}
	if _, err := s.arena.Allocate(); err != nil {
		return core.Atlas{}, err
	}
	s.record(atlas)
	return atlas, nil
}

// UpdateTexture replaces the contents of an allocated layer. Sprites built
// against the layer keep their instances; only pixels and AtlasInfo change.
func (s *AtlasStore) UpdateTexture(layer uint32, img *texture.ImageData, tileWidth, tileHeight uint32) (core.Atlas, error) {
	if !s.arena.IsAllocated(layer) {
		return core.Atlas{}, fmt.Errorf("layer %d (%d allocated): %w", layer, s.arena.Allocated(), core.ErrLayerNotAllocated)
	}
	atlas, err := s.describe(layer, img, tileWidth, tileHeight)
	if err != nil {
		return core.Atlas{}, err
	}
	if err := s.uploader.uploadLayer(layer, img); err != nil {
		return core.Atlas{}, fmt.Errorf("upload layer %d: %w", layer, err)
	}
	s.record(atlas)
	return atlas, nil
}

// reserve validates img and describes it on the next free layer without
// allocating that layer.
func (s *AtlasStore) reserve(img *texture.ImageData, tileWidth, tileHeight uint32) (uint32, core.Atlas, error) {
	layer, err := s.arena.Peek()
	if err != nil {
		return 0, core.Atlas{}, err
	}
	atlas, err := s.describe(layer, img, tileWidth, tileHeight)
	if err != nil {
		return 0, core.Atlas{}, err
	}
	return layer, atlas, nil
}

func (s *AtlasStore) describe(layer uint32, img *texture.ImageData, tileWidth, tileHeight uint32) (core.Atlas, error) {
	if err := checkImage(img, s.layerWidth, s.layerHeight, tileWidth, tileHeight); err != nil {
		return core.Atlas{}, err
	}
	return core.NewAtlas(layer, img.Width, img.Height, tileWidth, tileHeight)
}

// record mirrors atlas into the AtlasInfo table and its uniform.
func (s *AtlasStore) record(atlas core.Atlas) {
	info := atlas.Info(s.layerWidth, s.layerHeight)
	offset := s.infos.Set(atlas.Index, info)
	s.uploader.uploadInfo(offset, info)
}

// checkImage validates an upload against the layer size.
func checkImage(img *texture.ImageData, layerWidth, layerHeight, tileWidth, tileHeight uint32) error {
	if !img.Valid() {
		return fmt.Errorf("atlas image: malformed pixel data")
	}
	if tileWidth == 0 || tileHeight == 0 {
		return fmt.Errorf("tile %dx%d: %w", tileWidth, tileHeight, core.ErrInvalidTileSize)
	}
	if img.Width > layerWidth || img.Height > layerHeight {
		return fmt.Errorf("image %dx%d, layer %dx%d: %w",
			img.Width, img.Height, layerWidth, layerHeight, core.ErrImageTooLarge)
	}
	return nil
}

func (s *AtlasStore) Info(layer uint32) core.AtlasInfo { return s.infos.Get(layer) }
func (s *AtlasStore) Allocated() uint32                { return s.arena.Allocated() }
func (s *AtlasStore) Capacity() uint32                 { return s.arena.Capacity() }

func (s *AtlasStore) LayerSize() (uint32, uint32) {
	return s.layerWidth, s.layerHeight
}

func (s *AtlasStore) Release() {
	if s.BindGroup != nil {
		s.BindGroup.Release()
		s.BindGroup = nil
	}
	if s.Layout != nil {
		s.Layout.Release()
		s.Layout = nil
	}
	if s.InfoBuffer != nil {
		s.InfoBuffer.Release()
		s.InfoBuffer = nil
	}
	if s.Sampler != nil {
		s.Sampler.Release()
		s.Sampler = nil
	}
	if s.View != nil {
		s.View.Release()
		s.View = nil
	}
	if s.Texture != nil {
		s.Texture.Release()
		s.Texture = nil
	}
}
