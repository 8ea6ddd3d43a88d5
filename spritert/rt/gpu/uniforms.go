package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

// Uniforms holds the camera, config and window-map buffers and their bind groups.
type Uniforms struct {
	Queue *wgpu.Queue

	Camera core.CameraUniform
	Config core.ConfigUniform
	Window core.WindowMapUniform

	CameraBuf *wgpu.Buffer
	ConfigBuf *wgpu.Buffer
	WindowBuf *wgpu.Buffer

	CameraGroup *wgpu.BindGroup
	WindowGroup *wgpu.BindGroup
}

func NewUniforms(device *wgpu.Device, p *SpritePipeline, width, height float32) (*Uniforms, error) {
	u := &Uniforms{
		Queue:  device.GetQueue(),
		Camera: core.NewCameraUniform(),
		Config: core.ConfigUniform{ApplyCamera: true},
		Window: core.NewWindowMapUniform(width, height),
	}

	var err error
	create := func(label string, contents []byte) *wgpu.Buffer {
		if err != nil {
			return nil
		}
		var buf *wgpu.Buffer
		buf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    label,
			Contents: contents,
			Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		return buf
	}
	u.CameraBuf = create("Camera UB", u.Camera.Bytes())
	u.ConfigBuf = create("Config UB", u.Config.Bytes())
	u.WindowBuf = create("WindowMap UB", u.Window.Bytes())
	if err != nil {
		u.Release()
		return nil, fmt.Errorf("create uniform buffers: %w", err)
	}

	u.CameraGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Sprite Camera BG",
		Layout: p.CameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: u.CameraBuf, Size: core.CameraUniformSize},
			{Binding: 1, Buffer: u.ConfigBuf, Size: core.ConfigUniformSize},
		},
	})
	if err != nil {
		u.Release()
		return nil, err
	}

	u.WindowGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Sprite Window BG",
		Layout: p.WindowLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: u.WindowBuf, Size: core.WindowMapUniformSize},
		},
	})
	if err != nil {
		u.Release()
		return nil, err
	}
	return u, nil
}

func (u *Uniforms) UpdateCamera(c *core.Camera) {
	u.Camera.UpdateViewProj(c)
	u.Queue.WriteBuffer(u.CameraBuf, 0, u.Camera.Bytes())
}

func (u *Uniforms) SetApplyCamera(apply bool) {
	u.Config.ApplyCamera = apply
	u.Queue.WriteBuffer(u.ConfigBuf, 0, u.Config.Bytes())
}

func (u *Uniforms) Resize(width, height float32) {
	u.Window.Resize(width, height)
	u.Queue.WriteBuffer(u.WindowBuf, 0, u.Window.Bytes())
}

func (u *Uniforms) Release() {
	for _, g := range []**wgpu.BindGroup{&u.CameraGroup, &u.WindowGroup} {
		if *g != nil {
			(*g).Release()
			*g = nil
		}
	}
	for _, b := range []**wgpu.Buffer{&u.CameraBuf, &u.ConfigBuf, &u.WindowBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}
