package gpu

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

// FrameStats reports one composed frame.
type FrameStats struct {
	Static   int
	Dynamic  int
	Combined int

	Readback time.Duration
	Compose  time.Duration
	Draw     time.Duration
}

// FrameCompositor reads the static instances back each frame, appends the
// caller's dynamic instances and draws both with a single instanced call.
// The static buffer itself is never written here.
type FrameCompositor struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	Pipeline *SpritePipeline
	Uniforms *Uniforms
	Atlases  *AtlasStore
	Static   *StaticInstances

	ClearColor wgpu.Color

	Staging  *wgpu.Buffer
	Combined *wgpu.Buffer

	backend frameBackend
	machine frameMachine
}

// frameBackend is the device work of one frame, in protocol order.
type frameBackend interface {
	setApplyCamera(apply bool)
	staticSize() uint64
	// copyStatic copies size bytes of static instances into staging.
	copyStatic(size uint64) error
	// mapStatic blocks until staging is readable and panics if it never is.
	mapStatic(size uint64) []byte
	unmapStatic()
	draw(target *wgpu.TextureView, combined []core.Instance) error
}

func NewFrameCompositor(device *wgpu.Device, pipeline *SpritePipeline, uniforms *Uniforms, atlases *AtlasStore, static *StaticInstances, clear wgpu.Color) *FrameCompositor {
	c := &FrameCompositor{
		Device:     device,
		Queue:      device.GetQueue(),
		Pipeline:   pipeline,
		Uniforms:   uniforms,
		Atlases:    atlases,
		Static:     static,
		ClearColor: clear,
	}
	c.backend = deviceBackend{c: c}
	return c
}

func (c *FrameCompositor) State() FrameState { return c.machine.state }

// Render draws [static..., dynamic...] into target. It blocks while the
// static buffer is mapped for reading. A failed map means the device is gone
// and panics. With no static instances the copy and map are skipped but the
// states are still walked in order.
func (c *FrameCompositor) Render(target *wgpu.TextureView, dynamic []core.Instance, applyCamera bool) (FrameStats, error) {
	stats := FrameStats{Dynamic: len(dynamic)}
	c.backend.setApplyCamera(applyCamera)

	start := time.Now()
	size := c.backend.staticSize()
	mapped := false
	fail := func(err error) (FrameStats, error) {
		if mapped {
			c.backend.unmapStatic()
		}
		c.machine.abort()
		return stats, err
	}

	if size > 0 {
		if err := c.backend.copyStatic(size); err != nil {
			return fail(err)
		}
	}
	c.machine.advance(FrameCopyRequested)

	var static []core.Instance
	if size > 0 {
		data := c.backend.mapStatic(size)
		mapped = true
		var err error
		static, err = core.DecodeInstances(data)
		if err != nil {
			return fail(err)
		}
	}
	c.machine.advance(FrameMapped)
	stats.Readback = time.Since(start)

	start = time.Now()
	combined := core.Compose(static, dynamic)
	stats.Static = len(static)
	stats.Combined = len(combined)
	c.machine.advance(FrameComposed)
	stats.Compose = time.Since(start)

	start = time.Now()
	if err := c.backend.draw(target, combined); err != nil {
		return fail(err)
	}
	c.machine.advance(FrameSubmitted)
	stats.Draw = time.Since(start)

	if mapped {
		c.backend.unmapStatic()
	}
	c.machine.advance(FrameIdle)
	return stats, nil
}

// deviceBackend runs the frame on the compositor's device and buffers.
type deviceBackend struct {
	c *FrameCompositor
}

func (b deviceBackend) setApplyCamera(apply bool) {
	b.c.Uniforms.SetApplyCamera(apply)
}

func (b deviceBackend) staticSize() uint64 {
	return b.c.Static.ByteSize()
}

func (b deviceBackend) copyStatic(size uint64) error {
	c := b.c
	if _, err := ensureBuffer(c.Device, "Static Staging", &c.Staging, size,
		wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst); err != nil {
		return fmt.Errorf("staging buffer: %w", err)
	}
	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	encoder.CopyBufferToBuffer(c.Static.Buffer, 0, c.Staging, 0, size)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	c.Queue.Submit(cmd)
	return nil
}

func (b deviceBackend) mapStatic(size uint64) []byte {
	c := b.c
	done := false
	status := wgpu.BufferMapAsyncStatusSuccess
	c.Staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})
	c.Device.Poll(true, nil)
	if !done || status != wgpu.BufferMapAsyncStatusSuccess {
		panic(fmt.Sprintf("frame compositor: map static staging buffer failed (done=%v status=%v)", done, status))
	}
	return c.Staging.GetMappedRange(0, uint(size))
}

func (b deviceBackend) unmapStatic() {
	b.c.Staging.Unmap()
}

func (b deviceBackend) draw(target *wgpu.TextureView, combined []core.Instance) error {
	c := b.c
	count := uint32(len(combined))
	if count > 0 {
		data := core.EncodeInstances(combined)
		if _, err := ensureBuffer(c.Device, "Combined Instances", &c.Combined, uint64(len(data)),
			wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst); err != nil {
			return fmt.Errorf("combined buffer: %w", err)
		}
		c.Queue.WriteBuffer(c.Combined, 0, data)
	}

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Sprite Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: c.ClearColor,
		}},
	})
	c.Pipeline.Draw(pass, c.Atlases.BindGroup, c.Uniforms, c.Combined, count)
	if err := pass.End(); err != nil {
		return fmt.Errorf("sprite pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	c.Queue.Submit(cmd)
	return nil
}

func (c *FrameCompositor) Release() {
	if c.Staging != nil {
		c.Staging.Release()
		c.Staging = nil
	}
	if c.Combined != nil {
		c.Combined.Release()
		c.Combined = nil
	}
}
