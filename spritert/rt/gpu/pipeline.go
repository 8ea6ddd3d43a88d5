package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/shaders"
)

// SpritePipeline draws instanced unit quads sampled from the atlas array.
// Bind groups: 0 atlas, 1 camera + config, 2 window map.
type SpritePipeline struct {
	Device *wgpu.Device

	Pipeline     *wgpu.RenderPipeline
	Module       *wgpu.ShaderModule
	Layout       *wgpu.PipelineLayout
	CameraLayout *wgpu.BindGroupLayout
	WindowLayout *wgpu.BindGroupLayout

	VertexBuffer *wgpu.Buffer
	IndexBuffer  *wgpu.Buffer
	IndexCount   uint32
}

func NewSpritePipeline(device *wgpu.Device, format wgpu.TextureFormat, atlasLayout *wgpu.BindGroupLayout, maxLayers uint32) (*SpritePipeline, error) {
	p := &SpritePipeline{Device: device}

	var err error
	p.Module, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Sprite Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SpriteWGSL(maxLayers)},
	})
	if err != nil {
		return nil, fmt.Errorf("sprite shader: %w", err)
	}

	p.CameraLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Sprite Camera BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.CameraUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.ConfigUniformSize,
				},
			},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}

	p.WindowLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Sprite Window BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.WindowMapUniformSize,
				},
			},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}

	p.Layout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Sprite Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{atlasLayout, p.CameraLayout, p.WindowLayout},
	})
	if err != nil {
		p.Release()
		return nil, err
	}

	p.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Sprite Pipeline",
		Layout: p.Layout,
		Vertex: wgpu.VertexState{
			Module:     p.Module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{quadBufferLayout(), instanceBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.Module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("sprite pipeline: %w", err)
	}

	vertices, indices := core.UnitQuad()
	p.VertexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad Vertex Buffer",
		Contents: core.EncodeVertices(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	p.IndexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad Index Buffer",
		Contents: core.EncodeIndices(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	p.IndexCount = uint32(len(indices))

	return p, nil
}

func quadBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: core.VertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// instanceBufferLayout matches core.Instance: four model columns, then the
// tile and layer indices.
func instanceBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: core.InstanceSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 6},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 7},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 8},
			{Format: wgpu.VertexFormatUint32, Offset: 64, ShaderLocation: 9},
			{Format: wgpu.VertexFormatUint32, Offset: 68, ShaderLocation: 10},
		},
	}
}

// Draw records one instanced draw of count quads from instances.
func (p *SpritePipeline) Draw(pass *wgpu.RenderPassEncoder, atlas *wgpu.BindGroup, u *Uniforms, instances *wgpu.Buffer, count uint32) {
	if count == 0 || instances == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, atlas, nil)
	pass.SetBindGroup(1, u.CameraGroup, nil)
	pass.SetBindGroup(2, u.WindowGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, instances, 0, uint64(count)*core.InstanceSize)
	pass.SetIndexBuffer(p.IndexBuffer, wgpu.IndexFormatUint16, 0, p.IndexBuffer.GetSize())
	pass.DrawIndexed(p.IndexCount, count, 0, 0, 0)
}

func (p *SpritePipeline) Release() {
	if p.IndexBuffer != nil {
		p.IndexBuffer.Release()
		p.IndexBuffer = nil
	}
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
		p.VertexBuffer = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.Layout != nil {
		p.Layout.Release()
		p.Layout = nil
	}
	if p.WindowLayout != nil {
		p.WindowLayout.Release()
		p.WindowLayout = nil
	}
	if p.CameraLayout != nil {
		p.CameraLayout.Release()
		p.CameraLayout = nil
	}
	if p.Module != nil {
		p.Module.Release()
		p.Module = nil
	}
}
