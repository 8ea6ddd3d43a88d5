package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipRemap maps OpenGL clip-space depth [-1, 1] onto the WebGPU range [0, 1].
// It is applied after the projection so projections can change independently.
var ClipRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is an orthographic camera following a point in the XY plane.
// Eye and Target keep their Z; only X and Y track the follow position.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	Left, Right float32
	Bottom, Top float32
	ZNear, ZFar float32
	Aspect      float32
}

// NewCamera looks down -Z from height eyeZ. Horizontal extents are
// multiplied by aspect when projecting.
func NewCamera(halfWidth, halfHeight, eyeZ, aspect float32) *Camera {
	return &Camera{
		Eye:    mgl32.Vec3{0, 0, eyeZ},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		Left:   -halfWidth,
		Right:  halfWidth,
		Bottom: -halfHeight,
		Top:    halfHeight,
		ZNear:  0.1,
		ZFar:   100,
		Aspect: aspect,
	}
}

func (c *Camera) Update(position mgl32.Vec3) {
	c.Eye = mgl32.Vec3{position.X(), position.Y(), c.Eye.Z()}
	c.Target = mgl32.Vec3{position.X(), position.Y(), c.Target.Z()}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Ortho(c.Left*c.Aspect, c.Right*c.Aspect, c.Bottom, c.Top, c.ZNear, c.ZFar)
}

// ViewProjection is ClipRemap * Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return ClipRemap.Mul4(c.Projection()).Mul4(c.View())
}

// WindowMap maps pixel coordinates of a width x height window to NDC.
// Sprites flip Y, so pixel (0, 0) lands on the top-left corner.
func WindowMap(width, height float32) mgl32.Mat4 {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return mgl32.Mat4{
		2 / width, 0, 0, 0,
		0, 2 / height, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

const (
	CameraUniformSize    = 64
	ConfigUniformSize    = 16
	WindowMapUniformSize = 64
)

type CameraUniform struct {
	ViewProj mgl32.Mat4
}

func NewCameraUniform() CameraUniform {
	return CameraUniform{ViewProj: mgl32.Ident4()}
}

func (u *CameraUniform) UpdateViewProj(c *Camera) {
	u.ViewProj = c.ViewProjection()
}

func (u CameraUniform) Bytes() []byte {
	return mat4Bytes(u.ViewProj)
}

// ConfigUniform carries the per-draw camera toggle, padded to 16 bytes.
type ConfigUniform struct {
	ApplyCamera bool
}

func (u ConfigUniform) Bytes() []byte {
	buf := make([]byte, ConfigUniformSize)
	if u.ApplyCamera {
		binary.LittleEndian.PutUint32(buf, 1)
	}
	return buf
}

type WindowMapUniform struct {
	OrthoProj mgl32.Mat4
}

func NewWindowMapUniform(width, height float32) WindowMapUniform {
	return WindowMapUniform{OrthoProj: WindowMap(width, height)}
}

func (u *WindowMapUniform) Resize(width, height float32) {
	u.OrthoProj = WindowMap(width, height)
}

func (u WindowMapUniform) Bytes() []byte {
	return mat4Bytes(u.OrthoProj)
}

func mat4Bytes(m mgl32.Mat4) []byte {
	buf := make([]byte, 64)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
