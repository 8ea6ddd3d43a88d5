package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceSize is the vertex-buffer stride of one Instance:
// model (16 x f32), tex_index (u32), atlas_index (u32).
const InstanceSize = 72

// Instance is the per-quad data consumed by the vertex stage.
// TexIndex addresses a tile row-major within the atlas on layer AtlasIndex.
type Instance struct {
	Model      mgl32.Mat4
	TexIndex   uint32
	AtlasIndex uint32
}

// NewInstance places a single unit tile at (x, y).
func NewInstance(x, y float32, texIndex, atlasIndex uint32) Instance {
	return Instance{
		Model:      mgl32.Translate3D(x, y, 0),
		TexIndex:   texIndex,
		AtlasIndex: atlasIndex,
	}
}

func (in Instance) PutBytes(dst []byte) {
	_ = dst[InstanceSize-1]
	for i, v := range in.Model {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(dst[64:], in.TexIndex)
	binary.LittleEndian.PutUint32(dst[68:], in.AtlasIndex)
}

// EncodeInstances packs instances in GPU layout.
func EncodeInstances(instances []Instance) []byte {
	buf := make([]byte, len(instances)*InstanceSize)
	for i, in := range instances {
		in.PutBytes(buf[i*InstanceSize:])
	}
	return buf
}

// DecodeInstances unpacks a mapped instance buffer. The result does not alias data.
func DecodeInstances(data []byte) ([]Instance, error) {
	if len(data)%InstanceSize != 0 {
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrInstanceData)
	}
	out := make([]Instance, len(data)/InstanceSize)
	for i := range out {
		b := data[i*InstanceSize:]
		for j := 0; j < 16; j++ {
			out[i].Model[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[j*4:]))
		}
		out[i].TexIndex = binary.LittleEndian.Uint32(b[64:])
		out[i].AtlasIndex = binary.LittleEndian.Uint32(b[68:])
	}
	return out, nil
}

// Compose returns static followed by dynamic in one new slice.
// Draw order is list order, so callers sort dynamic by depth beforehand.
func Compose(static, dynamic []Instance) []Instance {
	combined := make([]Instance, 0, len(static)+len(dynamic))
	combined = append(combined, static...)
	combined = append(combined, dynamic...)
	return combined
}
