package core

import (
	"encoding/binary"
	"math"
)

// VertexSize is the stride of QuadVertex: position f32x3 + uv f32x2.
const VertexSize = 20

type QuadVertex struct {
	Position [3]float32
	UV       [2]float32
}

// UVs are inset slightly so nearest sampling never bleeds into a neighbour tile.
var quadVertices = []QuadVertex{
	{Position: [3]float32{-0.5, 0.5, 0}, UV: [2]float32{0.001, 0.001}},
	{Position: [3]float32{-0.5, -0.5, 0}, UV: [2]float32{0.001, 0.999}},
	{Position: [3]float32{0.5, -0.5, 0}, UV: [2]float32{0.999, 0.999}},
	{Position: [3]float32{0.5, 0.5, 0}, UV: [2]float32{0.999, 0.001}},
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// UnitQuad returns the shared unit quad centred on the origin, wound CCW.
func UnitQuad() ([]QuadVertex, []uint16) {
	v := make([]QuadVertex, len(quadVertices))
	copy(v, quadVertices)
	i := make([]uint16, len(quadIndices))
	copy(i, quadIndices)
	return v, i
}

func EncodeVertices(vertices []QuadVertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		b := buf[i*VertexSize:]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Position[1]))
		binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Position[2]))
		binary.LittleEndian.PutUint32(b[12:], math.Float32bits(v.UV[0]))
		binary.LittleEndian.PutUint32(b[16:], math.Float32bits(v.UV[1]))
	}
	return buf
}

func EncodeIndices(indices []uint16) []byte {
	buf := make([]byte, len(indices)*2)
	for i, v := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}
