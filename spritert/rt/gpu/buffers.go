package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

const minBufferSize = 256

func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

// growCapacity doubles current until it covers needed.
func growCapacity(current, needed uint64) uint64 {
	c := current
	if c < minBufferSize {
		c = minBufferSize
	}
	for c < needed {
		c *= 2
	}
	return align4(c)
}

// ensureBuffer makes *buf at least size bytes, replacing it when too small.
// A replaced buffer loses its contents; the return value reports that.
func ensureBuffer(device *wgpu.Device, name string, buf **wgpu.Buffer, size uint64, usage wgpu.BufferUsage) (bool, error) {
	current := *buf
	if current != nil && current.GetSize() >= size {
		return false, nil
	}

	var capacity uint64
	if current != nil {
		capacity = current.GetSize()
	}
	newBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  growCapacity(capacity, size),
		Usage: usage,
	})
	if err != nil {
		return false, err
	}
	if current != nil {
		current.Release()
	}
	*buf = newBuf
	return true, nil
}
