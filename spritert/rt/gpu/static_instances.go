package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

const staticUsage = wgpu.BufferUsageVertex | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// StaticInstances is the GPU-resident instance buffer for geometry that does
// not change between frames. Only the frame loop's owner mutates it, never
// while a frame is being composed.
type StaticInstances struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Buffer *wgpu.Buffer

	layout staticLayout
}

func NewStaticInstances(device *wgpu.Device, initialInstances uint32) (*StaticInstances, error) {
	s := &StaticInstances{Device: device, Queue: device.GetQueue()}
	size := uint64(initialInstances) * core.InstanceSize
	if _, err := ensureBuffer(device, "Static Instances", &s.Buffer, size, staticUsage); err != nil {
		return nil, fmt.Errorf("create static buffer: %w", err)
	}
	return s, nil
}

// Count is the number of static instances currently stored.
func (s *StaticInstances) Count() uint32 { return s.layout.total }

// ByteSize is Count in bytes.
func (s *StaticInstances) ByteSize() uint64 {
	return uint64(s.layout.total) * core.InstanceSize
}

// Append writes instances after the current tail and returns their group id.
func (s *StaticInstances) Append(instances []core.Instance) (core.StaticGroupID, error) {
	id := core.NewStaticGroupID()
	if len(instances) == 0 {
		s.layout.append(id, 0)
		return id, nil
	}

	needed := s.ByteSize() + uint64(len(instances))*core.InstanceSize
	if err := s.grow(needed); err != nil {
		return core.StaticGroupID{}, err
	}

	start := s.layout.append(id, uint32(len(instances)))
	s.Queue.WriteBuffer(s.Buffer, uint64(start)*core.InstanceSize, core.EncodeInstances(instances))
	return id, nil
}

// grow reallocates the buffer, carrying existing instances over with a GPU copy.
func (s *StaticInstances) grow(needed uint64) error {
	if s.Buffer.GetSize() >= needed {
		return nil
	}

	old := s.Buffer
	s.Buffer = nil
	size := growCapacity(old.GetSize(), needed)
	if _, err := ensureBuffer(s.Device, "Static Instances", &s.Buffer, size, staticUsage); err != nil {
		s.Buffer = old
		return fmt.Errorf("grow static buffer: %w", err)
	}

	if used := s.ByteSize(); used > 0 {
		if err := s.submitCopies(func(enc *wgpu.CommandEncoder) {
			enc.CopyBufferToBuffer(old, 0, s.Buffer, 0, used)
		}); err != nil {
			s.Buffer.Release()
			s.Buffer = old
			return err
		}
	}
	old.Release()
	return nil
}

// Remove drops a group and compacts the groups after it. Unknown ids report false.
func (s *StaticInstances) Remove(id core.StaticGroupID) (bool, error) {
	move, ok := s.layout.removal(id)
	if !ok {
		return false, nil
	}

	if move.count > 0 && move.src != move.dst {
		// a buffer cannot be both source and destination of one copy
		size := uint64(move.count) * core.InstanceSize
		var scratch *wgpu.Buffer
		if _, err := ensureBuffer(s.Device, "Static Compact Scratch", &scratch, size,
			wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst); err != nil {
			return false, fmt.Errorf("compact static buffer: %w", err)
		}
		defer scratch.Release()

		src := uint64(move.src) * core.InstanceSize
		dst := uint64(move.dst) * core.InstanceSize
		if err := s.submitCopies(func(enc *wgpu.CommandEncoder) {
			enc.CopyBufferToBuffer(s.Buffer, src, scratch, 0, size)
			enc.CopyBufferToBuffer(scratch, 0, s.Buffer, dst, size)
		}); err != nil {
			return false, err
		}
	}

	s.layout.remove(id)
	return true, nil
}

// Clear forgets every group. The buffer keeps its capacity.
func (s *StaticInstances) Clear() {
	s.layout.clear()
}

func (s *StaticInstances) submitCopies(record func(enc *wgpu.CommandEncoder)) error {
	encoder, err := s.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("static copy encoder: %w", err)
	}
	record(encoder)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("static copy finish: %w", err)
	}
	s.Queue.Submit(cmd)
	return nil
}

func (s *StaticInstances) Release() {
	if s.Buffer != nil {
		s.Buffer.Release()
		s.Buffer = nil
	}
	s.layout.clear()
}
