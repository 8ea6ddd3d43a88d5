package gpu

import "github.com/gekko3d/gekko2d/spritert/rt/core"

// staticRange is a contiguous run of instances owned by one group.
type staticRange struct {
	id    core.StaticGroupID
	start uint32
	count uint32
}

// staticLayout tracks where each group lives in the static buffer. Groups are
// packed back to back in append order.
type staticLayout struct {
	ranges []staticRange
	total  uint32
}

func (l *staticLayout) append(id core.StaticGroupID, count uint32) uint32 {
	start := l.total
	l.ranges = append(l.ranges, staticRange{id: id, start: start, count: count})
	l.total += count
	return start
}

// tailMove describes the copy that closes the gap left by a removed group.
type tailMove struct {
	src, dst, count uint32
}

// removal plans the copy that closes the gap left by removing id, without
// changing the layout. The move has count 0 when nothing follows the range.
func (l *staticLayout) removal(id core.StaticGroupID) (tailMove, bool) {
	r, ok := l.lookup(id)
	if !ok {
		return tailMove{}, false
	}
	end := r.start + r.count
	return tailMove{src: end, dst: r.start, count: l.total - end}, true
}

// remove drops a group and shifts every later group down.
func (l *staticLayout) remove(id core.StaticGroupID) (tailMove, bool) {
	move, ok := l.removal(id)
	if !ok {
		return move, false
	}
	for i, r := range l.ranges {
		if r.id != id {
			continue
		}
		l.ranges = append(l.ranges[:i], l.ranges[i+1:]...)
		for j := i; j < len(l.ranges); j++ {
			l.ranges[j].start -= r.count
		}
		l.total -= r.count
		break
	}
	return move, true
}

func (l *staticLayout) lookup(id core.StaticGroupID) (staticRange, bool) {
	for _, r := range l.ranges {
		if r.id == id {
			return r, true
		}
	}
	return staticRange{}, false
}

func (l *staticLayout) clear() {
	l.ranges = l.ranges[:0]
	l.total = 0
}
