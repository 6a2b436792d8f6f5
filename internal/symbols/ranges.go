package symbols

import (
	"fmt"
	"sort"
)

// ScopeRange records the local scope and self context active from Start
// until the next range begins.
type ScopeRange struct {
	Start uint32
	Local *LocalScope
	Self  Self
}

// ScopeRanges is the range list of one file, strictly increasing by Start.
type ScopeRanges []ScopeRange

// At returns the range active at off, or nil for an empty list.
func (rs ScopeRanges) At(off uint32) *ScopeRange {
	i := sort.Search(len(rs), func(i int) bool { return rs[i].Start > off })
	if i == 0 {
		return nil
	}
	return &rs[i-1]
}

// Validate checks that the ranges cover [0, length) without gaps or overlaps.
func (rs ScopeRanges) Validate(length uint32) error {
	if len(rs) == 0 {
		return fmt.Errorf("no scope ranges")
	}
	if rs[0].Start != 0 {
		return fmt.Errorf("first range starts at %d", rs[0].Start)
	}
	for i := range rs {
		if rs[i].Local == nil || rs[i].Self == nil {
			return fmt.Errorf("range %d has no context", i)
		}
		if i > 0 && rs[i].Start <= rs[i-1].Start {
			return fmt.Errorf("range %d starts at %d, not after %d", i, rs[i].Start, rs[i-1].Start)
		}
		if length > 0 && rs[i].Start >= length {
			return fmt.Errorf("range %d starts at %d past end %d", i, rs[i].Start, length)
		}
	}
	return nil
}

// rangeBuilder appends ranges in traversal order. Ranges that start at the
// same offset collapse into the later one; ranges at or past the end of the
// file are dropped so the list never reaches beyond [0, length).
type rangeBuilder struct {
	length uint32
	out    ScopeRanges
}

func (b *rangeBuilder) open(start uint32, local *LocalScope, self Self) {
	if len(b.out) > 0 && start >= b.length {
		return
	}
	if n := len(b.out); n > 0 {
		last := &b.out[n-1]
		switch {
		case start < last.Start:
			return
		case start == last.Start:
			last.Local, last.Self = local, self
			b.trimRedundant()
			return
		case last.Local == local && last.Self == self:
			return
		}
	}
	b.out = append(b.out, ScopeRange{Start: start, Local: local, Self: self})
}

// trimRedundant merges the last range into the previous one when a
// collapse left two neighbours with the same context.
func (b *rangeBuilder) trimRedundant() {
	n := len(b.out)
	if n < 2 {
		return
	}
	prev, last := b.out[n-2], b.out[n-1]
	if prev.Local == last.Local && prev.Self == last.Self {
		b.out = b.out[:n-1]
	}
}
