package engine

import (
	"sync/atomic"
	"unsafe"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const (
	bucketSlots = 4
	maxTTAge    = 63
)

// data word layout: score 0-15, move 16-31, depth 32-39, bound 40-41, age 42-47, key fragment 48-63
const (
	ttMoveShift     = 16
	ttDepthShift    = 32
	ttBoundShift    = 40
	ttAgeShift      = 42
	ttFragmentShift = 48
	ttAgeMask       = uint64(maxTTAge) << ttAgeShift
)

type TTEntry struct {
	Score int
	Move  Move
	Depth int
	Bound int
	Age   int
}

// transSlot holds key^data and data. A reader that sees words from two
// different writes fails the xor check and treats the slot as a miss.
type transSlot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

type transBucket [bucketSlots]transSlot

type TransTable struct {
	megabytes int
	buckets   []transBucket
	mask      uint64
}

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

func NewTransTable(megabytes int) *TransTable {
	var bucketSize = int(unsafe.Sizeof(transBucket{}))
	var size = roundPowerOfTwo(Max(1, megabytes*1024*1024/bucketSize))
	return &TransTable{
		megabytes: megabytes,
		buckets:   make([]transBucket, size),
		mask:      uint64(size - 1),
	}
}

func (tt *TransTable) Size() int {
	return tt.megabytes
}

func packEntry(hash uint64, score int, move Move, depth, bound int) uint64 {
	return uint64(uint16(int16(score))) |
		uint64(move)<<ttMoveShift |
		uint64(uint8(Clamp(depth, 0, 255)))<<ttDepthShift |
		uint64(bound&boundExact)<<ttBoundShift |
		(hash>>ttFragmentShift)<<ttFragmentShift
}

func unpackEntry(data uint64) TTEntry {
	return TTEntry{
		Score: int(int16(uint16(data))),
		Move:  Move(data >> ttMoveShift),
		Depth: int(uint8(data >> ttDepthShift)),
		Bound: int(data>>ttBoundShift) & boundExact,
		Age:   int(data>>ttAgeShift) & maxTTAge,
	}
}

// Get looks the position up. collision reports a slot whose key fragment
// matched but whose checksum did not, which callers must treat as a miss.
func (tt *TransTable) Get(hash uint64, height int) (entry TTEntry, found, collision bool) {
	var bucket = &tt.buckets[hash&tt.mask]
	for i := range bucket {
		var slot = &bucket[i]
		var data = slot.data.Load()
		if data == 0 || data>>ttFragmentShift != hash>>ttFragmentShift {
			continue
		}
		if slot.key.Load()^data != hash {
			collision = true
			continue
		}
		entry = unpackEntry(data)
		entry.Score = valueFromTT(entry.Score, height)
		return entry, true, false
	}
	return TTEntry{}, false, collision
}

func (tt *TransTable) Add(hash uint64, score int, move Move, depth, height, bound int) {
	var bucket = &tt.buckets[hash&tt.mask]
	var target = -1
	var empty = -1
	var smallest = -1
	var smallestDepth, smallestAge int
	for i := range bucket {
		var slot = &bucket[i]
		var data = slot.data.Load()
		if data == 0 {
			if empty == -1 {
				empty = i
			}
			continue
		}
		if slot.key.Load()^data == hash {
			target = i
			break
		}
		var e = unpackEntry(data)
		if smallest == -1 || e.Depth < smallestDepth ||
			e.Depth == smallestDepth && e.Age > smallestAge {
			smallest = i
			smallestDepth = e.Depth
			smallestAge = e.Age
		}
	}
	if target == -1 {
		target = empty
	}
	if target == -1 {
		target = smallest
	}
	var data = packEntry(hash, valueToTT(score, height), move, depth, bound)
	var slot = &bucket[target]
	slot.key.Store(hash ^ data)
	slot.data.Store(data)
}

// AgeEntries increments the age of every entry and purges the ones that
// reached the maximal age. It must not run concurrently with a search.
func (tt *TransTable) AgeEntries() {
	for i := range tt.buckets {
		var bucket = &tt.buckets[i]
		for j := range bucket {
			var slot = &bucket[j]
			var data = slot.data.Load()
			if data == 0 {
				continue
			}
			var age = int(data>>ttAgeShift) & maxTTAge
			if age+1 >= maxTTAge {
				slot.key.Store(0)
				slot.data.Store(0)
				continue
			}
			var hash = slot.key.Load() ^ data
			data = data&^ttAgeMask | uint64(age+1)<<ttAgeShift
			slot.key.Store(hash ^ data)
			slot.data.Store(data)
		}
	}
}

func (tt *TransTable) Clear() {
	for i := range tt.buckets {
		var bucket = &tt.buckets[i]
		for j := range bucket {
			bucket[j].key.Store(0)
			bucket[j].data.Store(0)
		}
	}
}

// FillPermille samples the first thousand slots.
func (tt *TransTable) FillPermille() int {
	const sample = 1000
	var used, total int
	for i := 0; i < len(tt.buckets) && total < sample; i++ {
		var bucket = &tt.buckets[i]
		for j := range bucket {
			if bucket[j].data.Load() != 0 {
				used++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return used * 1000 / total
}

// PV follows hash moves from the current position. Moves are verified with
// IsLegal and king safety, and a repeated position ends the line.
func (tt *TransTable) PV(b *Board, first Move, maxLength int) []Move {
	var result []Move
	var seen = map[uint64]bool{b.Hash: true}
	var m = first
	for len(result) < maxLength {
		if m == MoveEmpty || !b.IsLegal(m) {
			break
		}
		b.MakeMove(m)
		if !b.IsLegalAfterMake() || seen[b.Hash] {
			b.UndoMove(m)
			break
		}
		seen[b.Hash] = true
		result = append(result, m)
		var entry, found, _ = tt.Get(b.Hash, 0)
		if !found {
			break
		}
		m = entry.Move
	}
	for i := len(result) - 1; i >= 0; i-- {
		b.UndoMove(result[i])
	}
	return result
}
