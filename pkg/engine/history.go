package engine

import (
	"sync/atomic"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

// KillerTable keeps two quiet cutoff moves per ply. Slots are written by
// all threads without locks; a lost update only costs move ordering.
type KillerTable struct {
	table [stackSize][2]atomic.Uint32
}

func (k *KillerTable) Add(height int, m Move) {
	if height >= len(k.table) {
		return
	}
	var slots = &k.table[height]
	if Move(slots[0].Load()) == m {
		return
	}
	slots[1].Store(slots[0].Load())
	slots[0].Store(uint32(m))
}

func (k *KillerTable) Get(height int) [2]Move {
	if height >= len(k.table) {
		return [2]Move{}
	}
	var slots = &k.table[height]
	return [2]Move{Move(slots[0].Load()), Move(slots[1].Load())}
}

// Age shifts the table two plies up, as the next search starts one full move later.
func (k *KillerTable) Age() {
	for row := 2; row < len(k.table); row++ {
		for i := range k.table[row] {
			k.table[row-2][i].Store(k.table[row][i].Load())
		}
	}
	for row := len(k.table) - 2; row < len(k.table); row++ {
		for i := range k.table[row] {
			k.table[row][i].Store(0)
		}
	}
}

func (k *KillerTable) Clear() {
	for row := range k.table {
		for i := range k.table[row] {
			k.table[row][i].Store(0)
		}
	}
}

// CountermoveTable maps the previous move (from, to) to the quiet reply that refuted it.
type CountermoveTable struct {
	table [64][64]atomic.Uint32
}

func (c *CountermoveTable) Add(prev, m Move) {
	if prev == MoveEmpty {
		return
	}
	c.table[prev.From()][prev.To()].Store(uint32(m))
}

func (c *CountermoveTable) Get(prev Move) Move {
	if prev == MoveEmpty {
		return MoveEmpty
	}
	return Move(c.table[prev.From()][prev.To()].Load())
}

func (c *CountermoveTable) Clear() {
	for i := range c.table {
		for j := range c.table[i] {
			c.table[i][j].Store(0)
		}
	}
}

const historyLimit = 1 << 30

// HistoryTable accumulates depth-weighted cutoff counts per (from, to).
// Counters saturate at historyLimit.
type HistoryTable struct {
	table [64][64]atomic.Uint32
	max   atomic.Uint32
}

func (h *HistoryTable) Add(from, to, depth int) {
	var slot = &h.table[from][to]
	var v uint32
	for {
		var old = slot.Load()
		v = Min(old+uint32(depth*depth), historyLimit)
		if slot.CompareAndSwap(old, v) {
			break
		}
	}
	for {
		var max = h.max.Load()
		if v <= max || h.max.CompareAndSwap(max, v) {
			return
		}
	}
}

func (h *HistoryTable) Punish(from, to, depth int) {
	var slot = &h.table[from][to]
	var v = slot.Load()
	if v > uint32(depth) {
		slot.Store(v - uint32(depth))
	} else {
		slot.Store(0)
	}
}

// Get scales the stored value to [0, max], rounding up.
func (h *HistoryTable) Get(from, to, max int) int {
	var maxValue = uint64(h.max.Load())
	if maxValue == 0 {
		return 0
	}
	var v = uint64(h.table[from][to].Load())
	return Min(max, int((v*uint64(max)+maxValue-1)/maxValue))
}

func (h *HistoryTable) Age() {
	for i := range h.table {
		for j := range h.table[i] {
			var v = h.table[i][j].Load()
			h.table[i][j].Store((v + 15) / 16)
		}
	}
	var max = h.max.Load()
	h.max.Store((max + 15) / 16)
}

func (h *HistoryTable) Clear() {
	for i := range h.table {
		for j := range h.table[i] {
			h.table[i][j].Store(0)
		}
	}
	h.max.Store(0)
}
