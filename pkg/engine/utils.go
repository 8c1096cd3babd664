package engine

import (
	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

const (
	MaxDepth       = 64
	stackSize      = 128
	maxHeight      = stackSize - 1
	MinAlpha       = -32000
	MaxBeta        = 32000
	InvalidScore   = -32700
	CheckmateScore = 31900
	TBMateScore    = 10000
	valueDraw      = 0
	valueWin       = CheckmateScore - stackSize
	valueLoss      = -valueWin
)

func winIn(height int) int {
	return CheckmateScore - height
}

func lossIn(height int) int {
	return -CheckmateScore + height
}

func isMateScore(v int) bool {
	return v >= valueWin || v <= valueLoss
}

func isValidScore(v int) bool {
	return Abs(v) != Abs(InvalidScore)
}

// valueToTT makes mate scores relative to the node being stored.
func valueToTT(v, height int) int {
	if v >= valueWin {
		return v + height
	}
	if v <= valueLoss {
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	if v >= valueWin {
		return v - height
	}
	if v <= valueLoss {
		return v + height
	}
	return v
}

// newUciScore never reports a window bound as a longer mate.
func newUciScore(v int) UciScore {
	v = Clamp(v, -CheckmateScore, CheckmateScore)
	if v >= valueWin {
		return UciScore{Mate: Max(1, (CheckmateScore-v+1)/2)}
	} else if v <= valueLoss {
		return UciScore{Mate: Min(-1, -(CheckmateScore+v)/2)}
	} else {
		return UciScore{Centipawns: v}
	}
}

// mateDistance returns the distance to mate in plies, or -1 for a normal score.
func mateDistance(v int) int {
	if !isMateScore(v) {
		return -1
	}
	return CheckmateScore - Abs(v)
}

type pv struct {
	items [stackSize]Move
	size  int
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func findMoveIndex(ml []OrderedMove, move Move) int {
	for i := range ml {
		if ml[i].Move == move {
			return i
		}
	}
	return -1
}

func moveToBegin(ml []OrderedMove, index int) {
	if index <= 0 {
		return
	}
	var item = ml[index]
	for i := index; i > 0; i-- {
		ml[i] = ml[i-1]
	}
	ml[0] = item
}

// pickNext moves the best scored remaining item to index and returns it.
// Only the prefix actually consumed is ever sorted.
func pickNext(ml []OrderedMove, index int) OrderedMove {
	var best = index
	for i := index + 1; i < len(ml); i++ {
		if ml[i].Key > ml[best].Key {
			best = i
		}
	}
	if best != index {
		ml[index], ml[best] = ml[best], ml[index]
	}
	return ml[index]
}
