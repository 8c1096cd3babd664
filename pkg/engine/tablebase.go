package engine

import (
	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

type WDL int

const (
	WDLLoss WDL = iota - 1
	WDLDraw
	WDLWin
)

func (w WDL) String() string {
	switch w {
	case WDLWin:
		return "win"
	case WDLLoss:
		return "loss"
	default:
		return "draw"
	}
}

// TablebaseOracle probes endgame tablebases. Results are from the side to
// move's point of view; ok is false when the position is not covered.
type TablebaseOracle interface {
	Probe(b *Board, pieceLimit int) (m Move, wdl WDL, ok bool)
	ProbeWDL(b *Board) (wdl WDL, ok bool)
}

func (e *Engine) tablebaseEnabled() bool {
	return e.Tablebase != nil && e.Options.TablebaseEnabled
}

func tablebaseScore(wdl WDL, height int) int {
	switch wdl {
	case WDLWin:
		return TBMateScore - height
	case WDLLoss:
		return -TBMateScore + height
	default:
		return valueDraw
	}
}
