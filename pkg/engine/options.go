package engine

import (
	"time"

	"github.com/zugzwang-chess/zugzwang/pkg/common"
)

// Params are the search heuristics constants. Depth bands are inclusive.
type Params struct {
	AspirationMinDepth int
	AspirationDelta    int
	AspirationMaxWidth int

	IIRMinDepth  int
	IIRReduction int

	RazoringMinDepth       int
	RazoringMaxDepth       int
	RazoringMargin         int
	RazoringMarginPerDepth int

	SNMPMinDepth       int
	SNMPMaxDepth       int
	SNMPMargin         int
	SNMPMarginPerDepth int

	NullMoveMinDepth     int
	NullMoveMinPhase     int
	NullMoveMargin       int
	NullMoveBaseR        int
	NullMoveDepthDivider int

	LMPMinDepth int
	LMPMaxDepth int
	LMPBase     int
	LMPPerDepth int
	LMPMaxScore int

	LMRMinDepth    int
	LMRMaxScore    int
	LMRMinIndex    int
	LMRBase        int
	LMRStep        int
	LMRMax         int
	LMRPVBase      int
	LMRPVStep      int
	LMRPVMax       int
	CheckExtension int

	QSScorePruningThreshold int
	QSFutilityMargin        int
}

func DefaultParams() Params {
	return Params{
		AspirationMinDepth: 5,
		AspirationDelta:    25,
		AspirationMaxWidth: 400,

		IIRMinDepth:  4,
		IIRReduction: 1,

		RazoringMinDepth:       1,
		RazoringMaxDepth:       5,
		RazoringMargin:         260,
		RazoringMarginPerDepth: 260,

		SNMPMinDepth:       1,
		SNMPMaxDepth:       8,
		SNMPMargin:         135,
		SNMPMarginPerDepth: 55,

		NullMoveMinDepth:     2,
		NullMoveMinPhase:     3,
		NullMoveMargin:       60,
		NullMoveBaseR:        2,
		NullMoveDepthDivider: 5,

		LMPMinDepth: 1,
		LMPMaxDepth: 3,
		LMPBase:     2,
		LMPPerDepth: 5,
		LMPMaxScore: -55,

		LMRMinDepth:    2,
		LMRMaxScore:    90,
		LMRMinIndex:    2,
		LMRBase:        1,
		LMRStep:        4,
		LMRMax:         3,
		LMRPVBase:      1,
		LMRPVStep:      8,
		LMRPVMax:       2,
		CheckExtension: 1,

		QSScorePruningThreshold: 0,
		QSFutilityMargin:        100,
	}
}

type Options struct {
	Hash                int
	Threads             int
	MultiPV             bool
	MoveOverhead        time.Duration
	TablebaseEnabled    bool
	TablebaseProbeLimit int
	TablebaseProbeDepth int
	Diagnostics         bool
	Params              Params
	reductions          [2][common.MaxMoves]int
}

func NewOptions() Options {
	var result = Options{
		Hash:                16,
		Threads:             1,
		MoveOverhead:        10 * time.Millisecond,
		TablebaseProbeLimit: 5,
		TablebaseProbeDepth: 2,
		Params:              DefaultParams(),
	}
	result.InitLmr()
	return result
}

// Lmr returns the late move reduction for the move at index in the move list.
func (o *Options) Lmr(pvNode bool, index int) int {
	var i = 0
	if pvNode {
		i = 1
	}
	return o.reductions[i][common.Min(index, len(o.reductions[i])-1)]
}

// InitLmr rebuilds the reduction table. Call it after changing Params.
func (o *Options) InitLmr() {
	var p = &o.Params
	for index := range o.reductions[0] {
		if index < p.LMRMinIndex {
			continue
		}
		o.reductions[0][index] = common.Min(p.LMRMax, p.LMRBase+(index-p.LMRMinIndex)/p.LMRStep)
		o.reductions[1][index] = common.Min(p.LMRPVMax, p.LMRPVBase+(index-p.LMRMinIndex)/p.LMRPVStep)
	}
}
