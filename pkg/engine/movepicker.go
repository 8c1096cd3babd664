package engine

import (
	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

const (
	sortHashMove          = 10000
	sortWinningCaptures   = 100
	sortKiller1           = 99
	sortKiller2           = 98
	sortCountermove       = 97
	sortRookPromotion     = 94
	sortBishopPromotion   = 93
	sortKnightPromotion   = 92
	sortCastling          = 91
	sortHistoryRange      = 180
	sortHistoryOffset     = -90
	sortLosingCaptures    = -100
	sortQueenPromotionSEE = 800
)

var sortUnderPromotion = [PIECE_NB]int32{
	Knight: sortKnightPromotion,
	Bishop: sortBishopPromotion,
	Rook:   sortRookPromotion,
}

type pickerStage int

const (
	stageHashMove pickerStage = iota
	stageGenerateCaptures
	stageCaptures
	stageGenerateKillers
	stageKillers
	stageGenerateCountermove
	stageCountermove
	stageGenerateQuiets
	stageRemaining
	stageDone
)

// movePicker yields moves in stages so that cutoffs usually happen before
// quiet moves are generated. The buffer is selection-sorted lazily.
type movePicker struct {
	board       *Board
	engine      *Engine
	buffer      []OrderedMove
	count       int
	index       int
	stage       pickerStage
	height      int
	hashMove    Move
	prevMove    Move
	killers     [2]Move
	countermove Move
	evasionMask uint64
	see         seeCache
}

func (mp *movePicker) init(e *Engine, b *Board, buffer []OrderedMove,
	height int, hashMove, prevMove Move, inCheck bool) {
	*mp = movePicker{
		board:       b,
		engine:      e,
		buffer:      buffer,
		height:      height,
		hashMove:    hashMove,
		prevMove:    prevMove,
		evasionMask: ^uint64(0),
	}
	if inCheck {
		mp.evasionMask = b.EvasionMask()
	}
}

// next returns the next move with its ordering score.
func (mp *movePicker) next() (OrderedMove, bool) {
	for {
		switch mp.stage {
		case stageHashMove:
			mp.stage = stageGenerateCaptures
			if mp.hashMove != MoveEmpty {
				return OrderedMove{Move: mp.hashMove, Key: sortHashMove}, true
			}
		case stageGenerateCaptures:
			mp.count = len(mp.board.GenerateCaptures(mp.buffer, mp.evasionMask))
			mp.index = 0
			mp.scoreCaptures(0, mp.count)
			mp.stage = stageCaptures
		case stageCaptures:
			if mp.index >= mp.count {
				mp.stage = stageGenerateKillers
				continue
			}
			var om = pickNext(mp.buffer[:mp.count], mp.index)
			if om.Move == mp.hashMove {
				mp.index++
				continue
			}
			if om.Key < sortWinningCaptures {
				mp.stage = stageGenerateKillers
				continue
			}
			mp.index++
			return om, true
		case stageGenerateKillers:
			mp.killers = mp.engine.killers.Get(mp.height)
			for i, killer := range mp.killers {
				if i == 1 && killer == mp.killers[0] {
					break
				}
				if mp.isCandidate(killer) {
					mp.push(killer, sortKiller1-int32(i))
				}
			}
			mp.stage = stageKillers
		case stageKillers:
			if om, ok := mp.pickAtLeast(sortKiller2); ok {
				return om, true
			}
			mp.stage = stageGenerateCountermove
		case stageGenerateCountermove:
			var countermove = mp.engine.countermoves.Get(mp.prevMove)
			if countermove != mp.killers[0] && countermove != mp.killers[1] &&
				mp.isCandidate(countermove) {
				mp.countermove = countermove
				mp.push(countermove, sortCountermove)
			}
			mp.stage = stageCountermove
		case stageCountermove:
			if om, ok := mp.pickAtLeast(sortCountermove); ok {
				return om, true
			}
			mp.stage = stageGenerateQuiets
		case stageGenerateQuiets:
			var start = mp.count
			mp.count += len(mp.board.GenerateQuiets(mp.buffer[start:], mp.evasionMask))
			mp.scoreQuiets(start, mp.count)
			mp.stage = stageRemaining
		case stageRemaining:
			if mp.index >= mp.count {
				mp.stage = stageDone
				continue
			}
			var om = pickNext(mp.buffer[:mp.count], mp.index)
			mp.index++
			if om.Move == mp.hashMove ||
				om.Key == sortKiller1 || om.Key == sortKiller2 || om.Key == sortCountermove {
				continue
			}
			return om, true
		case stageDone:
			return OrderedMove{}, false
		}
	}
}

// isCandidate filters cached moves. King moves are not bound to the evasion mask.
func (mp *movePicker) isCandidate(m Move) bool {
	return m != MoveEmpty && m != mp.hashMove &&
		(SquareMask(m.To())&mp.evasionMask != 0 || mp.board.Squares[m.From()] == King) &&
		mp.board.IsLegal(m)
}

func (mp *movePicker) push(m Move, key int32) {
	mp.buffer[mp.count] = OrderedMove{Move: m, Key: key}
	mp.count++
}

func (mp *movePicker) pickAtLeast(key int32) (OrderedMove, bool) {
	if mp.index >= mp.count {
		return OrderedMove{}, false
	}
	var om = pickNext(mp.buffer[:mp.count], mp.index)
	if om.Key < key {
		return OrderedMove{}, false
	}
	mp.index++
	return om, true
}

func (mp *movePicker) scoreCaptures(start, end int) {
	var see = mp.engine.see
	for i := start; i < end; i++ {
		var m = mp.buffer[i].Move
		var key int
		switch {
		case m == mp.hashMove:
			key = sortHashMove
		case m.IsEnPassant():
			key = sortWinningCaptures
		case m.IsPromotion() && m.Promotion() != Queen:
			key = int(sortUnderPromotion[m.Promotion()])
		case !m.IsCapture():
			key = sortWinningCaptures + sortQueenPromotionSEE
		default:
			var value = see.seeMove(mp.board, &mp.see, m)
			if m.IsPromotion() {
				value += sortQueenPromotionSEE
			}
			if value >= 0 {
				key = value + sortWinningCaptures
			} else {
				key = value + sortLosingCaptures
			}
		}
		mp.buffer[i].Key = int32(key)
	}
}

func (mp *movePicker) scoreQuiets(start, end int) {
	var history = mp.engine.history
	var countermove = mp.countermove
	for i := start; i < end; i++ {
		var m = mp.buffer[i].Move
		var key int
		switch {
		case m == mp.hashMove:
			key = sortHashMove
		case m == mp.killers[0] && m != MoveEmpty:
			key = sortKiller1
		case m == mp.killers[1] && m != MoveEmpty:
			key = sortKiller2
		case m == countermove && m != MoveEmpty:
			key = sortCountermove
		case m.IsCastling():
			key = sortCastling
		default:
			key = history.Get(m.From(), m.To(), sortHistoryRange) + sortHistoryOffset
		}
		mp.buffer[i].Key = int32(key)
	}
}

// qsPicker orders captures and promotions for the quiescence search.
type qsPicker struct {
	board  *Board
	buffer []OrderedMove
	count  int
	index  int
	see    seeCache
}

func (qp *qsPicker) init(e *Engine, b *Board, buffer []OrderedMove) {
	*qp = qsPicker{board: b, buffer: buffer}
	qp.count = len(b.GenerateCaptures(buffer, ^uint64(0)))
	for i := 0; i < qp.count; i++ {
		var m = buffer[i].Move
		var key int
		switch {
		case m.IsEnPassant():
			key = 0
		case m.Promotion() == Queen:
			key = PieceValue[Queen]
		case m.IsPromotion():
			key = -9999
		default:
			key = e.see.seeMove(b, &qp.see, m)
		}
		buffer[i].Key = int32(key)
	}
}

func (qp *qsPicker) next() (OrderedMove, bool) {
	if qp.index >= qp.count {
		return OrderedMove{}, false
	}
	var om = pickNext(qp.buffer[:qp.count], qp.index)
	qp.index++
	return om, true
}
