package engine

import (
	"github.com/pkg/errors"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

func (t *thread) aspirationWindow(depth, prevScore int) int {
	var p = &t.engine.Options.Params
	if depth < p.AspirationMinDepth || t.engine.Options.MultiPV {
		return t.searchRoot(MinAlpha, MaxBeta, depth)
	}
	var delta = p.AspirationDelta
	var alpha = Max(MinAlpha, prevScore-delta)
	var beta = Min(MaxBeta, prevScore+delta)
	for {
		var score = t.searchRoot(alpha, beta, depth)
		if !isValidScore(score) {
			return score
		}
		if score <= alpha {
			alpha = Max(MinAlpha, alpha-delta)
		} else if score >= beta {
			beta = Min(MaxBeta, beta+delta)
		} else {
			return score
		}
		delta *= 2
		if delta >= p.AspirationMaxWidth {
			alpha = MinAlpha
			beta = MaxBeta
		}
	}
}

func (t *thread) searchRoot(alpha, beta, depth int) int {
	t.lines = t.lines[:0]
	return t.alphaBeta(alpha, beta, depth, 0, true, MoveEmpty)
}

// alphaBeta is a fail-soft principal variation search. InvalidScore means
// the search was aborted and the result must be discarded.
func (t *thread) alphaBeta(alpha, beta, depth, height int, allowNullMove bool, prevMove Move) int {
	if alpha >= beta {
		panic(errors.Errorf("search invoked with alpha %d >= beta %d in %s", alpha, beta, t.board.FEN()))
	}
	if !t.incNodes() {
		return InvalidScore
	}
	t.stats.Nodes++
	t.stack[height].pv.clear()

	var e = t.engine
	var p = &e.Options.Params
	var b = t.board
	var rootNode = height == 0
	var pvNode = beta != alpha+1
	t.stats.MaxPly = Max(t.stats.MaxPly, height)

	var repetitionThreshold = 2
	if rootNode {
		repetitionThreshold = 3
	}
	if b.IsRepetitionDraw(repetitionThreshold) || b.IsFiftyMoveDraw() || b.IsInsufficientMaterial() {
		t.stats.Leafs++
		return valueDraw
	}
	if height >= maxHeight {
		t.stats.Leafs++
		return t.evaluator.Evaluate(b)
	}

	if !rootNode && e.tablebaseEnabled() && depth >= e.Options.TablebaseProbeDepth &&
		PopCount(b.AllPieces()) <= e.Options.TablebaseProbeLimit {
		if wdl, ok := e.Tablebase.ProbeWDL(b); ok {
			t.stats.TBHits++
			return tablebaseScore(wdl, height)
		}
	}

	var inCheck = b.IsCheck()
	if inCheck {
		depth += p.CheckExtension
	}
	if depth <= 0 {
		t.stats.Leafs++
		return t.quiescence(alpha, beta, height)
	}

	var originalAlpha = alpha
	var deeperEntry = false
	var hashMove = MoveEmpty
	var entry, found, collision = e.transTable.Get(b.Hash, height)
	if collision {
		t.stats.TTCollisions++
	}
	if found {
		t.stats.TTHits++
		if entry.Move != MoveEmpty && b.IsLegal(entry.Move) {
			hashMove = entry.Move
		}
		if !rootNode {
			if entry.Depth >= depth {
				deeperEntry = true
				if !pvNode && ttCutoff(entry, alpha, beta) {
					t.stats.Leafs++
					return entry.Score
				}
			} else if entry.Bound&boundUpper != 0 && entry.Score < beta {
				allowNullMove = false
			}
		}
	} else {
		t.stats.TTMisses++
	}

	if !pvNode && !inCheck && depth >= p.IIRMinDepth && hashMove == MoveEmpty {
		depth -= p.IIRReduction
	}

	if !pvNode && !inCheck {
		var staticEval = t.evaluator.Evaluate(b)

		if depth >= p.RazoringMinDepth && depth <= p.RazoringMaxDepth && !isMateScore(alpha) {
			var margin = p.RazoringMargin + (depth-1)*p.RazoringMarginPerDepth
			if staticEval+margin <= alpha {
				var score = t.quiescence(alpha, beta, height)
				if !isValidScore(score) {
					return InvalidScore
				}
				if score <= alpha {
					t.stats.RazoringAccepted++
					return score
				}
				t.stats.RazoringRejected++
			}
		}

		if depth >= p.SNMPMinDepth && depth <= p.SNMPMaxDepth && !isMateScore(beta) {
			var margin = p.SNMPMargin + (depth-1)*p.SNMPMarginPerDepth
			if staticEval-margin >= beta {
				t.stats.SNMPAccepted++
				return staticEval - margin
			}
			t.stats.SNMPRejected++
		}

		if allowNullMove && depth >= p.NullMoveMinDepth && b.GamePhase() > p.NullMoveMinPhase &&
			!isMateScore(beta) && staticEval+p.NullMoveMargin >= beta {
			var r = p.NullMoveBaseR + depth/p.NullMoveDepthDivider
			b.MakeNullMove()
			var score = -t.alphaBeta(-beta, -beta+1, depth-r-1, height+1, false, MoveEmpty)
			b.UndoNullMove()
			if !isValidScore(score) {
				return InvalidScore
			}
			if score >= beta {
				t.stats.NMPAccepted++
				if score >= valueWin {
					score = beta
				}
				return score
			}
			t.stats.NMPRejected++
		}
	}

	var mp = &t.stack[height].picker
	if !rootNode {
		mp.init(e, b, t.stack[height].moves[:], height, hashMove, prevMove, inCheck)
	}

	var bestScore = -CheckmateScore
	var bestMove = MoveEmpty
	var moveNumber = 0
	var legalMoves = 0
	var quietsSearched = t.stack[height].quietsSearched[:0]

	for rootIndex := 0; ; rootIndex++ {
		var om OrderedMove
		if rootNode {
			if rootIndex >= len(t.rootMoves) {
				break
			}
			om = t.rootMoves[rootIndex]
		} else {
			var ok bool
			if om, ok = mp.next(); !ok {
				break
			}
		}
		var move = om.Move

		b.MakeMove(move)
		if !b.IsLegalAfterMake() {
			b.UndoMove(move)
			continue
		}
		legalMoves++
		var givesCheck = b.IsCheck()

		if !pvNode && !inCheck && !givesCheck && depth >= p.LMPMinDepth && depth <= p.LMPMaxDepth &&
			moveNumber >= p.LMPBase+(depth-1)*p.LMPPerDepth && int(om.Key) <= p.LMPMaxScore {
			b.UndoMove(move)
			t.stats.LMPAccepted++
			continue
		}

		var r = 0
		if depth >= p.LMRMinDepth && moveNumber >= p.LMRMinIndex && int(om.Key) <= p.LMRMaxScore &&
			move.IsQuiet() && !inCheck && !givesCheck {
			r = e.Options.Lmr(pvNode, moveNumber)
			t.stats.LMRReductions++
		}

		var score int
		if pvNode {
			if moveNumber == 0 || rootNode && e.Options.MultiPV {
				score = -t.alphaBeta(-beta, -alpha, depth-1, height+1, true, move)
			} else {
				score = -t.alphaBeta(-alpha-1, -alpha, depth-r-1, height+1, true, move)
				if score > alpha && (alpha != beta-1 || r > 0) && isValidScore(score) {
					t.stats.PVSResearches++
					score = -t.alphaBeta(-beta, -alpha, depth-1, height+1, true, move)
				}
			}
		} else {
			score = -t.alphaBeta(-beta, -alpha, depth-r-1, height+1, true, move)
			if score > alpha && r > 0 && isValidScore(score) {
				t.stats.PVSResearches++
				score = -t.alphaBeta(-beta, -alpha, depth-1, height+1, true, move)
			}
		}
		b.UndoMove(move)

		if !isValidScore(score) {
			return InvalidScore
		}
		if move.IsQuiet() {
			quietsSearched = append(quietsSearched, move)
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
			if score > alpha {
				alpha = score
				t.stack[height].pv.assign(move, &t.stack[height+1].pv)
			}
			if alpha >= beta {
				t.stats.BetaCutoffs++
				if moveNumber == 0 {
					t.stats.PerfectCutoffs++
				} else {
					t.stats.NonPerfectCutoffs++
				}
				if move.IsQuiet() {
					t.updateQuietHeuristics(quietsSearched, move, prevMove, depth, height)
				}
				break
			}
		}

		if rootNode && e.Options.MultiPV {
			t.lines = append(t.lines, t.rootLine(score, move, &t.stack[height+1].pv))
			alpha = originalAlpha
			bestScore = -CheckmateScore
		}
		moveNumber++
	}

	if legalMoves == 0 {
		t.stats.Leafs++
		if inCheck {
			return lossIn(height)
		}
		return valueDraw
	}

	var bound = boundExact
	if bestScore <= originalAlpha {
		bound = boundUpper
	} else if bestScore >= beta {
		bound = boundLower
	}
	if (!deeperEntry || bound != boundUpper) && (!rootNode || !e.Options.MultiPV) {
		e.transTable.Add(b.Hash, bestScore, bestMove, depth, height, bound)
		t.stats.TTAdded++
	}

	if rootNode && !e.Options.MultiPV {
		t.lines = append(t.lines[:0], t.rootLine(bestScore, bestMove, nil))
	}

	return bestScore
}

func (t *thread) updateQuietHeuristics(quietsSearched []Move, move, prevMove Move, depth, height int) {
	var e = t.engine
	e.killers.Add(height, move)
	e.history.Add(move.From(), move.To(), depth)
	e.countermoves.Add(prevMove, move)
	for _, m := range quietsSearched {
		if m != move {
			e.history.Punish(m.From(), m.To(), depth)
		}
	}
}

// ttCutoff reports whether a stored result settles the node for this window.
func ttCutoff(entry TTEntry, alpha, beta int) bool {
	switch entry.Bound {
	case boundExact:
		return true
	case boundLower:
		return entry.Score >= beta
	case boundUpper:
		return entry.Score <= alpha
	}
	return false
}

// rootLine prefers the triangular PV and falls back to hash moves when
// transposition cutoffs truncated it.
func (t *thread) rootLine(score int, move Move, child *pv) searchLine {
	var moves []Move
	if t.stack[0].pv.size > 0 && t.stack[0].pv.items[0] == move {
		moves = t.stack[0].pv.toSlice()
	} else {
		moves = []Move{move}
		if child != nil {
			moves = append(moves, child.items[:child.size]...)
		}
	}
	if len(moves) <= 2 {
		var fromTT = t.engine.transTable.PV(t.board, move, MaxDepth)
		if len(fromTT) > len(moves) {
			moves = fromTT
		}
	}
	return searchLine{score: score, moves: moves}
}

func (t *thread) quiescence(alpha, beta, height int) int {
	if !t.incNodes() {
		return InvalidScore
	}
	t.stats.QNodes++
	t.stack[height].pv.clear()
	t.stats.MaxPly = Max(t.stats.MaxPly, height)

	var b = t.board
	var p = &t.engine.Options.Params
	if height >= maxHeight {
		t.stats.QLeafs++
		return t.evaluator.Evaluate(b)
	}

	var standPat = t.evaluator.Evaluate(b)
	if standPat >= beta {
		t.stats.QLeafs++
		return standPat
	}
	var bestScore = standPat
	alpha = Max(alpha, standPat)

	var qp = &t.stack[height].qpicker
	qp.init(t.engine, b, t.stack[height].moves[:])
	for {
		var om, ok = qp.next()
		if !ok {
			break
		}
		var key = int(om.Key)
		if key < p.QSScorePruningThreshold || standPat+key+p.QSFutilityMargin < alpha {
			break
		}
		var move = om.Move
		b.MakeMove(move)
		if !b.IsLegalAfterMake() {
			b.UndoMove(move)
			continue
		}
		var score = -t.quiescence(-beta, -alpha, height+1)
		b.UndoMove(move)
		if !isValidScore(score) {
			return InvalidScore
		}
		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				t.stack[height].pv.assign(move, &t.stack[height+1].pv)
				if alpha >= beta {
					t.stats.QBetaCutoffs++
					break
				}
			}
		}
	}
	return bestScore
}

// incNodes polls the stop conditions every few nodes. It reports whether
// the search may continue.
func (t *thread) incNodes() bool {
	t.unpolledNodes++
	if t.unpolledNodes >= pollInterval {
		t.search.poll(t.unpolledNodes)
		t.unpolledNodes = 0
	}
	return !t.aborted()
}

func (t *thread) aborted() bool {
	return t.search.abort.Load() || (t.index != 0 && t.search.depthDone.Load())
}
