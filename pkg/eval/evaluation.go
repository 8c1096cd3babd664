package eval

import (
	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

const (
	pawnTableSize = 1 << 14
	scaleNormal   = 128
)

var (
	tempo          = 10
	bishopPair     = S(30, 50)
	pawnDoubled    = S(-10, -20)
	pawnIsolated   = S(-10, -15)
	pawnChained    = S(5, 8)
	pawnPassed     = [8]Score{S(0, 0), S(5, 10), S(5, 15), S(10, 25), S(25, 45), S(45, 80), S(70, 120), S(0, 0)}
	passedBlocked  = S(-5, -15)
	kingShield     = S(12, 0)
	threatByPawn   = S(-30, -20)
	rookOpenFile   = S(25, 10)
	rookHalfOpen   = S(10, 5)
	mobilityWeight = [PIECE_NB]Score{Knight: S(4, 4), Bishop: S(5, 5), Rook: S(2, 4), Queen: S(1, 2)}
	mobilityCenter = [PIECE_NB]int{Knight: 4, Bishop: 6, Rook: 7, Queen: 13}
	attackWeight   = [PIECE_NB]int{Knight: 2, Bishop: 2, Rook: 3, Queen: 5}
)

type pawnEntry struct {
	key    uint64
	score  Score
	passed uint64
}

// EvaluationService is a tapered static evaluator. It keeps a private pawn
// hash table, so every search thread needs its own instance.
type EvaluationService struct {
	pawnTable   []pawnEntry
	pawnAttacks [COLOUR_NB]uint64
	attackUnits [COLOUR_NB]int
	attackers   [COLOUR_NB]int
	pawnHits    int64
	pawnMisses  int64
}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{
		pawnTable: make([]pawnEntry, pawnTableSize),
	}
}

// Evaluate returns a score in centipawns from the side to move's point of view.
func (e *EvaluationService) Evaluate(b *Board) int {
	var material = b.Material[SideWhite] - b.Material[SideBlack]
	var score = S(material, material) + b.PST[SideWhite] - b.PST[SideBlack]

	e.pawnAttacks[SideWhite] = b.PawnAttacked(SideWhite)
	e.pawnAttacks[SideBlack] = b.PawnAttacked(SideBlack)
	e.attackUnits = [COLOUR_NB]int{}
	e.attackers = [COLOUR_NB]int{}

	var pawns = e.probePawns(b)
	score += pawns.score
	score += e.evalPassed(b, pawns.passed, SideWhite) - e.evalPassed(b, pawns.passed, SideBlack)
	score += e.evalPieces(b, SideWhite) - e.evalPieces(b, SideBlack)
	score += e.evalKing(b, SideWhite) - e.evalKing(b, SideBlack)

	var result = Taper(score, b.Phase)
	var strongSide = SideWhite
	if result < 0 {
		strongSide = SideBlack
	}
	result = result * e.scaleFactor(b, strongSide) / scaleNormal

	if b.SideToMove == SideBlack {
		result = -result
	}
	return result + tempo
}

// PawnTableStats reports hits and misses of the pawn hash table.
func (e *EvaluationService) PawnTableStats() (hits, misses int64) {
	return e.pawnHits, e.pawnMisses
}

func (e *EvaluationService) probePawns(b *Board) *pawnEntry {
	var entry = &e.pawnTable[b.PawnHash%uint64(len(e.pawnTable))]
	if entry.key == b.PawnHash && b.PawnHash != 0 {
		e.pawnHits++
		return entry
	}
	e.pawnMisses++
	entry.key = b.PawnHash
	entry.score = e.evalPawns(b, SideWhite) - e.evalPawns(b, SideBlack)
	entry.passed = passedPawns(b, SideWhite) | passedPawns(b, SideBlack)
	return entry
}

func (e *EvaluationService) evalPawns(b *Board, side int) Score {
	var score Score
	var own = b.Pieces[side][Pawn]
	var defended = e.pawnAttacks[side]
	for x := own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		if adjacentFilesMask[File(sq)]&own == 0 {
			score += pawnIsolated
		}
		if forwardFileMasks[side][sq]&own != 0 {
			score += pawnDoubled
		}
		if SquareMask(sq)&defended != 0 {
			score += pawnChained
		}
	}
	return score
}

func passedPawns(b *Board, side int) uint64 {
	var result uint64
	var enemy = b.Pieces[side^1][Pawn]
	for x := b.Pieces[side][Pawn]; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		if passedPawnMasks[side][sq]&enemy == 0 &&
			forwardFileMasks[side][sq]&b.Pieces[side][Pawn] == 0 {
			result |= SquareMask(sq)
		}
	}
	return result
}

func (e *EvaluationService) evalPassed(b *Board, passed uint64, side int) Score {
	var score Score
	var occupied = b.AllPieces()
	for x := passed & b.Pieces[side][Pawn]; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		score += pawnPassed[RelativeRank(side, sq)]
		if relativeUp(side, SquareMask(sq))&occupied != 0 {
			score += passedBlocked
		}
	}
	return score
}

func (e *EvaluationService) evalPieces(b *Board, side int) Score {
	var score Score
	var them = side ^ 1
	var t = b.Tables()
	var occupied = b.AllPieces()
	var own = b.Occupancy[side]
	var safe = ^own &^ e.pawnAttacks[them]
	var enemyKingArea = kingAreaMasks[b.KingSquare(them)]
	var ownPawns = b.Pieces[side][Pawn]
	var enemyPawns = b.Pieces[them][Pawn]

	for piece := Knight; piece <= Queen; piece++ {
		for x := b.Pieces[side][piece]; x != 0; x &= x - 1 {
			var sq = FirstOne(x)
			var attacks uint64
			switch piece {
			case Knight:
				attacks = t.KnightAttacks[sq]
			case Bishop:
				attacks = t.BishopAttacks(sq, occupied)
			case Rook:
				attacks = t.RookAttacks(sq, occupied)
				if FileMask[File(sq)]&ownPawns == 0 {
					if FileMask[File(sq)]&enemyPawns == 0 {
						score += rookOpenFile
					} else {
						score += rookHalfOpen
					}
				}
			case Queen:
				attacks = t.QueenAttacks(sq, occupied)
			}
			score += mobilityWeight[piece] * Score(PopCount(attacks&safe)-mobilityCenter[piece])
			if SquareMask(sq)&e.pawnAttacks[them] != 0 {
				score += threatByPawn
			}
			if attacks&enemyKingArea != 0 {
				e.attackers[side]++
				e.attackUnits[side] += attackWeight[piece] * PopCount(attacks&enemyKingArea)
			}
		}
	}

	if MoreThanOne(b.Pieces[side][Bishop]) {
		score += bishopPair
	}
	return score
}

// evalKing scores the shelter of side's king and the pressure against it.
// It must run after evalPieces for both sides.
func (e *EvaluationService) evalKing(b *Board, side int) Score {
	var king = b.KingSquare(side)
	var shield = PopCount(kingShieldMasks[side][king] & b.Pieces[side][Pawn])
	var score = kingShield * Score(Min(shield, 3))

	var them = side ^ 1
	if e.attackers[them] >= 2 && b.Pieces[them][Queen] != 0 {
		var units = Min(e.attackUnits[them], 50)
		score -= S(units*units/4, units)
	}
	return score
}

func (e *EvaluationService) scaleFactor(b *Board, strongSide int) int {
	var weakSide = strongSide ^ 1
	var strongPawns = PopCount(b.Pieces[strongSide][Pawn])
	var strongForce = force(b, strongSide)
	var weakForce = force(b, weakSide)

	if strongPawns == 0 {
		if strongForce <= 4 {
			return scaleNormal / 16
		}
		if strongForce-weakForce <= 4 {
			return scaleNormal / 4
		}
	}

	if b.Pieces[SideWhite][Bishop] != 0 && b.Pieces[SideBlack][Bishop] != 0 &&
		onlyOne(b.Pieces[SideWhite][Bishop]) && onlyOne(b.Pieces[SideBlack][Bishop]) &&
		onlyOne(b.PiecesOfKind(Bishop)&DarkSquares) &&
		b.PiecesOfKind(Knight)|b.PiecesOfKind(Rook)|b.PiecesOfKind(Queen) == 0 {
		return scaleNormal / 2
	}

	return scaleNormal
}

func force(b *Board, side int) int {
	return 4*PopCount(b.Pieces[side][Knight]|b.Pieces[side][Bishop]) +
		6*PopCount(b.Pieces[side][Rook]) +
		12*PopCount(b.Pieces[side][Queen])
}
