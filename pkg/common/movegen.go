package common

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << SquareB1) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << SquareB8) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

func addPromotions(ml []OrderedMove, count, from, to int, capture bool) int {
	for piece := Queen; piece >= Knight; piece-- {
		ml[count] = OrderedMove{Move: NewMove(from, to, promotionFlag(piece, capture))}
		count++
	}
	return count
}

func pawnPushDelta(side int) int {
	if side == SideWhite {
		return 8
	}
	return -8
}

// GenerateCaptures appends captures, en passant and every promotion.
// Targets of non-king moves are restricted to evasionMask.
func (b *Board) GenerateCaptures(ml []OrderedMove, evasionMask uint64) []OrderedMove {
	var count = 0
	var us = b.SideToMove
	var them = us ^ 1
	var t = b.tables
	var own = &b.Pieces[us]
	var allPieces = b.AllPieces()
	var enemies = b.Occupancy[them] &^ b.Pieces[them][King]
	var target = enemies & evasionMask
	var push = pawnPushDelta(us)
	var promotionRank = RankMask[RelativeRank(us, SquareA8)]

	for fromBB := own[Pawn]; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		var attacks = t.PawnAttacks[us][from]
		for toBB := attacks & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			if SquareMask(to)&promotionRank != 0 {
				count = addPromotions(ml, count, from, to, true)
			} else {
				ml[count] = OrderedMove{Move: NewMove(from, to, FlagCapture)}
				count++
			}
		}
		var to = from + push
		if SquareMask(to)&promotionRank != 0 &&
			SquareMask(to)&allPieces == 0 && SquareMask(to)&evasionMask != 0 {
			count = addPromotions(ml, count, from, to, false)
		}
		if b.EpSquare != SquareNone && attacks&SquareMask(b.EpSquare) != 0 {
			ml[count] = OrderedMove{Move: NewMove(from, b.EpSquare, FlagEnPassant)}
			count++
		}
	}

	for piece := Knight; piece <= Queen; piece++ {
		for fromBB := own[piece]; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			for toBB := b.attacksFrom(piece, from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
				ml[count] = OrderedMove{Move: NewMove(from, FirstOne(toBB), FlagCapture)}
				count++
			}
		}
	}

	var king = b.KingSquare(us)
	for toBB := t.KingAttacks[king] & enemies; toBB != 0; toBB &= toBB - 1 {
		ml[count] = OrderedMove{Move: NewMove(king, FirstOne(toBB), FlagCapture)}
		count++
	}

	return ml[:count]
}

// GenerateQuiets appends non-capturing, non-promoting moves including castling.
func (b *Board) GenerateQuiets(ml []OrderedMove, evasionMask uint64) []OrderedMove {
	var count = 0
	var us = b.SideToMove
	var t = b.tables
	var own = &b.Pieces[us]
	var allPieces = b.AllPieces()
	var empty = ^allPieces
	var target = empty & evasionMask
	var push = pawnPushDelta(us)
	var promotionRank = RankMask[RelativeRank(us, SquareA8)]
	var doublePushRank = RankMask[RelativeRank(us, SquareA3)]

	var single = PawnPush(own[Pawn], us) & empty &^ promotionRank
	var double = PawnPush(single&doublePushRank, us) & target
	for toBB := single & target; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml[count] = OrderedMove{Move: NewMove(to-push, to, FlagQuiet)}
		count++
	}
	for toBB := double; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml[count] = OrderedMove{Move: NewMove(to-2*push, to, FlagDoublePush)}
		count++
	}

	for piece := Knight; piece <= Queen; piece++ {
		for fromBB := own[piece]; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			for toBB := b.attacksFrom(piece, from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
				ml[count] = OrderedMove{Move: NewMove(from, FirstOne(toBB), FlagQuiet)}
				count++
			}
		}
	}

	var king = b.KingSquare(us)
	for toBB := t.KingAttacks[king] & empty; toBB != 0; toBB &= toBB - 1 {
		ml[count] = OrderedMove{Move: NewMove(king, FirstOne(toBB), FlagQuiet)}
		count++
	}

	for _, m := range b.castlingCandidates() {
		ml[count] = OrderedMove{Move: m}
		count++
	}

	return ml[:count]
}

// canCastle checks right, empty path, rook presence and that the king does not
// start on, cross or land on an attacked square.
func (b *Board) canCastle(right int, path uint64, rookSq, kingSq, crossSq, landSq int) bool {
	var us = b.SideToMove
	if b.Castling&right == 0 || b.AllPieces()&path != 0 ||
		b.Pieces[us][Rook]&SquareMask(rookSq) == 0 ||
		b.Pieces[us][King]&SquareMask(kingSq) == 0 {
		return false
	}
	var them = us ^ 1
	return !b.IsSquareAttacked(kingSq, them) &&
		!b.IsSquareAttacked(crossSq, them) &&
		!b.IsSquareAttacked(landSq, them)
}

func (b *Board) attacksFrom(piece, from int, occ uint64) uint64 {
	var t = b.tables
	switch piece {
	case Knight:
		return t.KnightAttacks[from]
	case Bishop:
		return t.BishopAttacks(from, occ)
	case Rook:
		return t.RookAttacks(from, occ)
	case Queen:
		return t.QueenAttacks(from, occ)
	case King:
		return t.KingAttacks[from]
	}
	return 0
}

// GenerateMoves appends every pseudo-legal move.
func (b *Board) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var evasionMask = ^uint64(0)
	if b.IsCheck() {
		evasionMask = b.EvasionMask()
	}
	var captures = b.GenerateCaptures(ml, evasionMask)
	var quiets = b.GenerateQuiets(ml[len(captures):], evasionMask)
	return ml[:len(captures)+len(quiets)]
}

func (b *Board) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var result []Move
	for _, om := range b.GenerateMoves(buffer[:]) {
		b.MakeMove(om.Move)
		if b.IsLegalAfterMake() {
			result = append(result, om.Move)
		}
		b.UndoMove(om.Move)
	}
	return result
}
