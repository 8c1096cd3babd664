package common

// IsLegal reports whether m could have been generated in this position.
// It is used for moves taken from caches; king safety is checked after make.
func (b *Board) IsLegal(m Move) bool {
	if m == MoveEmpty {
		return false
	}
	var from, to, flag = m.From(), m.To(), m.Flag()
	var us = b.SideToMove
	var them = us ^ 1
	var fromMask, toMask = SquareMask(from), SquareMask(to)
	if b.Occupancy[us]&fromMask == 0 || b.Occupancy[us]&toMask != 0 {
		return false
	}
	var piece = b.Squares[from]
	var allPieces = b.AllPieces()
	var enemy = b.Occupancy[them] &^ b.Pieces[them][King]
	var lastRank = RankMask[RelativeRank(us, SquareA8)]

	switch flag {
	case FlagQuiet:
		if allPieces&toMask != 0 {
			return false
		}
		if piece == Pawn {
			return to == from+pawnPushDelta(us) && toMask&lastRank == 0
		}
		return b.attacksFrom(piece, from, allPieces)&toMask != 0
	case FlagDoublePush:
		var push = pawnPushDelta(us)
		return piece == Pawn &&
			RelativeRank(us, from) == Rank2 &&
			to == from+2*push &&
			allPieces&(toMask|SquareMask(from+push)) == 0
	case FlagShortCastling, FlagLongCastling:
		if piece != King {
			return false
		}
		for _, c := range b.castlingCandidates() {
			if c == m {
				return true
			}
		}
		return false
	case FlagCapture:
		if enemy&toMask == 0 {
			return false
		}
		if piece == Pawn {
			return b.tables.PawnAttacks[us][from]&toMask != 0 && toMask&lastRank == 0
		}
		return b.attacksFrom(piece, from, allPieces)&toMask != 0
	case FlagEnPassant:
		return piece == Pawn && to == b.EpSquare &&
			b.tables.PawnAttacks[us][from]&toMask != 0
	case FlagKnightPromotion, FlagBishopPromotion, FlagRookPromotion, FlagQueenPromotion:
		return piece == Pawn && toMask&lastRank != 0 &&
			to == from+pawnPushDelta(us) && allPieces&toMask == 0
	case FlagKnightPromotionCapture, FlagBishopPromotionCapture, FlagRookPromotionCapture, FlagQueenPromotionCapture:
		return piece == Pawn && toMask&lastRank != 0 && enemy&toMask != 0 &&
			b.tables.PawnAttacks[us][from]&toMask != 0
	}
	return false
}

func (b *Board) castlingCandidates() []Move {
	var buffer [2]Move
	var result = buffer[:0]
	if b.SideToMove == SideWhite {
		if b.canCastle(WhiteKingSide, f1g1Mask, SquareH1, SquareE1, SquareF1, SquareG1) {
			result = append(result, NewMove(SquareE1, SquareG1, FlagShortCastling))
		}
		if b.canCastle(WhiteQueenSide, b1d1Mask, SquareA1, SquareE1, SquareD1, SquareC1) {
			result = append(result, NewMove(SquareE1, SquareC1, FlagLongCastling))
		}
	} else {
		if b.canCastle(BlackKingSide, f8g8Mask, SquareH8, SquareE8, SquareF8, SquareG8) {
			result = append(result, NewMove(SquareE8, SquareG8, FlagShortCastling))
		}
		if b.canCastle(BlackQueenSide, b8d8Mask, SquareA8, SquareE8, SquareD8, SquareC8) {
			result = append(result, NewMove(SquareE8, SquareC8, FlagLongCastling))
		}
	}
	return result
}
