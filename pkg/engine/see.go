package engine

import (
	"math/bits"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

// Exchange sets are byte masks over attacker slots:
// pawn (bit 0), three minors (1-3), two rooks (4-5), queen (6), king (7).
const (
	seeSlotPawn  = 0
	seeSlotMinor = 1
	seeSlotRook  = 4
	seeSlotQueen = 6
	seeSlotKing  = 7
)

var seeSlotOfPiece = [PIECE_NB]int{
	Pawn:   seeSlotPawn,
	Knight: seeSlotMinor,
	Bishop: seeSlotMinor,
	Rook:   seeSlotRook,
	Queen:  seeSlotQueen,
	King:   seeSlotKing,
}

var seeSlotValue = [8]int{
	PieceValue[Pawn],
	PieceValue[Bishop], PieceValue[Bishop], PieceValue[Bishop],
	PieceValue[Rook], PieceValue[Rook],
	PieceValue[Queen],
	PieceValue[King],
}

// SEETable holds precomputed exchange results indexed by
// [target piece][side to capture][other side].
type SEETable struct {
	table [PIECE_NB][256][256]int16
}

func NewSEETable() *SEETable {
	var result = &SEETable{}
	for piece := Pawn; piece <= King; piece++ {
		for attackers := 0; attackers < 256; attackers++ {
			for defenders := 0; defenders < 256; defenders++ {
				result.table[piece][attackers][defenders] = int16(
					evaluateExchange(seeSlotOfPiece[piece], attackers, defenders))
			}
		}
	}
	return result
}

// evaluateExchange is the gain of the side owning attackers capturing a
// piece in targetSlot, when either side may stop at any time.
func evaluateExchange(targetSlot, attackers, defenders int) int {
	if attackers == 0 {
		return 0
	}
	var attackerSlot = bits.TrailingZeros(uint(attackers))
	var remaining = attackers &^ (1 << attackerSlot)
	return Max(0, seeSlotValue[targetSlot]-evaluateExchange(attackerSlot, defenders, remaining))
}

// Get returns the signed material outcome of attackingPiece capturing target.
func (s *SEETable) Get(attackingPiece, target, attackers, defenders int) int {
	var updatedAttackers = attackers &^ (1 << seeSlotOfPiece[attackingPiece])
	var reply = int(s.table[attackingPiece][defenders][updatedAttackers])
	return seeSlotValue[seeSlotOfPiece[target]] - reply
}

// seeAttackers builds the exchange set of side's pieces attacking sq.
// Sliders see through friendly sliders of the same kind.
func seeAttackers(b *Board, side, sq int) int {
	var t = b.Tables()
	var own = &b.Pieces[side]
	var occ = b.AllPieces()
	var result = 0

	if t.KingAttacks[sq]&own[King] != 0 {
		result |= 1 << seeSlotKing
	}

	var rookAttacks = t.RookAttacks(sq, occ&^(own[Rook]|own[Queen]))
	switch PopCount(rookAttacks & own[Rook]) {
	case 0:
	case 1:
		result |= 1 << seeSlotRook
	default:
		result |= 3 << seeSlotRook
	}
	if rookAttacks&own[Queen] != 0 {
		result |= 1 << seeSlotQueen
	}

	var bishopAttacks = t.BishopAttacks(sq, occ&^(own[Bishop]|own[Queen]))
	var minors = PopCount(t.KnightAttacks[sq]&own[Knight]) + PopCount(bishopAttacks&own[Bishop])
	switch minors {
	case 0:
	case 1:
		result |= 1 << seeSlotMinor
	case 2:
		result |= 3 << seeSlotMinor
	default:
		result |= 7 << seeSlotMinor
	}
	if bishopAttacks&own[Queen] != 0 {
		result |= 1 << seeSlotQueen
	}

	if t.PawnAttacks[side^1][sq]&own[Pawn] != 0 {
		result |= 1 << seeSlotPawn
	}
	return result
}

// seeCache memoizes exchange sets per square while scoring one move list.
type seeCache struct {
	attackers [64]int
	defenders [64]int
	filled    uint64
}

func (c *seeCache) get(b *Board, sq int) (attackers, defenders int) {
	if c.filled&SquareMask(sq) == 0 {
		c.attackers[sq] = seeAttackers(b, b.SideToMove, sq)
		c.defenders[sq] = seeAttackers(b, b.SideToMove^1, sq)
		c.filled |= SquareMask(sq)
	}
	return c.attackers[sq], c.defenders[sq]
}

// seeMove evaluates a capture in the current position.
func (s *SEETable) seeMove(b *Board, cache *seeCache, m Move) int {
	var attackers, defenders = cache.get(b, m.To())
	return s.Get(b.PieceAt(m.From()), b.PieceAt(m.To()), attackers, defenders)
}
