package common

import "lukechampine.com/frand"

// Zobrist holds the random terms xored into a position key.
type Zobrist struct {
	Piece     [COLOUR_NB][PIECE_NB][64]uint64
	Castling  [16]uint64
	EnPassant [8]uint64
	Side      uint64
}

func newZobrist(rng *frand.RNG) Zobrist {
	var z Zobrist
	for side := SideWhite; side <= SideBlack; side++ {
		for piece := Pawn; piece <= King; piece++ {
			for sq := 0; sq < 64; sq++ {
				z.Piece[side][piece][sq] = randomUint64(rng)
			}
		}
	}
	var rights [4]uint64
	for i := range rights {
		rights[i] = randomUint64(rng)
	}
	for mask := range z.Castling {
		for i := range rights {
			if mask&(1<<uint(i)) != 0 {
				z.Castling[mask] ^= rights[i]
			}
		}
	}
	for file := range z.EnPassant {
		z.EnPassant[file] = randomUint64(rng)
	}
	z.Side = randomUint64(rng)
	return z
}
