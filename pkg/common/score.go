package common

import "fmt"

// Score packs a middlegame and an endgame value into one word so both can be summed at once.
type Score int64

func (s Score) Mg() int {
	return int(int32((s + 1<<31) >> 32))
}

func (s Score) Eg() int {
	return int(int32(s))
}

func S(middle, end int) Score {
	return Score(middle)<<32 + Score(end)
}

func (s Score) String() string {
	return fmt.Sprintf("Score(%d, %d)", s.Mg(), s.Eg())
}

// MaxPhase is the game phase of the initial position.
const MaxPhase = 24

var PieceValue = [PIECE_NB]int{Empty: 0, Pawn: 100, Knight: 300, Bishop: 330, Rook: 500, Queen: 900, King: 10000}

var PhaseWeight = [PIECE_NB]int{Knight: 1, Bishop: 1, Rook: 2, Queen: 4}

// Taper blends s by phase, MaxPhase meaning full middlegame.
func Taper(s Score, phase int) int {
	phase = Min(phase, MaxPhase)
	return (s.Mg()*phase + s.Eg()*(MaxPhase-phase)) / MaxPhase
}

// piece-square tables from white's point of view, rank 8 first
var (
	pstPawnMg = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pstPawnEg = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		80, 80, 80, 80, 80, 80, 80, 80,
		50, 50, 50, 50, 50, 50, 50, 50,
		30, 30, 30, 30, 30, 30, 30, 30,
		15, 15, 15, 15, 15, 15, 15, 15,
		5, 5, 5, 5, 5, 5, 5, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pstKnight = [64]int{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	pstBishop = [64]int{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	pstRook = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	}
	pstQueen = [64]int{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	pstKingMg = [64]int{
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	}
	pstKingEg = [64]int{
		-50, -40, -30, -20, -20, -30, -40, -50,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-50, -30, -30, -30, -30, -30, -30, -50,
	}
)

// buildPST returns per-side tables indexed by board squares.
func buildPST() (result [COLOUR_NB][PIECE_NB][64]Score) {
	var sources = [PIECE_NB][2]*[64]int{
		Pawn:   {&pstPawnMg, &pstPawnEg},
		Knight: {&pstKnight, &pstKnight},
		Bishop: {&pstBishop, &pstBishop},
		Rook:   {&pstRook, &pstRook},
		Queen:  {&pstQueen, &pstQueen},
		King:   {&pstKingMg, &pstKingEg},
	}
	for piece := Pawn; piece <= King; piece++ {
		for i := 0; i < 64; i++ {
			var s = S(sources[piece][0][i], sources[piece][1][i])
			// i counts from a8, so the white square is its vertical mirror
			result[SideWhite][piece][FlipSquare(i)] = s
			result[SideBlack][piece][i] = s
		}
	}
	return
}
