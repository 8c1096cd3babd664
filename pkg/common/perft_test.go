package common

import (
	"testing"
)

// https://www.chessprogramming.org/Perft_Results
func TestPerft(t *testing.T) {
	var tables = NewTables()
	var tests = []struct {
		fen   string
		nodes []int
	}{
		{
			fen:   InitialPositionFen,
			nodes: []int{20, 400, 8902, 197281, 4865609, 119060324},
		},
		{
			fen:   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
			nodes: []int{48, 2039, 97862, 4085603, 193690690},
		},
		{
			fen:   "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
			nodes: []int{14, 191, 2812, 43238, 674624, 11030083},
		},
		{
			fen:   "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
			nodes: []int{6, 264, 9467, 422333, 15833292},
		},
		{
			fen:   "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
			nodes: []int{44, 1486, 62379, 2103487},
		},
		{
			fen:   "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
			nodes: []int{46, 2079, 89890, 3894594},
		},
	}
	for i, test := range tests {
		var b, err = NewBoardFromFEN(tables, test.fen)
		if err != nil {
			t.Fatal(err)
		}
		for depth, want := range test.nodes {
			if testing.Short() && want > 5_000_000 {
				continue
			}
			var nodes = perft(b, depth+1)
			if nodes != want {
				t.Error(i, test.fen, depth+1, nodes, want)
			}
		}
		if b.Ply() != 0 {
			t.Error(i, "undo stack not empty", b.Ply())
		}
	}
}

func perft(b *Board, depth int) int {
	var result = 0
	var buffer [MaxMoves]OrderedMove
	for _, om := range b.GenerateMoves(buffer[:]) {
		b.MakeMove(om.Move)
		if b.IsLegalAfterMake() {
			if depth > 1 {
				result += perft(b, depth-1)
			} else {
				result++
			}
		}
		b.UndoMove(om.Move)
	}
	return result
}

// Staged generation must produce the same set as one-shot generation.
func TestStagedGenerationCoversAllMoves(t *testing.T) {
	var tables = NewTables()
	for _, fen := range testFENs {
		var b, err = NewBoardFromFEN(tables, fen)
		if err != nil {
			t.Fatal(err)
		}
		var mask = ^uint64(0)
		if b.IsCheck() {
			mask = b.EvasionMask()
		}
		var captures [MaxMoves]OrderedMove
		var quiets [MaxMoves]OrderedMove
		var seen = make(map[Move]bool)
		for _, om := range b.GenerateCaptures(captures[:], mask) {
			if !om.Move.IsCapture() && !om.Move.IsPromotion() {
				t.Error(fen, "non-capture in captures", om.Move)
			}
			seen[om.Move] = true
		}
		for _, om := range b.GenerateQuiets(quiets[:], mask) {
			if om.Move.IsCapture() || om.Move.IsPromotion() {
				t.Error(fen, "capture in quiets", om.Move)
			}
			if seen[om.Move] {
				t.Error(fen, "duplicate", om.Move)
			}
			seen[om.Move] = true
		}
		for _, m := range b.GenerateLegalMoves() {
			if !seen[m] {
				t.Error(fen, "legal move missing from stages", m)
			}
			if !b.IsLegal(m) {
				t.Error(fen, "IsLegal rejects generated move", m)
			}
		}
	}
}

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
	"r3k3/1P6/8/8/8/8/6p1/4K2R b Kq - 0 1",
	"8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
	"4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1",
}
