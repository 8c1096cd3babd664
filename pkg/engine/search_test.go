package engine

import (
	"context"
	"testing"
	"time"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
	"github.com/zugzwang-chess/zugzwang/pkg/eval"
	material "github.com/zugzwang-chess/zugzwang/pkg/eval/material"
)

// Rg7+ Ka8/Kb8 Rh8#
const (
	mateInTwoFEN  = "8/k7/7R/6RP/8/8/8/2K5 w - - 0 1"
	matedInOneFEN = "8/k5R1/7R/7P/8/8/8/2K5 b - - 0 1"
)

var testPositions = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1",
}

func newMaterialEngine() *Engine {
	var e = NewEngine(func() interface{} { return material.NewEvaluationService() })
	e.Options.Hash = 1
	return e
}

func newClassicEngine() *Engine {
	var e = NewEngine(func() interface{} { return eval.NewEvaluationService() })
	e.Options.Hash = 4
	return e
}

func mustBoard(t *testing.T, tables *Tables, fen string) *Board {
	t.Helper()
	var b, err = NewBoardFromFEN(tables, fen)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func search(t *testing.T, e *Engine, b *Board, limits LimitsType) SearchInfo {
	t.Helper()
	var ctx, cancel = context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return e.Search(ctx, SearchParams{Board: b, Limits: limits})
}

func isMate(b *Board) bool {
	return b.IsCheck() && len(b.GenerateLegalMoves()) == 0
}

func TestMateInTwo(t *testing.T) {
	var tables = NewTables()
	for _, depth := range []int{4, 5} {
		var b = mustBoard(t, tables, mateInTwoFEN)
		var si = search(t, newMaterialEngine(), b, LimitsType{Depth: depth})
		if si.Score.Mate != 2 {
			t.Fatal(depth, "want mate in 2", si.Score)
		}
		if len(si.MainLine) < 3 {
			t.Fatal(depth, "short pv", si.MainLine)
		}
		for _, m := range si.MainLine[:3] {
			if !b.IsLegal(m) {
				t.Fatal(depth, "illegal pv move", m)
			}
			b.MakeMove(m)
		}
		if !isMate(b) {
			t.Error(depth, "pv does not mate", si.MainLine)
		}
	}
}

func TestShallowMateStopsIteration(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, mateInTwoFEN)
	var si = search(t, newMaterialEngine(), b, LimitsType{})
	if si.Score.Mate != 2 {
		t.Error("want mate in 2", si.Score)
	}
	if si.Depth >= MaxDepth || si.Depth < 3 {
		t.Error("depth", si.Depth)
	}
}

func TestMatedInOne(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, matedInOneFEN)
	var si = search(t, newMaterialEngine(), b, LimitsType{Depth: 4})
	if si.Score.Mate != -1 {
		t.Error("want mated in 1", si.Score)
	}
}

func TestTerminalRoot(t *testing.T) {
	var tables = NewTables()
	var tests = []struct {
		fen  string
		mate bool
	}{
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false},
		{"7k/6Q1/6K1/8/8/8/8/8 b - - 0 1", true},
	}
	for _, test := range tests {
		var b = mustBoard(t, tables, test.fen)
		if isMate(b) != test.mate {
			t.Fatal(test.fen, "bad test position")
		}
		var si = search(t, newMaterialEngine(), b, LimitsType{Depth: 3})
		if len(si.MainLine) != 0 || si.Depth != 0 || si.Score.Centipawns != 0 {
			t.Error(test.fen, si.MainLine, si.Depth, si.Score)
		}
	}
}

func TestSingleReplyStopsAfterDepthOne(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, "1r5k/8/8/8/8/8/8/K6r w - - 0 1")
	var si = search(t, newMaterialEngine(), b, LimitsType{})
	if si.Depth != 1 || len(si.MainLine) == 0 || si.MainLine[0].String() != "a1a2" {
		t.Error(si.Depth, si.MainLine)
	}
}

// searchRootScore runs one root search on a fresh engine, either with the
// full window or through the aspiration driver centered on prevScore.
func searchRootScore(t *testing.T, fen string, depth int, aspiration bool, prevScore int) int {
	var b = mustBoard(t, NewTables(), fen)
	var e = newMaterialEngine()
	var d = e.NewDriver(SearchParams{Board: b, Limits: LimitsType{Depth: depth}})
	defer d.Close()
	var main = &e.threads[0]
	var score int
	if aspiration {
		score = main.aspirationWindow(depth, prevScore)
	} else {
		score = main.searchRoot(MinAlpha, MaxBeta, depth)
	}
	if !isValidScore(score) {
		t.Fatal(fen, depth, "search aborted")
	}
	return score
}

func TestAspirationWindowMatchesFullWindow(t *testing.T) {
	const depth = 5
	var fens = append([]string{mateInTwoFEN, matedInOneFEN, "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1"},
		testPositions...)
	for _, fen := range fens {
		var full = searchRootScore(t, fen, depth, false, 0)
		var windowed = searchRootScore(t, fen, depth, true, full)
		if full != windowed {
			t.Error(fen, full, windowed)
		}
	}
}

func TestFullWindowFindsMateInTwo(t *testing.T) {
	for _, depth := range []int{4, 5, 6} {
		if score := searchRootScore(t, mateInTwoFEN, depth, false, 0); score != winIn(3) {
			t.Error("full window", depth, score)
		}
		if score := searchRootScore(t, mateInTwoFEN, depth, true, 0); score != winIn(3) {
			t.Error("aspiration from a wrong guess", depth, score)
		}
	}
}

func TestMovePickerYieldsEveryMoveOnce(t *testing.T) {
	var tables = NewTables()
	var e = newMaterialEngine()
	e.Prepare()
	for _, fen := range testPositions {
		var b = mustBoard(t, tables, fen)
		var buffer [MaxMoves]OrderedMove
		var generated = b.GenerateMoves(buffer[:])
		var want = make(map[Move]bool)
		var quiets []Move
		for _, om := range generated {
			want[om.Move] = true
			if om.Move.IsQuiet() {
				quiets = append(quiets, om.Move)
			}
		}
		e.killers.Clear()
		e.countermoves.Clear()
		var prev = NewMove(SquareA7, SquareA6, FlagQuiet)
		if len(quiets) >= 3 {
			e.killers.Add(1, quiets[0])
			e.killers.Add(1, quiets[1])
			e.countermoves.Add(prev, quiets[2])
		}
		// a killer from another position must be ignored
		e.killers.Add(1, NewMove(SquareH4, SquareH5, FlagQuiet))

		for _, hashMove := range []Move{MoveEmpty, generated[len(generated)/2].Move} {
			var mp movePicker
			var moves [MaxMoves]OrderedMove
			mp.init(e, b, moves[:], 1, hashMove, prev, b.IsCheck())
			var seen = make(map[Move]bool)
			var first = true
			for {
				var om, ok = mp.next()
				if !ok {
					break
				}
				if first && hashMove != MoveEmpty && om.Move != hashMove {
					t.Error(fen, "hash move must come first", om.Move)
				}
				first = false
				if seen[om.Move] {
					t.Error(fen, "duplicate", om.Move)
				}
				if !want[om.Move] {
					t.Error(fen, "unexpected", om.Move)
				}
				seen[om.Move] = true
			}
			if len(seen) != len(want) {
				t.Error(fen, "picked", len(seen), "generated", len(want))
			}
		}
	}
}

func TestQuiescencePickerCapturesOnly(t *testing.T) {
	var tables = NewTables()
	var e = newMaterialEngine()
	e.Prepare()
	var fens = append([]string{"4k3/8/8/8/8/8/3q4/R3K2R w KQ - 0 1"}, testPositions...)
	for _, fen := range fens {
		var b = mustBoard(t, tables, fen)
		var qp qsPicker
		var moves [MaxMoves]OrderedMove
		qp.init(e, b, moves[:])
		var last = int32(1 << 30)
		for {
			var om, ok = qp.next()
			if !ok {
				break
			}
			if om.Move.IsQuiet() {
				t.Error(fen, "quiet move in quiescence", om.Move)
			}
			if om.Key > last {
				t.Error(fen, "not sorted", om.Move)
			}
			last = om.Key
		}
	}
}

func TestSearchInfo(t *testing.T) {
	var tables = NewTables()
	var e = newClassicEngine()
	var b = mustBoard(t, tables, testPositions[1])
	var hashBefore = b.Hash
	var progress []SearchInfo
	var ctx, cancel = context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	var si = e.Search(ctx, SearchParams{
		Board:    b,
		Limits:   LimitsType{Depth: 5},
		Progress: func(si SearchInfo) { progress = append(progress, si) },
	})
	if b.Hash != hashBefore {
		t.Error("search modified the caller's board")
	}
	if si.Depth != 5 || len(progress) != 5 {
		t.Fatal("depth", si.Depth, len(progress))
	}
	for i, p := range progress {
		if p.Depth != i+1 {
			t.Error("progress depth", i, p.Depth)
		}
	}
	if si.Nodes <= 0 || si.Stats.TotalNodes() <= 0 {
		t.Error("counters", si.Nodes, si.Stats.TotalNodes())
	}
	assertLegalLine(t, b, si.MainLine)
}

func assertLegalLine(t *testing.T, b *Board, line []Move) {
	t.Helper()
	if len(line) == 0 {
		t.Fatal("empty line")
	}
	var b2 = b.Clone()
	for _, m := range line {
		if !b2.IsLegal(m) {
			t.Fatal("illegal move in line", line, m)
		}
		b2.MakeMove(m)
		if !b2.IsLegalAfterMake() {
			t.Fatal("king left in check", line, m)
		}
	}
}

func TestMultiPV(t *testing.T) {
	var tables = NewTables()
	var e = newClassicEngine()
	e.Options.MultiPV = true
	var b = mustBoard(t, tables, InitialPositionFen)
	var si = search(t, e, b, LimitsType{Depth: 3})
	if len(si.Lines) != 20 {
		t.Fatal("lines", len(si.Lines))
	}
	for i := 1; i < len(si.Lines); i++ {
		if si.Lines[i].Score.Centipawns > si.Lines[i-1].Score.Centipawns {
			t.Error("lines not sorted", i)
		}
	}
	var roots = make(map[Move]bool)
	for _, line := range si.Lines {
		assertLegalLine(t, b, line.Moves)
		roots[line.Moves[0]] = true
		if line.Score.Mate != 0 || Abs(line.Score.Centipawns) >= valueWin {
			t.Error("bound reported as a score", line.Moves[0], line.Score)
		}
	}
	if len(roots) != 20 {
		t.Error("root moves repeated", len(roots))
	}
	if si.MainLine[0] != si.Lines[0].Moves[0] {
		t.Error("main line is not the best line")
	}
}

func TestSearchMoves(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, InitialPositionFen)
	var si = search(t, newClassicEngine(), b, LimitsType{Depth: 4, SearchMoves: []string{"a2a3", "h2h3"}})
	if m := si.MainLine[0].String(); m != "a2a3" && m != "h2h3" {
		t.Error("searched outside the subset", m)
	}
}

func TestLazySMP(t *testing.T) {
	var tables = NewTables()
	var e = newClassicEngine()
	e.Options.Threads = 3
	for _, fen := range testPositions[:4] {
		var b = mustBoard(t, tables, fen)
		var si = search(t, e, b, LimitsType{Depth: 6})
		if si.Depth != 6 {
			t.Error(fen, "depth", si.Depth)
		}
		assertLegalLine(t, b, si.MainLine)
	}
	var b = mustBoard(t, tables, mateInTwoFEN)
	if si := search(t, e, b, LimitsType{Depth: 5}); si.Score.Mate <= 0 {
		t.Error("threads lost the mate", si.Score)
	}
}

func TestNodeLimit(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, testPositions[1])
	var si = search(t, newClassicEngine(), b, LimitsType{Nodes: 20000})
	if si.Depth == 0 || si.Depth >= MaxDepth {
		t.Error("depth", si.Depth)
	}
	if len(si.MainLine) == 0 {
		t.Error("no move")
	}
}

func TestStopInfiniteSearch(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, testPositions[1])
	var ctx, cancel = context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	var start = time.Now()
	var si = newClassicEngine().Search(ctx, SearchParams{Board: b, Limits: LimitsType{Infinite: true}})
	if time.Since(start) < 200*time.Millisecond {
		t.Error("infinite search returned before stop")
	}
	if time.Since(start) > 10*time.Second {
		t.Error("stop took too long")
	}
	if len(si.MainLine) == 0 {
		t.Error("no move")
	}
}

func TestPonderHit(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, testPositions[1])
	var e = newClassicEngine()
	var done = make(chan SearchInfo, 1)
	go func() {
		done <- e.Search(context.Background(), SearchParams{
			Board:  b,
			Limits: LimitsType{Ponder: true, WhiteTime: 1000, BlackTime: 1000},
		})
	}()
	select {
	case <-done:
		t.Fatal("ponder search returned before ponderhit")
	case <-time.After(100 * time.Millisecond):
	}
	e.PonderHit()
	select {
	case si := <-done:
		if len(si.MainLine) == 0 {
			t.Error("no move after ponderhit")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("search did not finish after ponderhit")
	}
}

func TestMoveTime(t *testing.T) {
	var tables = NewTables()
	var b = mustBoard(t, tables, testPositions[1])
	var start = time.Now()
	var si = search(t, newClassicEngine(), b, LimitsType{MoveTime: 100})
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Error("movetime overrun", elapsed)
	}
	if len(si.MainLine) == 0 {
		t.Error("no move")
	}
}
