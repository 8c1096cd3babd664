package tactic

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zugzwang-chess/zugzwang/pkg/common"
	"github.com/zugzwang-chess/zugzwang/pkg/engine"
	material "github.com/zugzwang-chess/zugzwang/pkg/eval/material"
)

const testSuite = `
# comment
2rr3k/pp3pp1/1nnqbN1p/3pN3/2pP4/2P3Q1/PPB4P/R4RK1 w - - bm Qg6; id "WAC.001";
6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - bm Rd8#; id "back rank";
6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - am Rd7; id "avoid";
6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - bm Qd8; id "bad move";
8/8/8/8 w - - bm e4; id "bad fen";
`

func TestLoadEPD(t *testing.T) {
	var items, err = LoadEPD(common.NewTables(), strings.NewReader(testSuite), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatal(len(items))
	}
	var tests = []struct {
		id    string
		best  string
		avoid string
	}{
		{"WAC.001", "g3g6", ""},
		{"back rank", "d1d8", ""},
		{"avoid", "", "d1d7"},
	}
	for i, test := range tests {
		var item = items[i]
		if item.ID != test.id {
			t.Error(test, item.ID)
		}
		if test.best != "" && (len(item.BestMoves) != 1 || item.BestMoves[0].String() != test.best) {
			t.Error(test, item.BestMoves)
		}
		if test.avoid != "" && (len(item.AvoidMoves) != 1 || item.AvoidMoves[0].String() != test.avoid) {
			t.Error(test, item.AvoidMoves)
		}
	}
}

func TestSolved(t *testing.T) {
	var tables = common.NewTables()
	var item, err = ParseEPD(tables, `6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - bm Rd8+; am Rd7;`)
	if err != nil {
		t.Fatal(err)
	}
	var rd8 = common.NewMove(common.SquareD1, common.SquareD8, common.FlagQuiet)
	var rd7 = common.NewMove(common.SquareD1, common.SquareD7, common.FlagQuiet)
	if !item.Solved(rd8) || item.Solved(rd7) || item.Solved(common.MoveEmpty) {
		t.Error(item.BestMoves, item.AvoidMoves)
	}
}

func TestSolve(t *testing.T) {
	var items, err = LoadEPD(common.NewTables(), strings.NewReader(testSuite), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	var eng = engine.NewEngine(func() interface{} { return material.NewEvaluationService() })
	eng.Options.Hash = 1
	var result = Solve(context.Background(), items[1:], eng, common.LimitsType{Depth: 3}, zerolog.Nop())
	if result.Total != 2 || result.Solved != 2 || result.Nodes <= 0 {
		t.Error(result)
	}
	var bench = Benchmark(context.Background(), items, eng, 2)
	if bench.Total != 3 || bench.Nodes <= 0 || bench.NodesPerSecond() <= 0 {
		t.Error(bench)
	}
}
