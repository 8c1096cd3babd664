package tactic

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/zugzwang-chess/zugzwang/pkg/common"
)

type Engine interface {
	Clear()
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

type Result struct {
	Total   int
	Solved  int
	Nodes   int64
	Elapsed time.Duration
}

// Solved reports whether the move passes the item's bm and am operations.
func (item *Item) Solved(m common.Move) bool {
	if len(item.BestMoves) != 0 && !lo.Contains(item.BestMoves, m) {
		return false
	}
	return !lo.Contains(item.AvoidMoves, m)
}

// Solve searches every item from a cleared engine state. It stops early
// when ctx is done.
func Solve(ctx context.Context, items []Item, engine Engine, limits common.LimitsType,
	logger zerolog.Logger) Result {
	var result Result
	var start = time.Now()
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		var item = &items[i]
		engine.Clear()
		var si = engine.Search(ctx, common.SearchParams{
			Board:  item.Board.Clone(),
			Limits: limits,
		})
		result.Total++
		result.Nodes += si.Nodes
		var move = common.MoveEmpty
		if len(si.MainLine) != 0 {
			move = si.MainLine[0]
		}
		var solved = item.Solved(move)
		if solved {
			result.Solved++
		}
		logger.Info().
			Str("id", item.ID).
			Bool("solved", solved).
			Stringer("move", move).
			Int("depth", si.Depth).
			Int64("nodes", si.Nodes).
			Msg("tactic-result")
	}
	result.Elapsed = time.Since(start)
	return result
}

// Benchmark searches every item to a fixed depth and reports total nodes.
func Benchmark(ctx context.Context, items []Item, engine Engine, depth int) Result {
	var result Result
	var start = time.Now()
	for i := range items {
		engine.Clear()
		var si = engine.Search(ctx, common.SearchParams{
			Board:  items[i].Board.Clone(),
			Limits: common.LimitsType{Depth: depth},
		})
		result.Total++
		result.Nodes += si.Nodes
	}
	result.Elapsed = time.Since(start)
	return result
}

func (r Result) NodesPerSecond() int64 {
	return r.Nodes * 1000 / (r.Elapsed.Milliseconds() + 1)
}
