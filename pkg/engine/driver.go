package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

// Driver runs iterative deepening one depth per Next call. It is used
// from a single goroutine; only Stop and PonderHit may be called
// concurrently.
type Driver struct {
	engine       *Engine
	board        *Board
	limits       LimitsType
	search       searchState
	rootMoves    []OrderedMove
	pondering    bool
	done         bool
	depth        int
	prevScore    int
	bestMove     Move
	soft         time.Duration
	hard         time.Duration
	lastDuration time.Duration
	prevDuration time.Duration
	stats        SearchStats
	result       SearchInfo
	ponderHitCh  chan struct{}
	ponderOnce   sync.Once
}

// NewDriver prepares a search of params.Board. The board is not modified;
// every thread searches its own copy.
func (e *Engine) NewDriver(params SearchParams) *Driver {
	e.Prepare()
	var d = &Driver{
		engine:      e,
		board:       params.Board,
		limits:      params.Limits,
		ponderHitCh: make(chan struct{}),
	}
	e.killers.Age()
	e.history.Age()
	d.rootMoves = d.genRootMoves()
	for i := range e.threads {
		e.threads[i].reset(params.Board.Clone(), &d.search)
	}
	d.restart(params.Limits.Ponder)
	e.driver.Store(d)
	if e.ponderHit.Swap(false) {
		d.PonderHit()
	}
	return d
}

func (d *Driver) genRootMoves() []OrderedMove {
	var e = d.engine
	var b = d.board
	var hashMove = MoveEmpty
	if entry, found, _ := e.transTable.Get(b.Hash, 0); found &&
		entry.Move != MoveEmpty && b.IsLegal(entry.Move) {
		hashMove = entry.Move
	}
	var buffer [MaxMoves]OrderedMove
	var mp movePicker
	mp.init(e, b, buffer[:], 0, hashMove, MoveEmpty, b.IsCheck())
	var result []OrderedMove
	for {
		var om, ok = mp.next()
		if !ok {
			break
		}
		b.MakeMove(om.Move)
		if b.IsLegalAfterMake() {
			result = append(result, om)
		}
		b.UndoMove(om.Move)
	}
	if len(d.limits.SearchMoves) != 0 {
		var filtered = lo.Filter(result, func(om OrderedMove, _ int) bool {
			return lo.Contains(d.limits.SearchMoves, om.Move.String())
		})
		if len(filtered) != 0 {
			result = filtered
		}
	}
	return result
}

func (d *Driver) restart(pondering bool) {
	var e = d.engine
	d.pondering = pondering
	d.done = false
	d.depth = 0
	d.prevScore = 0
	d.bestMove = MoveEmpty
	d.lastDuration = 0
	d.prevDuration = 0
	d.stats = SearchStats{}

	var s = &d.search
	s.start = time.Now()
	d.soft, d.hard = calcLimits(d.limits, d.board, pondering, e.Options.MoveOverhead)
	s.deadline = time.Time{}
	if d.hard > 0 {
		s.deadline = s.start.Add(d.hard)
	}
	s.nodeLimit = int64(d.limits.Nodes)
	s.nodes.Store(0)
	s.depthDone.Store(false)
	s.ponderHit.Store(false)
	s.abort.Store(s.stopped.Load())

	d.result = SearchInfo{}
	if len(d.rootMoves) == 0 {
		if d.board.IsCheck() {
			d.result.Score = newUciScore(lossIn(0))
		}
	} else {
		d.bestMove = d.rootMoves[0].Move
		d.result.MainLine = []Move{d.bestMove}
	}
	e.threads[0].rootMoves = append(e.threads[0].rootMoves[:0], d.rootMoves...)

	e.Logger.Debug().
		Bool("ponder", pondering).
		Dur("soft", d.soft).
		Dur("hard", d.hard).
		Int("rootMoves", len(d.rootMoves)).
		Msg("search-started")
}

// Reset restarts iteration from depth 1 under normal time control,
// keeping all caches.
func (d *Driver) Reset() {
	d.restart(false)
}

// Next searches one more depth. It returns false when the search is over.
func (d *Driver) Next() (SearchInfo, bool) {
	for !d.done {
		if si, ok := d.iterate(); ok {
			return si, true
		}
		if d.search.ponderHit.Load() && !d.search.stopped.Load() {
			d.Reset()
			continue
		}
		d.done = true
	}
	return SearchInfo{}, false
}

func (d *Driver) iterate() (SearchInfo, bool) {
	var e = d.engine
	if d.search.abort.Load() || len(d.rootMoves) == 0 || d.depth >= MaxDepth {
		return SearchInfo{}, false
	}
	var depth = d.depth + 1

	if depth == 1 {
		if si, ok := d.probeRoot(); ok {
			d.done = true
			return si, true
		}
	}

	var depthStart = time.Now()
	d.search.depthDone.Store(false)
	var lines = d.searchDepth(depth)
	if lines == nil {
		return SearchInfo{}, false
	}
	e.transTable.AgeEntries()

	d.prevDuration = d.lastDuration
	d.lastDuration = time.Since(depthStart)
	d.depth = depth
	d.prevScore = lines[0].score
	d.bestMove = lines[0].moves[0]
	for i := range e.threads {
		var t = &e.threads[i]
		t.flushNodes()
		d.stats.Add(&t.stats)
		t.stats = SearchStats{}
	}

	d.result = SearchInfo{
		Score:    newUciScore(lines[0].score),
		Depth:    depth,
		Nodes:    d.search.nodes.Load(),
		Time:     time.Since(d.search.start),
		Hashfull: e.transTable.FillPermille(),
		MainLine: lines[0].moves,
		Lines: lo.Map(lines, func(l searchLine, _ int) PVLine {
			return PVLine{Score: newUciScore(l.score), Moves: l.moves}
		}),
		Stats: d.stats,
	}

	e.Logger.Debug().
		Int("depth", depth).
		Int("score", lines[0].score).
		Int64("nodes", d.result.Nodes).
		Int("hashfull", d.result.Hashfull).
		Int64("ttCollisions", d.stats.TTCollisions).
		Dur("elapsed", d.result.Time).
		Strs("pv", lo.Map(lines[0].moves, func(m Move, _ int) string { return m.String() })).
		Msg("depth-completed")
	if e.Options.Diagnostics {
		e.Logger.Info().Int("depth", depth).Interface("stats", d.stats).Msg("search-statistics")
	}

	if d.shouldStop(depth, lines[0].score) {
		d.done = true
	}
	return d.result, true
}

// probeRoot asks the tablebase for the root position.
func (d *Driver) probeRoot() (SearchInfo, bool) {
	var e = d.engine
	var b = d.board
	if !e.tablebaseEnabled() || PopCount(b.AllPieces()) > e.Options.TablebaseProbeLimit {
		return SearchInfo{}, false
	}
	var m, wdl, ok = e.Tablebase.Probe(b, e.Options.TablebaseProbeLimit)
	if !ok || findMoveIndex(d.rootMoves, m) < 0 {
		return SearchInfo{}, false
	}
	var score = tablebaseScore(wdl, 0)
	d.depth = 1
	d.bestMove = m
	d.result = SearchInfo{
		Score:    newUciScore(score),
		Depth:    1,
		Time:     time.Since(d.search.start),
		Hashfull: e.transTable.FillPermille(),
		MainLine: []Move{m},
		Lines:    []PVLine{{Score: newUciScore(score), Moves: []Move{m}}},
	}
	d.result.Stats.TBHits = 1
	e.Logger.Debug().Stringer("move", m).Stringer("wdl", wdl).Msg("tablebase-root-hit")
	return d.result, true
}

func (d *Driver) shouldStop(depth, score int) bool {
	if d.limits.Depth > 0 && depth >= d.limits.Depth {
		return true
	}
	if d.limits.Nodes > 0 && d.search.nodes.Load() >= int64(d.limits.Nodes) {
		return true
	}
	if len(d.rootMoves) == 1 {
		return true
	}
	if mate := mateDistance(score); mate >= 0 && mate < depth {
		return true
	}
	if d.soft > 0 {
		if time.Since(d.search.start) >= d.soft {
			return true
		}
		if d.prevDuration > 0 {
			var projected = float64(d.lastDuration) * (float64(d.lastDuration) / float64(d.prevDuration))
			if projected > float64(d.soft) {
				return true
			}
		}
	}
	return false
}

// sortLines orders multi-PV lines best first.
func sortLines(lines []searchLine) {
	slices.SortStableFunc(lines, func(a, b searchLine) int {
		return b.score - a.score
	})
}

// Stop aborts the search. It is safe to call from any goroutine.
func (d *Driver) Stop() {
	d.search.stopped.Store(true)
	d.search.abort.Store(true)
}

// PonderHit ends pondering: the running depth is aborted and the driver
// restarts with the clock starting now.
func (d *Driver) PonderHit() {
	d.ponderOnce.Do(func() {
		if d.limits.Ponder {
			d.search.ponderHit.Store(true)
			d.search.abort.Store(true)
		}
		close(d.ponderHitCh)
	})
}

// mustWait reports whether the result may only be sent after stop or ponderhit.
func (d *Driver) mustWait() bool {
	return d.limits.Ponder || d.limits.Infinite
}

func (d *Driver) Result() SearchInfo {
	return d.result
}

func (d *Driver) Close() {
	d.engine.driver.CompareAndSwap(d, nil)
	d.engine.ponderHit.Store(false)
}
