package engine

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

// pollInterval is the number of nodes a thread searches between checks
// of the clock and node limit.
const pollInterval = 1024

type Engine struct {
	Options      Options
	Logger       zerolog.Logger
	Tablebase    TablebaseOracle
	evalBuilder  func() interface{}
	transTable   *TransTable
	killers      *KillerTable
	countermoves *CountermoveTable
	history      *HistoryTable
	see          *SEETable
	threads      []thread
	driver       atomic.Pointer[Driver]
	ponderHit    atomic.Bool
}

type Evaluator interface {
	Evaluate(b *Board) int
}

type thread struct {
	engine        *Engine
	index         int
	evaluator     Evaluator
	board         *Board
	search        *searchState
	rootMoves     []OrderedMove
	lines         []searchLine
	stats         SearchStats
	unpolledNodes int64
	stack         [stackSize]struct {
		pv             pv
		moves          [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		picker         movePicker
		qpicker        qsPicker
	}
}

type searchLine struct {
	score int
	moves []Move
}

// searchState holds the signals shared by all threads of one search.
type searchState struct {
	start     time.Time
	deadline  time.Time
	nodeLimit int64
	nodes     atomic.Int64
	abort     atomic.Bool
	stopped   atomic.Bool
	depthDone atomic.Bool
	ponderHit atomic.Bool
}

func (s *searchState) poll(n int64) {
	var nodes = s.nodes.Add(n)
	if s.nodeLimit > 0 && nodes >= s.nodeLimit {
		s.abort.Store(true)
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.abort.Store(true)
	}
}

func NewEngine(evalBuilder func() interface{}) *Engine {
	return &Engine{
		Options:     NewOptions(),
		Logger:      zerolog.Nop(),
		evalBuilder: evalBuilder,
	}
}

// Prepare allocates tables and threads for the current options. Tables
// that already have the requested size are kept.
func (e *Engine) Prepare() {
	e.Options.Threads = Clamp(e.Options.Threads, 1, runtime.NumCPU()*4)
	if e.transTable == nil || e.transTable.Size() != e.Options.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = NewTransTable(e.Options.Hash)
		e.Logger.Debug().
			Int("megabytes", e.Options.Hash).
			Int("buckets", len(e.transTable.buckets)).
			Msg("transposition-table-allocated")
	}
	if e.killers == nil {
		e.killers = &KillerTable{}
		e.countermoves = &CountermoveTable{}
		e.history = &HistoryTable{}
	}
	if e.see == nil {
		e.see = NewSEETable()
	}
	if len(e.threads) != e.Options.Threads {
		e.threads = make([]thread, e.Options.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.index = i
			t.evaluator = e.buildEvaluator()
		}
	}
}

// Clear forgets everything learned in previous games.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	if e.killers != nil {
		e.killers.Clear()
		e.countermoves.Clear()
		e.history.Clear()
	}
}

// Search runs iterative deepening until a limit is hit or ctx is done and
// returns the deepest completed result. While pondering or in infinite
// mode it does not return before ctx is done or PonderHit is called.
func (e *Engine) Search(ctx context.Context, params SearchParams) SearchInfo {
	var d = e.NewDriver(params)
	defer d.Close()
	var stop = context.AfterFunc(ctx, d.Stop)
	defer stop()

	for {
		var si, ok = d.Next()
		if !ok {
			break
		}
		if params.Progress != nil {
			params.Progress(si)
		}
	}

	if d.mustWait() {
		select {
		case <-ctx.Done():
		case <-d.ponderHitCh:
		}
	}
	return d.Result()
}

// PonderHit switches the running ponder search to normal time control.
// A ponder hit that arrives before the driver is registered is kept
// until NewDriver picks it up.
func (e *Engine) PonderHit() {
	e.ponderHit.Store(true)
	if d := e.driver.Load(); d != nil {
		e.ponderHit.Store(false)
		d.PonderHit()
	}
}

func (e *Engine) buildEvaluator() Evaluator {
	if ev, ok := e.evalBuilder().(Evaluator); ok {
		return ev
	}
	panic(errors.New("bad eval builder"))
}

func (t *thread) reset(b *Board, s *searchState) {
	t.board = b
	t.search = s
	t.stats = SearchStats{}
	t.unpolledNodes = 0
	t.lines = t.lines[:0]
}

// flushNodes publishes nodes not yet counted by poll.
func (t *thread) flushNodes() {
	if t.unpolledNodes > 0 {
		t.search.nodes.Add(t.unpolledNodes)
		t.unpolledNodes = 0
	}
}
