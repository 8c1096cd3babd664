package engine

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

// searchDepth runs one iteration on all threads. The main thread's lines
// are the result; helpers only warm the shared tables and are stopped as
// soon as the main thread finishes. It returns nil if the depth was aborted.
func (d *Driver) searchDepth(depth int) []searchLine {
	var e = d.engine
	var main = &e.threads[0]
	moveToBegin(main.rootMoves, findMoveIndex(main.rootMoves, d.bestMove))

	var g errgroup.Group
	for i := 1; i < len(e.threads); i++ {
		var t = &e.threads[i]
		t.rootMoves = append(t.rootMoves[:0], main.rootMoves...)
		if len(t.rootMoves) > 2 {
			var tail = t.rootMoves[1:]
			frand.Shuffle(len(tail), func(i, j int) {
				tail[i], tail[j] = tail[j], tail[i]
			})
		}
		var prevScore = d.prevScore
		g.Go(func() error {
			return t.helperSearch(depth, prevScore)
		})
	}

	var score = main.aspirationWindow(depth, d.prevScore)
	d.search.depthDone.Store(true)
	if err := g.Wait(); err != nil {
		panic(err)
	}

	if !isValidScore(score) || len(main.lines) == 0 {
		return nil
	}
	var lines = append([]searchLine(nil), main.lines...)
	sortLines(lines)
	return lines
}

func (t *thread) helperSearch(depth, prevScore int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("search thread %d: %v", t.index, r)
		}
	}()
	t.aspirationWindow(depth, prevScore)
	return nil
}
