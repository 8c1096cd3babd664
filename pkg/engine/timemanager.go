package engine

import (
	"math"
	"time"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

// GetTimeBounds splits the clock into a soft limit, checked between
// iterations, and a hard limit that aborts the running iteration.
// Both stay within remaining time minus the move overhead.
func GetTimeBounds(remaining, increment time.Duration, movesToGo, moveNumber int,
	overhead time.Duration) (soft, hard time.Duration) {

	if remaining <= 0 {
		return 0, 0
	}
	overhead = limitDuration(overhead, 0, remaining/2)
	var available = remaining - overhead

	if movesToGo <= 0 {
		// more time in the middlegame, peaking around move 33
		var x = math.Min(25, float64(moveNumber-10)) / 15
		var divider = int(45 - 25*math.Sin(x))
		soft = remaining/time.Duration(divider) + increment
	} else {
		soft = remaining/time.Duration(movesToGo+2) + increment
	}
	hard = 3 * soft

	hard = limitDuration(hard, 0, available)
	soft = limitDuration(soft, 0, hard)
	return
}

func limitDuration(v, min, max time.Duration) time.Duration {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// calcLimits returns zero limits when the search is unbounded in time.
func calcLimits(limits LimitsType, b *Board, pondering bool, overhead time.Duration) (soft, hard time.Duration) {
	if pondering || limits.Infinite {
		return 0, 0
	}
	if limits.MoveTime > 0 {
		var moveTime = time.Duration(limits.MoveTime) * time.Millisecond
		return moveTime, moveTime
	}
	var main, inc time.Duration
	if b.SideToMove == SideWhite {
		main = time.Duration(limits.WhiteTime) * time.Millisecond
		inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
	} else {
		main = time.Duration(limits.BlackTime) * time.Millisecond
		inc = time.Duration(limits.BlackIncrement) * time.Millisecond
	}
	if main == 0 {
		return 0, 0
	}
	// an exhausted clock still gets the minimal budget below
	soft, hard = GetTimeBounds(main, inc, limits.MovesToGo, b.FullmoveNumber, overhead)
	// a zero hard limit would mean no limit at all
	hard = Max(hard, time.Millisecond)
	soft = Max(soft, time.Millisecond)
	return
}
