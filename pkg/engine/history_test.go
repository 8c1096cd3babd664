package engine

import (
	"testing"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

func TestKillerTable(t *testing.T) {
	var k = &KillerTable{}
	var m1 = NewMove(SquareG1, SquareF3, FlagQuiet)
	var m2 = NewMove(SquareB1, SquareC3, FlagQuiet)
	var m3 = NewMove(SquareE2, SquareE3, FlagQuiet)

	k.Add(4, m1)
	k.Add(4, m1)
	if got := k.Get(4); got != [2]Move{m1, MoveEmpty} {
		t.Error("duplicate killer", got)
	}
	k.Add(4, m2)
	k.Add(4, m3)
	if got := k.Get(4); got != [2]Move{m3, m2} {
		t.Error("killer order", got)
	}

	k.Add(stackSize-1, m1)
	k.Age()
	if got := k.Get(2); got != [2]Move{m3, m2} {
		t.Error("age must shift two plies", got)
	}
	if got := k.Get(stackSize - 1); got != [2]Move{} {
		t.Error("last plies must be cleared", got)
	}
	if got := k.Get(stackSize - 3); got != [2]Move{m1, MoveEmpty} {
		t.Error("shifted deep killer", got)
	}

	k.Clear()
	if got := k.Get(2); got != [2]Move{} {
		t.Error("clear", got)
	}
	if got := k.Get(stackSize + 10); got != [2]Move{} {
		t.Error("out of range height", got)
	}
}

func TestCountermoveTable(t *testing.T) {
	var c = &CountermoveTable{}
	var prev = NewMove(SquareE7, SquareE5, FlagDoublePush)
	var reply = NewMove(SquareG1, SquareF3, FlagQuiet)
	c.Add(prev, reply)
	if c.Get(prev) != reply {
		t.Error("countermove not stored")
	}
	c.Add(MoveEmpty, reply)
	if c.Get(MoveEmpty) != MoveEmpty {
		t.Error("empty previous move must have no countermove")
	}
	c.Clear()
	if c.Get(prev) != MoveEmpty {
		t.Error("clear")
	}
}

func TestHistoryTable(t *testing.T) {
	var h = &HistoryTable{}
	if h.Get(SquareE2, SquareE4, sortHistoryRange) != 0 {
		t.Error("empty table")
	}
	h.Add(SquareE2, SquareE4, 4)
	h.Add(SquareG1, SquareF3, 2)
	if got := h.Get(SquareE2, SquareE4, 180); got != 180 {
		t.Error("best move must get max", got)
	}
	if got := h.Get(SquareG1, SquareF3, 180); got != 45 {
		t.Error("scaled value", got)
	}

	h.Punish(SquareG1, SquareF3, 3)
	if got := h.Get(SquareG1, SquareF3, 180); got != 12 {
		t.Error("punished value", got)
	}
	h.Punish(SquareG1, SquareF3, 5)
	if got := h.Get(SquareG1, SquareF3, 180); got != 0 {
		t.Error("punish floors at zero", got)
	}

	h.Age()
	if got := h.Get(SquareE2, SquareE4, 180); got != 180 {
		t.Error("aged max entry", got)
	}
	h.Clear()
	if got := h.Get(SquareE2, SquareE4, 180); got != 0 {
		t.Error("clear", got)
	}
}

func TestHistorySaturates(t *testing.T) {
	var h = &HistoryTable{}
	h.table[SquareE2][SquareE4].Store(historyLimit - 5)
	h.Add(SquareE2, SquareE4, 10)
	h.Add(SquareE2, SquareE4, 10)
	if got := h.table[SquareE2][SquareE4].Load(); got != historyLimit {
		t.Error("saturated value", got)
	}
	if got := h.Get(SquareE2, SquareE4, sortHistoryRange); got != sortHistoryRange {
		t.Error("saturated entry must keep the top key", got)
	}
}

func TestQuietHeuristicsPunishTriedKiller(t *testing.T) {
	var e = newMaterialEngine()
	e.Prepare()
	var killer = NewMove(SquareG1, SquareF3, FlagQuiet)
	var cut = NewMove(SquareB1, SquareC3, FlagQuiet)
	var prev = NewMove(SquareE7, SquareE5, FlagDoublePush)
	e.killers.Add(2, killer)
	e.history.Add(killer.From(), killer.To(), 4)

	e.threads[0].updateQuietHeuristics([]Move{killer, cut}, cut, prev, 3, 2)

	if got := e.history.table[killer.From()][killer.To()].Load(); got != 13 {
		t.Error("tried killer must be punished", got)
	}
	if got := e.history.table[cut.From()][cut.To()].Load(); got != 9 {
		t.Error("cutoff move bonus", got)
	}
	if got := e.killers.Get(2); got != [2]Move{cut, killer} {
		t.Error("killers", got)
	}
	if e.countermoves.Get(prev) != cut {
		t.Error("countermove")
	}
}
