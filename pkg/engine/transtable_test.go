package engine

import (
	"testing"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

func TestTransTableRoundTrip(t *testing.T) {
	var tt = NewTransTable(1)
	var move = NewMove(SquareE2, SquareE4, FlagDoublePush)
	var tests = []struct {
		hash        uint64
		score       int
		depth       int
		storeHeight int
		probeHeight int
		want        int
		bound       int
	}{
		{0x9d39247e33776d41, 57, 6, 3, 3, 57, boundExact},
		{0x2af7398005aaa5c7, -215, 1, 0, 5, -215, boundLower},
		{0x44db015024623547, winIn(10), 12, 4, 2, winIn(8), boundExact},
		{0x9c15f73e62a76ae2, lossIn(7), 3, 7, 1, lossIn(1), boundUpper},
	}
	for _, test := range tests {
		tt.Add(test.hash, test.score, move, test.depth, test.storeHeight, test.bound)
		var entry, found, collision = tt.Get(test.hash, test.probeHeight)
		if !found || collision {
			t.Fatal(test.hash, found, collision)
		}
		if entry.Score != test.want || entry.Move != move ||
			entry.Depth != test.depth || entry.Bound != test.bound || entry.Age != 0 {
			t.Error(test.hash, entry, test.want)
		}
	}
}

func TestTransTableCollision(t *testing.T) {
	var tt = NewTransTable(1)
	var hash uint64 = 0x75834465489c0c89
	tt.Add(hash, 10, MoveEmpty, 4, 0, boundExact)
	var slot = &tt.buckets[hash&tt.mask][0]
	slot.key.Store(slot.key.Load() ^ 1)
	var _, found, collision = tt.Get(hash, 0)
	if found || !collision {
		t.Error("torn slot must be a miss reported as collision", found, collision)
	}
	if _, found, collision = tt.Get(hash^(1<<60), 0); found || collision {
		t.Error("unrelated key", found, collision)
	}
}

func TestTransTableReplacement(t *testing.T) {
	var tt = NewTransTable(1)
	const low = 0x1234
	var hashes = []uint64{low | 1<<50, low | 2<<50, low | 3<<50, low | 4<<50}
	var depths = []int{5, 2, 7, 4}
	for i, hash := range hashes {
		tt.Add(hash, i, MoveEmpty, depths[i], 0, boundExact)
	}
	var newcomer uint64 = low | 5<<50
	tt.Add(newcomer, 99, MoveEmpty, 1, 0, boundExact)
	if _, found, _ := tt.Get(newcomer, 0); !found {
		t.Fatal("new entry not stored")
	}
	if _, found, _ := tt.Get(hashes[1], 0); found {
		t.Error("shallowest entry should have been replaced")
	}
	for _, i := range []int{0, 2, 3} {
		if _, found, _ := tt.Get(hashes[i], 0); !found {
			t.Error("entry lost", i)
		}
	}

	// same key overwrites in place
	tt.Add(hashes[0], 42, MoveEmpty, 9, 0, boundLower)
	var entry, found, _ = tt.Get(hashes[0], 0)
	if !found || entry.Score != 42 || entry.Depth != 9 || entry.Bound != boundLower {
		t.Error("overwrite", entry)
	}
}

func TestTransTableAging(t *testing.T) {
	var tt = NewTransTable(1)
	var hash uint64 = 0xa57e6339dd2cf3a0
	tt.Add(hash, 1, MoveEmpty, 3, 0, boundUpper)
	for i := 0; i < maxTTAge-1; i++ {
		tt.AgeEntries()
	}
	var entry, found, _ = tt.Get(hash, 0)
	if !found || entry.Age != maxTTAge-1 {
		t.Fatal("aged entry", found, entry.Age)
	}
	tt.AgeEntries()
	if _, found, _ := tt.Get(hash, 0); found {
		t.Error("entry at max age must be purged")
	}
}

func TestTransTableFillAndClear(t *testing.T) {
	var tt = NewTransTable(1)
	if tt.FillPermille() != 0 {
		t.Error("new table not empty")
	}
	// one entry in each of the first 250 buckets
	for i := uint64(0); i < 250; i++ {
		tt.Add(i|(i+1)<<48, 0, MoveEmpty, 1, 0, boundExact)
	}
	if got := tt.FillPermille(); got != 250 {
		t.Error("fill", got)
	}
	tt.Clear()
	if tt.FillPermille() != 0 {
		t.Error("clear left entries")
	}
}

func TestTransTablePV(t *testing.T) {
	var tables = NewTables()
	var b = NewInitialBoard(tables)
	var tt = NewTransTable(1)
	var line = []string{"e2e4", "e7e5", "g1f3", "b8c6"}
	var moves []Move
	for _, lan := range line {
		var m, err = b.ParseMove(lan)
		if err != nil {
			t.Fatal(err)
		}
		moves = append(moves, m)
		b.MakeMove(m)
	}
	for i := len(moves) - 1; i >= 0; i-- {
		b.UndoMove(moves[i])
		if i+1 < len(moves) {
			b.MakeMove(moves[i])
			tt.Add(b.Hash, 0, moves[i+1], 1, 0, boundExact)
			b.UndoMove(moves[i])
		}
	}
	var hashBefore = b.Hash
	var pv = tt.PV(b, moves[0], MaxDepth)
	if len(pv) != len(moves) {
		t.Fatal(pv)
	}
	for i := range pv {
		if pv[i] != moves[i] {
			t.Error(i, pv[i], moves[i])
		}
	}
	if b.Hash != hashBefore || b.Ply() != 0 {
		t.Error("board not restored")
	}

	// a stale move that is illegal in the position ends the line
	var afterE4 = b.Clone()
	afterE4.MakeMove(moves[0])
	tt.Add(afterE4.Hash, 0, NewMove(SquareE2, SquareE4, FlagDoublePush), 1, 0, boundExact)
	if pv = tt.PV(b, moves[0], MaxDepth); len(pv) != 1 {
		t.Error("illegal hash move followed", pv)
	}
}
