package common

import (
	"testing"
)

func TestFixedMagics(t *testing.T) {
	var tables = NewTables()
	if !tables.VerifySliders() {
		t.Fatal("fixed magics produce wrong attacks")
	}
}

func TestSeededMagicsAreReproducible(t *testing.T) {
	if testing.Short() {
		t.Skip("magic discovery is slow")
	}
	var first, err = NewTablesWithSeed(42)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewTablesWithSeed(42)
	if err != nil {
		t.Fatal(err)
	}
	if !first.VerifySliders() {
		t.Fatal("discovered magics produce wrong attacks")
	}
	for sq := 0; sq < 64; sq++ {
		if first.RookMagic(sq) != second.RookMagic(sq) || first.BishopMagic(sq) != second.BishopMagic(sq) {
			t.Fatal("same seed gave different magics on", SquareName(sq))
		}
	}
	if first.Zobrist != second.Zobrist {
		t.Fatal("zobrist keys differ")
	}
}

func TestSliderAttacks(t *testing.T) {
	var tables = NewTables()
	var occ = SquareMask(SquareD6) | SquareMask(SquareF4) | SquareMask(SquareB2)
	var tests = []struct {
		name string
		got  uint64
		want uint64
	}{
		{"rook d4", tables.RookAttacks(SquareD4, occ),
			SquareMask(SquareD5) | SquareMask(SquareD6) |
				SquareMask(SquareD3) | SquareMask(SquareD2) | SquareMask(SquareD1) |
				SquareMask(SquareE4) | SquareMask(SquareF4) |
				SquareMask(SquareC4) | SquareMask(SquareB4) | SquareMask(SquareA4)},
		{"bishop d4", tables.BishopAttacks(SquareD4, occ),
			SquareMask(SquareE5) | SquareMask(SquareF6) | SquareMask(SquareG7) | SquareMask(SquareH8) |
				SquareMask(SquareC5) | SquareMask(SquareB6) | SquareMask(SquareA7) |
				SquareMask(SquareE3) | SquareMask(SquareF2) | SquareMask(SquareG1) |
				SquareMask(SquareC3) | SquareMask(SquareB2)},
		{"between a1 h8", tables.Between[SquareA1][SquareH8],
			SquareMask(SquareB2) | SquareMask(SquareC3) | SquareMask(SquareD4) |
				SquareMask(SquareE5) | SquareMask(SquareF6) | SquareMask(SquareG7)},
		{"between a1 b3", tables.Between[SquareA1][SquareB3], 0},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Error(test.name, "\n"+BitboardString(test.got), "\n"+BitboardString(test.want))
		}
	}
}
