package engine

import (
	"testing"

	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

func TestNewUciScore(t *testing.T) {
	var tests = []struct {
		score int
		want  UciScore
	}{
		{0, UciScore{}},
		{-75, UciScore{Centipawns: -75}},
		{winIn(1), UciScore{Mate: 1}},
		{winIn(3), UciScore{Mate: 2}},
		{lossIn(2), UciScore{Mate: -1}},
		{lossIn(4), UciScore{Mate: -2}},
		{MaxBeta, UciScore{Mate: 1}},
		{MinAlpha, UciScore{Mate: -1}},
		{MinAlpha + 1, UciScore{Mate: -1}},
	}
	for _, test := range tests {
		if got := newUciScore(test.score); got != test.want {
			t.Error(test.score, got, test.want)
		}
	}
}

func TestTTValueRoundTrip(t *testing.T) {
	for _, v := range []int{0, 150, -150, winIn(5), lossIn(6)} {
		for _, height := range []int{0, 3, 20} {
			if got := valueFromTT(valueToTT(v, height), height); got != v {
				t.Error(v, height, got)
			}
		}
	}
	if got := valueFromTT(valueToTT(winIn(7), 2), 4); got != winIn(9) {
		t.Error("mate distance must follow the probing height", got)
	}
}
