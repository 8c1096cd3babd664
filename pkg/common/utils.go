package common

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

func Min[T number](l, r T) T {
	if l < r {
		return l
	}
	return r
}

func Max[T number](l, r T) T {
	if l > r {
		return l
	}
	return r
}

func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp[T number](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
