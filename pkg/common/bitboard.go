package common

import "math/bits"

const (
	FileAMask uint64 = 0x0101010101010101 << iota
	FileBMask
	FileCMask
	FileDMask
	FileEMask
	FileFMask
	FileGMask
	FileHMask
)

const (
	Rank1Mask uint64 = 0xFF << (8 * iota)
	Rank2Mask
	Rank3Mask
	Rank4Mask
	Rank5Mask
	Rank6Mask
	Rank7Mask
	Rank8Mask
)

const (
	DarkSquares  uint64 = 0xAA55AA55AA55AA55
	LightSquares        = ^DarkSquares
)

var FileMask = [8]uint64{
	FileAMask, FileBMask, FileCMask, FileDMask, FileEMask, FileFMask, FileGMask, FileHMask,
}

var RankMask = [8]uint64{
	Rank1Mask, Rank2Mask, Rank3Mask, Rank4Mask, Rank5Mask, Rank6Mask, Rank7Mask, Rank8Mask,
}

func SquareMask(sq int) uint64 {
	return uint64(1) << uint(sq)
}

func BitboardString(b uint64) string {
	var s = ""
	for x := b; x != 0; x &= x - 1 {
		if s != "" {
			s += ","
		}
		s += SquareName(FirstOne(x))
	}
	return "(" + s + ")"
}

func PopCount(b uint64) int {
	return bits.OnesCount64(b)
}

func FirstOne(b uint64) int {
	return bits.TrailingZeros64(b)
}

func MoreThanOne(value uint64) bool {
	return value != 0 && ((value-1)&value) != 0
}

func Up(b uint64) uint64 {
	return b << 8
}

func Down(b uint64) uint64 {
	return b >> 8
}

func Right(b uint64) uint64 {
	return (b & ^FileHMask) << 1
}

func Left(b uint64) uint64 {
	return (b & ^FileAMask) >> 1
}

func UpRight(b uint64) uint64 {
	return Up(Right(b))
}

func UpLeft(b uint64) uint64 {
	return Up(Left(b))
}

func DownRight(b uint64) uint64 {
	return Down(Right(b))
}

func DownLeft(b uint64) uint64 {
	return Down(Left(b))
}

func UpFill(gen uint64) uint64 {
	gen |= (gen << 8)
	gen |= (gen << 16)
	gen |= (gen << 32)
	return gen
}

func DownFill(gen uint64) uint64 {
	gen |= (gen >> 8)
	gen |= (gen >> 16)
	gen |= (gen >> 32)
	return gen
}

func FileFill(gen uint64) uint64 {
	return UpFill(gen) | DownFill(gen)
}

func AllWhitePawnAttacks(b uint64) uint64 {
	return ((b & ^FileAMask) << 7) | ((b & ^FileHMask) << 9)
}

func AllBlackPawnAttacks(b uint64) uint64 {
	return ((b & ^FileAMask) >> 9) | ((b & ^FileHMask) >> 7)
}

// AllPawnAttacks returns every square attacked by the given pawns of side.
func AllPawnAttacks(b uint64, side int) uint64 {
	if side == SideWhite {
		return AllWhitePawnAttacks(b)
	}
	return AllBlackPawnAttacks(b)
}

// PawnPush shifts pawns one rank forward for side.
func PawnPush(b uint64, side int) uint64 {
	if side == SideWhite {
		return Up(b)
	}
	return Down(b)
}
