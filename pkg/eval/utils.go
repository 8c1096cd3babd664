package eval

import (
	. "github.com/zugzwang-chess/zugzwang/pkg/common"
)

func relativeUp(side int, b uint64) uint64 {
	if side == SideWhite {
		return Up(b)
	}
	return Down(b)
}

func onlyOne(bb uint64) bool {
	return bb != 0 && !MoreThanOne(bb)
}

var adjacentFilesMask [8]uint64
var forwardFileMasks [COLOUR_NB][64]uint64
var passedPawnMasks [COLOUR_NB][64]uint64
var kingShieldMasks [COLOUR_NB][64]uint64
var kingAreaMasks [64]uint64

func init() {
	for f := FileA; f <= FileH; f++ {
		adjacentFilesMask[f] = Left(FileMask[f]) | Right(FileMask[f])
	}

	for sq := 0; sq < 64; sq++ {
		var x = SquareMask(sq)

		forwardFileMasks[SideWhite][sq] = UpFill(Up(x))
		forwardFileMasks[SideBlack][sq] = DownFill(Down(x))

		passedPawnMasks[SideWhite][sq] = UpFill(Up(Left(x) | Right(x) | x))
		passedPawnMasks[SideBlack][sq] = DownFill(Down(Left(x) | Right(x) | x))

		// two ranks in front of the king on its own and adjacent files
		var front = Left(x) | Right(x) | x
		kingShieldMasks[SideWhite][sq] = Up(front) | Up(Up(front))
		kingShieldMasks[SideBlack][sq] = Down(front) | Down(Down(front))

		var zone = MakeSquare(Clamp(File(sq), FileB, FileG), Clamp(Rank(sq), Rank2, Rank7))
		var zoneMask = SquareMask(zone)
		kingAreaMasks[sq] = zoneMask | Up(zoneMask) | Down(zoneMask)
		kingAreaMasks[sq] |= Left(kingAreaMasks[sq]) | Right(kingAreaMasks[sq])
	}
}
