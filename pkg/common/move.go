package common

// Move packs from (bits 0-5), to (bits 6-11) and a 4-bit flag (bits 12-15).
type Move uint16

const MoveEmpty = Move(0)

const (
	FlagQuiet = iota
	FlagDoublePush
	FlagShortCastling
	FlagLongCastling
	FlagCapture
	FlagEnPassant
	flagReserved1
	flagReserved2
	FlagKnightPromotion
	FlagBishopPromotion
	FlagRookPromotion
	FlagQueenPromotion
	FlagKnightPromotionCapture
	FlagBishopPromotionCapture
	FlagRookPromotionCapture
	FlagQueenPromotionCapture
)

const (
	flagCaptureBit   = 4
	flagPromotionBit = 8
)

func NewMove(from, to, flag int) Move {
	return Move(from | (to << 6) | (flag << 12))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) Flag() int {
	return int(m >> 12)
}

func (m Move) IsQuiet() bool {
	return m.Flag()&(flagCaptureBit|flagPromotionBit) == 0
}

func (m Move) IsCapture() bool {
	return m.Flag()&flagCaptureBit != 0
}

func (m Move) IsPromotion() bool {
	return m.Flag()&flagPromotionBit != 0
}

func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

func (m Move) IsDoublePush() bool {
	return m.Flag() == FlagDoublePush
}

func (m Move) IsCastling() bool {
	var flag = m.Flag()
	return flag == FlagShortCastling || flag == FlagLongCastling
}

// Promotion returns the promoted piece kind or Empty.
func (m Move) Promotion() int {
	if !m.IsPromotion() {
		return Empty
	}
	return Knight + m.Flag()&3
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.IsPromotion() {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

func promotionFlag(piece int, capture bool) int {
	var flag = FlagKnightPromotion + piece - Knight
	if capture {
		flag |= flagCaptureBit
	}
	return flag
}
