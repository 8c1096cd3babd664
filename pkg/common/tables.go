package common

// DefaultSeed drives Zobrist key generation, and magic discovery when requested.
const DefaultSeed uint64 = 0x5A7A6E67

// Tables are the immutable lookup structures shared by every board and search thread.
type Tables struct {
	KnightAttacks [64]uint64
	KingAttacks   [64]uint64
	PawnAttacks   [COLOUR_NB][64]uint64
	Between       [64][64]uint64
	Zobrist       Zobrist
	PST           [COLOUR_NB][PIECE_NB][64]Score
	rookMagics    [64]Magic
	bishopMagics  [64]Magic
	rookAttacks   []uint64
	bishopAttacks []uint64
}

// NewTables builds the tables from the fixed magic multipliers.
func NewTables() *Tables {
	var t = &Tables{}
	t.initJumps()
	var rookOffset, bishopOffset int
	for sq := 0; sq < 64; sq++ {
		t.rookMagics[sq] = Magic{
			Mask:   relevantMask(sq, rookDirections[:]),
			Mult:   fixedRookMult[sq],
			Shift:  fixedRookShift,
			Offset: rookOffset,
		}
		rookOffset += 1 << (64 - fixedRookShift)
		t.bishopMagics[sq] = Magic{
			Mask:   relevantMask(sq, bishopDirections[:]),
			Mult:   fixedBishopMult[sq],
			Shift:  fixedBishopShift,
			Offset: bishopOffset,
		}
		bishopOffset += 1 << (64 - fixedBishopShift)
	}
	t.fillSliders(rookOffset, bishopOffset)
	t.initBetween()
	t.Zobrist = newZobrist(newMagicRNG(DefaultSeed))
	t.PST = buildPST()
	return t
}

// NewTablesWithSeed discovers the magic multipliers with a generator seeded by seed.
// The same seed always produces the same tables.
func NewTablesWithSeed(seed uint64) (*Tables, error) {
	var t = &Tables{}
	t.initJumps()
	var rng = newMagicRNG(seed)
	var rookOffset, bishopOffset int
	for sq := 0; sq < 64; sq++ {
		var mask = relevantMask(sq, rookDirections[:])
		var bits = PopCount(mask)
		var mult, err = FindMagic(rng, sq, mask, bits, rookDirections[:])
		if err != nil {
			return nil, err
		}
		t.rookMagics[sq] = Magic{Mask: mask, Mult: mult, Shift: uint(64 - bits), Offset: rookOffset}
		rookOffset += 1 << uint(bits)

		mask = relevantMask(sq, bishopDirections[:])
		bits = PopCount(mask)
		mult, err = FindMagic(rng, sq, mask, bits, bishopDirections[:])
		if err != nil {
			return nil, err
		}
		t.bishopMagics[sq] = Magic{Mask: mask, Mult: mult, Shift: uint(64 - bits), Offset: bishopOffset}
		bishopOffset += 1 << uint(bits)
	}
	t.fillSliders(rookOffset, bishopOffset)
	t.initBetween()
	t.Zobrist = newZobrist(newMagicRNG(DefaultSeed))
	t.PST = buildPST()
	return t, nil
}

func (t *Tables) initJumps() {
	for sq := 0; sq < 64; sq++ {
		var b = SquareMask(sq)

		t.PawnAttacks[SideWhite][sq] = Up(Left(b) | Right(b))
		t.PawnAttacks[SideBlack][sq] = Down(Left(b) | Right(b))

		t.KnightAttacks[sq] = Right(UpRight(b)) | Up(UpRight(b)) |
			Up(UpLeft(b)) | Left(UpLeft(b)) |
			Left(DownLeft(b)) | Down(DownLeft(b)) |
			Down(DownRight(b)) | Right(DownRight(b))

		t.KingAttacks[sq] = UpRight(b) | Up(b) | UpLeft(b) | Left(b) |
			DownLeft(b) | Down(b) | DownRight(b) | Right(b)
	}
}

func (t *Tables) fillSliders(rookSize, bishopSize int) {
	t.rookAttacks = make([]uint64, rookSize)
	t.bishopAttacks = make([]uint64, bishopSize)
	for sq := 0; sq < 64; sq++ {
		var m = &t.rookMagics[sq]
		var count = 1 << uint(PopCount(m.Mask))
		for i := 0; i < count; i++ {
			var occ = magicify(m.Mask, i)
			t.rookAttacks[m.index(occ)] = slideAttacks(sq, occ, rookDirections[:])
		}

		m = &t.bishopMagics[sq]
		count = 1 << uint(PopCount(m.Mask))
		for i := 0; i < count; i++ {
			var occ = magicify(m.Mask, i)
			t.bishopAttacks[m.index(occ)] = slideAttacks(sq, occ, bishopDirections[:])
		}
	}
}

func (t *Tables) initBetween() {
	for s1 := 0; s1 < 64; s1++ {
		for s2 := 0; s2 < 64; s2++ {
			if s1 == s2 || (t.QueenAttacks(s1, 0)&SquareMask(s2)) == 0 {
				continue
			}
			var delta = (s2 - s1) / SquareDistance(s1, s2)
			for s := s1 + delta; s != s2; s += delta {
				t.Between[s1][s2] |= SquareMask(s)
			}
		}
	}
}

func (t *Tables) RookAttacks(from int, occ uint64) uint64 {
	return t.rookAttacks[t.rookMagics[from].index(occ)]
}

func (t *Tables) BishopAttacks(from int, occ uint64) uint64 {
	return t.bishopAttacks[t.bishopMagics[from].index(occ)]
}

func (t *Tables) QueenAttacks(from int, occ uint64) uint64 {
	return t.RookAttacks(from, occ) | t.BishopAttacks(from, occ)
}

// RookMagic and BishopMagic expose the per-square magic entries for diagnostics.
func (t *Tables) RookMagic(sq int) Magic {
	return t.rookMagics[sq]
}

func (t *Tables) BishopMagic(sq int) Magic {
	return t.bishopMagics[sq]
}

// VerifySliders checks every slider table entry against a ray walk.
func (t *Tables) VerifySliders() bool {
	for sq := 0; sq < 64; sq++ {
		if !VerifyMagic(&t.rookMagics[sq], sq, t.rookAttacks, rookDirections[:]) ||
			!VerifyMagic(&t.bishopMagics[sq], sq, t.bishopAttacks, bishopDirections[:]) {
			return false
		}
	}
	return true
}
