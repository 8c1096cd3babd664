package common

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// Magic maps the relevant occupancy of a slider square to a slot of a shared attack slice:
// Offset + ((occ & Mask) * Mult) >> Shift.
type Magic struct {
	Mask   uint64
	Mult   uint64
	Shift  uint
	Offset int
}

func (m *Magic) index(occ uint64) int {
	return m.Offset + int(((occ&m.Mask)*m.Mult)>>m.Shift)
}

// https://www.chessprogramming.org/Magic_Bitboards
const (
	fixedBishopShift = 55
	fixedRookShift   = 52
)

var fixedRookMult = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

var fixedBishopMult = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var (
	rookDirections   = [...]func(uint64) uint64{Up, Right, Down, Left}
	bishopDirections = [...]func(uint64) uint64{UpRight, UpLeft, DownRight, DownLeft}
)

// slideAttacks walks every direction from sq until the first blocker, blocker included.
func slideAttacks(sq int, occ uint64, directions []func(uint64) uint64) uint64 {
	var result uint64
	for _, shift := range directions {
		var x = shift(SquareMask(sq))
		for x != 0 {
			result |= x
			if (x & occ) != 0 {
				break
			}
			x = shift(x)
		}
	}
	return result
}

// relevantMask drops the last square of every ray since a blocker there changes nothing.
func relevantMask(sq int, directions []func(uint64) uint64) uint64 {
	var result uint64
	for _, shift := range directions {
		var x = shift(SquareMask(sq))
		for x != 0 && shift(x) != 0 {
			result |= x
			x = shift(x)
		}
	}
	return result
}

// magicify returns the index-th subset of the bits of b.
func magicify(b uint64, index int) uint64 {
	var bitmask uint64
	var count = PopCount(b)

	for i, our := 0, b; i < count; i++ {
		their := ((our - 1) & our) ^ our
		our &= our - 1
		if (1<<uint(i))&index != 0 {
			bitmask |= their
		}
	}

	return bitmask
}

func newMagicRNG(seed uint64) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	binary.LittleEndian.PutUint64(key[8:], seed^0x9E3779B97F4A7C15)
	return frand.NewCustom(key[:], 1024, 12)
}

func randomUint64(rng *frand.RNG) uint64 {
	var buf [8]byte
	rng.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

const maxMagicAttempts = 100_000_000

// FindMagic searches for a multiplier that maps every occupancy subset of mask
// into 1<<bits slots without two different attack sets sharing a slot.
func FindMagic(rng *frand.RNG, sq int, mask uint64, bits int,
	directions []func(uint64) uint64) (uint64, error) {

	var count = 1 << uint(PopCount(mask))
	var occupancies = make([]uint64, count)
	var attacks = make([]uint64, count)
	for i := 0; i < count; i++ {
		occupancies[i] = magicify(mask, i)
		attacks[i] = slideAttacks(sq, occupancies[i], directions)
	}

	var shift = uint(64 - bits)
	var used = make([]uint64, 1<<uint(bits))
	var epoch = make([]int, 1<<uint(bits))

	for attempt := 1; attempt <= maxMagicAttempts; attempt++ {
		var mult = randomUint64(rng) & randomUint64(rng) & randomUint64(rng)
		if PopCount((mask*mult)&0xFF00000000000000) < 6 {
			continue
		}
		var ok = true
		for i := 0; i < count && ok; i++ {
			var idx = (occupancies[i] * mult) >> shift
			if epoch[idx] != attempt {
				epoch[idx] = attempt
				used[idx] = attacks[i]
			} else if used[idx] != attacks[i] {
				ok = false
			}
		}
		if ok {
			return mult, nil
		}
	}
	return 0, errors.Errorf("no magic found for square %v", SquareName(sq))
}

// VerifyMagic reports whether m produces correct attacks for every occupancy of its mask.
func VerifyMagic(m *Magic, sq int, table []uint64, directions []func(uint64) uint64) bool {
	var count = 1 << uint(PopCount(m.Mask))
	for i := 0; i < count; i++ {
		var occ = magicify(m.Mask, i)
		if table[m.index(occ)] != slideAttacks(sq, occ, directions) {
			return false
		}
	}
	return true
}
