package fndsa

// Sampling of f and g for key generation.
//
// Each coefficient follows a discrete Gaussian centred on zero. The
// distribution is given by a table of 16-bit cumulative thresholds: a
// uniform 16-bit value y yields k - kmax, where k is the number of
// thresholds lower than y, and kmax is half the table size. For degrees
// below 256 the table for 256 is used, and 256/n samples are added.

type gaussTable struct {
	cdf  []uint16
	reps int
}

func gauss_table(logn uint) gaussTable {
	switch logn {
	case 9:
		// kmax = 17
		return gaussTable{
			cdf: []uint16{
				1, 4, 11, 28, 65, 146, 308, 615,
				1164, 2083, 3535, 5692, 8706, 12669, 17574, 23285,
				29542, 35993, 42250, 47961, 52866, 56829, 59843, 62000,
				63452, 64371, 64920, 65227, 65389, 65470, 65507, 65524,
				65531, 65534,
			},
			reps: 1,
		}
	case 10:
		// kmax = 12
		return gaussTable{
			cdf: []uint16{
				2, 8, 28, 94, 280, 742, 1761, 3753,
				7197, 12472, 19623, 28206, 37329, 45912, 53063, 58338,
				61782, 63774, 64793, 65255, 65441, 65507, 65527, 65533,
			},
			reps: 1,
		}
	}
	// n = 256, kmax = 24
	return gaussTable{
		cdf: []uint16{
			1, 3, 6, 11, 22, 40, 73, 129,
			222, 371, 602, 950, 1460, 2183, 3179, 4509,
			6231, 8395, 11032, 14150, 17726, 21703, 25995, 30487,
			35048, 39540, 43832, 47809, 51385, 54503, 57140, 59304,
			61026, 62356, 63352, 64075, 64585, 64933, 65164, 65313,
			65406, 65462, 65495, 65513, 65524, 65529, 65532, 65534,
		},
		reps: 1 << (8 - min(logn, 8)),
	}
}

// Sample one coefficient. The value is returned scaled by 2^16, so that
// its low bit is in bit 16 (the comparisons below borrow into the high
// half only). The whole table is scanned for each sample.
func (gt gaussTable) sample(pc *shake256x4) uint32 {
	kmax := uint32(len(gt.cdf)>>1) << 16
	v := uint32(0)
	for r := 0; r < gt.reps; r++ {
		y := uint32(pc.next_u16())
		v -= kmax
		for _, c := range gt.cdf {
			// adds 2^16 (mod 2^32) when c < y
			v -= (uint32(c) - y) & ^uint32(0xFFFF)
		}
	}
	return v
}

// Sample f (or g) from the provided SHAKE256x4 PRNG. Values outside of
// [-127,+127] (possible for small degrees) are resampled; the whole
// polynomial is resampled until its parity is odd.
func sample_f(logn uint, pc *shake256x4, f []int8) {
	n := 1 << logn
	gt := gauss_table(logn)
	for {
		parity := uint32(0)
		for i := 0; i < n; {
			v := gt.sample(pc)
			s := int32(v) >> 16
			if s < -127 || s > +127 {
				continue
			}
			f[i] = int8(s)
			parity ^= v
			i++
		}
		if (parity>>16)&1 != 0 {
			return
		}
	}
}
