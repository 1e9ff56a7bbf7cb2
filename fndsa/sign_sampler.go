package fndsa

import (
	"math/bits"
)

// Gaussian sampler parameters, for logn = 1 to 10 and n = 2^logn:
//
//	gs_norm = (117/100)*sqrt(q)
//	bitsec = max(2, n/4)
//	eps = 1/sqrt(bitsec*2^64)
//	smoothz2n = sqrt(log(4*n*(1 + 1/eps))/pi)/sqrt(2*pi)
//	sigma = smoothz2n*gs_norm
//	sigma_min = smoothz2n
//
// inv_sigma[logn] is 1/sigma; the normalized LDL tree leaves are scaled
// by it.
var inv_sigma = [11]f64{
	0,                    // unused
	0x1.c48eb7e241699p-8, // 0.0069054793295940881528
	0x1.be50a548caed8p-8, // 0.0068102267767177965681
	0x1.b852ee09e762bp-8, // 0.0067188101910722700565
	0x1.afc5ed3cada35p-8, // 0.0065883354370073655600
	0x1.a7b3b0976b3ecp-8, // 0.0064651781207602890978
	0x1.a011282ca9c97p-8, // 0.0063486788828078985744
	0x1.98d49ce5f2735p-8, // 0.0062382586529084365056
	0x1.91f57c56ed9edp-8, // 0.0061334065020930252290
	0x1.8b6c2de64c7c9p-8, // 0.0060336696681577231923
	0x1.8531ef6311ae2p-8, // 0.0059386453095331150985
}

var sigma_min = [11]f64{
	0,                    // unused
	0x1.1dd380644568bp+0, // 1.1165085072329102589
	0x1.21d2edcad8626p+0, // 1.1321247692325272406
	0x1.25c46e1aa7c7ap+0, // 1.1475285353733668685
	0x1.2b95c574afb25p+0, // 1.1702540788534828940
	0x1.314abc7fe22b6p+0, // 1.1925466358390344011
	0x1.36e4e3475d7c3p+0, // 1.2144300507766139921
	0x1.3c65a66a1c224p+0, // 1.2359260567719808790
	0x1.41ce5358cb3a0p+0, // 1.2570545284063214163
	0x1.47201bf1f7a75p+0, // 1.2778336969128335860
	0x1.4c5c19990c764p+0, // 1.2982803343442918540
}

// 1/(2*sigma0^2), with sigma0 = 1.8205 the standard deviation of the
// base half-Gaussian.
const inv_2sqrsigma0 = 0x1.34f8bc183bbc2p-3

// log(2) and 1/log(2)
const log2 = 0x1.62e42fefa39efp-1
const inv_log2 = 0x1.71547652b82fep+0

// Reverse cumulative distribution of the half-Gaussian of deviation
// sigma0, scaled to 2^72; each entry is split in three 24-bit limbs,
// high limb first.
var gaussian0_rcdt = [18][3]uint32{
	{10745844, 3068844, 3741698},
	{5559083, 1580863, 8248194},
	{2260429, 13669192, 2736639},
	{708981, 4421575, 10046180},
	{169348, 7122675, 4136815},
	{30538, 13063405, 7650655},
	{4132, 14505003, 7826148},
	{417, 16768101, 11363290},
	{31, 8444042, 8086568},
	{1, 12844466, 265321},
	{0, 1232676, 13644283},
	{0, 38047, 9111839},
	{0, 870, 6138264},
	{0, 14, 12545723},
	{0, 0, 3104126},
	{0, 0, 28824},
	{0, 0, 198},
	{0, 0, 1},
}

// Coefficients of the polynomial approximation of exp(-x), 2^63 scaled,
// highest degree first. From FACCT (https://eprint.iacr.org/2018/1234),
// implementation at https://github.com/raykzhao/gaussian.
var expm_coeffs = [13]uint64{
	0x00000004741183A3,
	0x00000036548CFC06,
	0x0000024FDCBF140A,
	0x0000171D939DE045,
	0x0000D00CF58F6F84,
	0x000680681CF796E3,
	0x002D82D8305B0FEA,
	0x011111110E066FD0,
	0x0555555555070F00,
	0x155555555581FF00,
	0x400000000002B400,
	0x7FFFFFFFFFFF4800,
	0x8000000000000000,
}

// samplerZ samples integers from a discrete Gaussian distribution, with
// the provided centre (mu) and inverse of standard deviation (isigma).
// The fast Fourier sampling uses it for each leaf of the LDL tree; all
// its calls happen in a fixed, deterministic order.
type samplerZ interface {
	next(mu f64, isigma f64) int32
}

// Gaussian sampler over SHAKE256x4, for one degree.
type sampler struct {
	pc        *shake256x4
	sigma_min f64
}

func newSampler(logn uint, seed []byte) *sampler {
	return &sampler{
		pc:        newSHAKE256x4(seed),
		sigma_min: sigma_min[logn],
	}
}

// Reinitialize the sampler with a new seed; the result is the same as
// that of a new sampler with that seed, without any allocation.
func (s *sampler) reseed(seed []byte) {
	s.pc.reseed(seed)
}

// Sample from the base half-Gaussian (centre 0, deviation sigma0). The
// output is the number of table entries greater than a uniform 72-bit
// value; the whole table is always scanned.
func (s *sampler) gaussian0() int32 {
	lo := s.pc.next_u64()
	hi := s.pc.next_u8()
	v0 := uint32(lo) & 0xFFFFFF
	v1 := uint32(lo>>24) & 0xFFFFFF
	v2 := uint32(lo>>48) | (uint32(hi) << 16)

	z := int32(0)
	for _, e := range gaussian0_rcdt {
		// borrow of v - e, limb by limb
		cc := (v0 - e[2]) >> 31
		cc = (v1 - e[1] - cc) >> 31
		cc = (v2 - e[0] - cc) >> 31
		z += int32(cc)
	}
	return z
}

// Return ccs*exp(-x)*2^63, rounded, for 0 <= x < log(2) and
// 0 <= ccs <= 1. Output is in [0,2^63].
func expm_p63(x f64, ccs f64) uint64 {
	// Horner evaluation in 64-bit fixed point; Mul64 is constant-time.
	z := f64_mtwop63(x) << 1
	w := f64_mtwop63(ccs) << 1
	y := expm_coeffs[0]
	for _, c := range expm_coeffs[1:] {
		hi, _ := bits.Mul64(y, z)
		y = c - hi
	}
	hi, _ := bits.Mul64(y, w)
	return hi
}

// Return true with probability ccs*exp(-x), for x >= 0.
func (s *sampler) ber_exp(x f64, ccs f64) bool {
	// x = t*log(2) + r, with 0 <= r < log(2)
	ti := f64_trunc(f64_mul(x, inv_log2))
	r := f64_sub(x, f64_mul(f64_of_i32(ti), log2))

	// ccs*exp(-x) = ccs*exp(-r)/2^t, 2^64 scaled; t is saturated to 63
	// (t >= 64 has probability about 2^-32 and then the result would
	// be below 2^-64 anyway). The -1 avoids the overflow of 2^63*2.
	t := uint32(ti)
	t |= (63 - t) >> 26
	z := ursh((expm_p63(r, ccs)<<1)-1, t)

	// Compare z with a uniform 64-bit value, lazily, high byte first.
	for sh := 56; sh >= 0; sh -= 8 {
		w := s.pc.next_u8()
		bz := uint8(z >> sh)
		if w != bz {
			return w < bz
		}
	}
	return false
}

// Sample the next value with centre mu and inverse deviation isigma
// (1/sigma, with sigma_min <= sigma <= sigma0).
func (s *sampler) next(mu f64, isigma f64) int32 {
	// mu = t + r, t integer, 0 <= r < 1
	t := f64_floor(mu)
	r := f64_sub(mu, f64_of_i32(t))

	// 1/(2*sigma^2)
	dss := f64_half(f64_sqr(isigma))

	// sigma_min/sigma: scaling the acceptance probability by it makes
	// the rejection rate independent of sigma.
	ccs := f64_mul(isigma, s.sigma_min)

	for {
		// Candidate from the bimodal distribution around 0 and 1: z0+1
		// or -z0, depending on a random bit.
		z0 := s.gaussian0()
		b := int32(s.pc.next_u8()) & 1
		z := b + ((b<<1)-1)*z0

		// Accept with probability
		//   ccs*exp((z0^2)/(2*sigma0^2) - ((z-r)^2)/(2*sigma^2))
		x := f64_mul(f64_sqr(f64_sub(f64_of_i32(z), r)), dss)
		x = f64_sub(x, f64_mul(f64_of_i32(z0*z0), inv_2sqrsigma0))
		if s.ber_exp(x, ccs) {
			return t + z
		}
	}
}
