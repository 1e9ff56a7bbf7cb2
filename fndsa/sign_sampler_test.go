package fndsa

import (
	"math/big"
	"testing"

	"github.com/ALTree/bigfloat"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

const sampler_test_prec = 256

func bf(x int64) *big.Float {
	return new(big.Float).SetPrec(sampler_test_prec).SetInt64(x)
}

// smoothz2n for degree n = 2^logn, recomputed with high precision.
func smoothz2n(logn uint) *big.Float {
	pi, _, err := big.ParseFloat(
		"3.14159265358979323846264338327950288419716939937510582097494459230781640628620899863",
		10, sampler_test_prec, big.ToNearestEven)
	if err != nil {
		panic(err)
	}
	n := int64(1) << logn
	bitsec := n / 4
	if bitsec < 2 {
		bitsec = 2
	}

	// 1/eps = sqrt(bitsec*2^64)
	ieps := new(big.Float).SetMantExp(bf(bitsec), 64)
	ieps.Sqrt(ieps)

	// log(4*n*(1 + 1/eps))/pi
	x := new(big.Float).Add(bf(1), ieps)
	x.Mul(x, bf(4*n))
	x = bigfloat.Log(x)
	x.Quo(x, pi)
	x.Sqrt(x)

	tpi := new(big.Float).Mul(bf(2), pi)
	tpi.Sqrt(tpi)
	return x.Quo(x, tpi)
}

func TestSamplerTables(t *testing.T) {
	// gs_norm = (117/100)*sqrt(q)
	gs := new(big.Float).Sqrt(bf(q))
	gs.Mul(gs, bf(117))
	gs.Quo(gs, bf(100))
	for logn := uint(1); logn <= 10; logn++ {
		sm := smoothz2n(logn)
		want, _ := sm.Float64()
		require.InEpsilon(t, want, sigma_min[logn], 1e-12, "sigma_min[%d]", logn)

		isg := new(big.Float).Mul(sm, gs)
		isg.Quo(bf(1), isg)
		want, _ = isg.Float64()
		require.InEpsilon(t, want, inv_sigma[logn], 1e-12, "inv_sigma[%d]", logn)
	}

	// 1/(2*(sigma0^2)), sigma0 = 1.8205
	s0 := new(big.Float).Quo(bf(18205), bf(10000))
	s0.Mul(s0, s0)
	s0.Mul(s0, bf(2))
	s0.Quo(bf(1), s0)
	want, _ := s0.Float64()
	require.InEpsilon(t, want, inv_2sqrsigma0, 1e-12)

	// log(2) and 1/log(2)
	l2 := bigfloat.Log(bf(2))
	want, _ = l2.Float64()
	require.InEpsilon(t, want, log2, 1e-15)
	want, _ = new(big.Float).Quo(bf(1), l2).Float64()
	require.InEpsilon(t, want, inv_log2, 1e-15)
}

// expm_p63(x, ccs) approximates 2^63*ccs*exp(-x).
func TestSamplerExpm(t *testing.T) {
	r := newSHAKE256x4([]byte("expm"))
	for i := 0; i < 1000; i++ {
		// x in [0, log(2)], ccs in [0, 1]
		x := f64_mul(f64_scaled(int64(r.next_u64()>>11), -53), log2)
		ccs := f64_scaled(int64(r.next_u64()>>11), -53)
		got := float64(expm_p63(x, ccs))

		e := bigfloat.Exp(new(big.Float).SetPrec(sampler_test_prec).Neg(
			new(big.Float).SetPrec(sampler_test_prec).SetFloat64(x)))
		e.Mul(e, new(big.Float).SetPrec(sampler_test_prec).SetFloat64(ccs))
		e.SetMantExp(e, 63)
		want, _ := e.Float64()
		require.InDelta(t, want, got, 1e-9*(1<<63)+1, "x=%v ccs=%v", x, ccs)
	}
}

func TestSamplerReseed(t *testing.T) {
	for logn := uint(1); logn <= 10; logn++ {
		s1 := newSampler(logn, []byte("first"))
		for i := 0; i < 100; i++ {
			s1.next(f64_scaled(int64(i), -3), inv_sigma[logn]*100)
		}
		s1.reseed([]byte("second"))
		s2 := newSampler(logn, []byte("second"))
		for i := 0; i < 1000; i++ {
			mu := f64_scaled(int64(i)-500, -4)
			isigma := f64_mul(inv_sigma[logn], 100)
			require.Equal(t, s2.next(mu, isigma), s1.next(mu, isigma),
				"logn=%d i=%d", logn, i)
		}
	}
}

func TestSamplerDistribution(t *testing.T) {
	const logn = 9
	const mu = -7.3
	const sigma = 1.7
	s := newSampler(logn, []byte("distribution"))
	values := make([]float64, 100000)
	for i := range values {
		values[i] = float64(s.next(mu, 1/sigma))
	}
	mean, err := stats.Mean(values)
	require.NoError(t, err)
	variance, err := stats.Variance(values)
	require.NoError(t, err)
	require.InDelta(t, mu, mean, 0.03)
	require.InDelta(t, sigma*sigma, variance, 0.1)
}
