package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/benjivesterby/go-fn-dsa/fndsa"
	"github.com/benjivesterby/go-fn-dsa/internal/keystore"
	"github.com/benjivesterby/go-fn-dsa/internal/logging"
)

// Summary holds the latency statistics of a benchmark run, in
// microseconds.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	P50    float64
	P99    float64
	Total  time.Duration
}

func summarize(latencies []float64, total time.Duration) (Summary, error) {
	s := Summary{Count: len(latencies), Total: total}
	var err error
	if s.Mean, err = stats.Mean(latencies); err != nil {
		return s, errors.Wrap(err, "mean latency")
	}
	if s.StdDev, err = stats.StandardDeviation(latencies); err != nil {
		return s, errors.Wrap(err, "latency deviation")
	}
	if s.P50, err = stats.Percentile(latencies, 50); err != nil {
		return s, errors.Wrap(err, "median latency")
	}
	if s.P99, err = stats.Percentile(latencies, 99); err != nil {
		return s, errors.Wrap(err, "99th percentile latency")
	}
	return s, nil
}

// Benchmark the signing with an ephemeral key: Count signatures are
// computed by Workers goroutines sharing a single expanded key, and
// each signature is verified.
func (r *Runner) bench(ctx context.Context) error {
	skey, vkey, err := fndsa.KeyGen(r.cfg.LogN, nil)
	if err != nil {
		return errors.Wrap(err, "key pair generation")
	}
	esk, err := r.keys.Expanded(skey)
	if err != nil {
		return err
	}
	verify := fndsa.Verify
	if r.cfg.Weak() {
		verify = fndsa.VerifyWeak
	}
	dctx := fndsa.DomainContext(r.cfg.Context)

	latencies := make([]float64, r.cfg.Count)
	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < r.cfg.Count; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	start := time.Now()
	for w := 0; w < r.cfg.Workers; w++ {
		g.Go(func() error {
			var msg [8]byte
			for i := range jobs {
				msg[0] = byte(i)
				msg[1] = byte(i >> 8)
				msg[2] = byte(i >> 16)
				msg[3] = byte(i >> 24)
				t0 := time.Now()
				sig, err := esk.Sign(nil, dctx, 0, msg[:])
				if err != nil {
					return errors.Wrapf(err, "signature %d", i)
				}
				latencies[i] = float64(time.Since(t0).Microseconds())
				if !verify(vkey, dctx, 0, msg[:], sig) {
					return errors.Errorf("signature %d does not verify", i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "benchmark")
	}

	sum, err := summarize(latencies, time.Since(start))
	if err != nil {
		return err
	}
	r.log.Info("benchmark complete",
		logging.String("key", keystore.Fingerprint(vkey)),
		logging.Uint("logn", r.cfg.LogN),
		logging.Int("workers", r.cfg.Workers),
		logging.Int("count", sum.Count),
		logging.Float64("mean_us", sum.Mean),
		logging.Float64("p99_us", sum.P99))
	_, err = fmt.Fprintf(r.stdout,
		"logn=%d workers=%d count=%d total=%v mean=%.1fus stddev=%.1fus p50=%.1fus p99=%.1fus\n",
		r.cfg.LogN, r.cfg.Workers, sum.Count, sum.Total.Round(time.Millisecond),
		sum.Mean, sum.StdDev, sum.P50, sum.P99)
	return errors.Wrap(err, "writing summary")
}
