package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/jwt"
)

func main() {
	var (
		alg         = flag.String("alg", "HS256", "signing algorithm")
		tokens      = flag.Int("tokens", 10000, "number of tokens to pre-sign for the verify phase")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (sign + verify)")
		audit       = flag.Bool("audit", false, "enable the audit dispatcher with a discarding sink")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	key, err := keyFor(*alg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := goJWT.DefaultConfig()
	cfg.Signing.Algorithm = *alg
	cfg.Signing.ExpiresIn = time.Hour
	cfg.Verification.Algorithms = []string{*alg}
	cfg.Audit.Enabled = *audit

	engine, err := goJWT.New().
		WithConfig(cfg).
		WithSigningKey(key).
		WithAuditSink(goJWT.NoOpSink{}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx := context.Background()

	fmt.Printf("signing %d %s tokens...\n", *tokens, *alg)
	startSeed := time.Now()
	signed := make([]string, *tokens)
	for i := range signed {
		tok, err := engine.Sign(ctx, claimsFor(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "sign failed: %v\n", err)
			os.Exit(1)
		}
		signed[i] = tok
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	signStats := runPhase(*ops, *concurrency, 7919, func(r *mrand.Rand, i int) error {
		_, err := engine.Sign(ctx, claimsFor(i))
		return err
	})
	verifyStats := runPhase(*ops, *concurrency, 6151, func(r *mrand.Rand, _ int) error {
		_, err := engine.Verify(ctx, signed[r.Intn(len(signed))])
		return err
	})

	fmt.Println("---- results ----")
	printStats("sign", signStats)
	printStats("verify", verifyStats)
	if *audit {
		fmt.Printf("audit dropped=%d\n", engine.AuditDropped())
	}
}

func keyFor(alg string) (any, error) {
	switch alg {
	case "HS256", "HS384", "HS512":
		return "jwt-loadtest-secret-jwt-loadtest-secret", nil
	case "RS256", "RS384", "RS512", "PS256", "PS384", "PS512":
		return rsa.GenerateKey(rand.Reader, 2048)
	case "ES256":
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case "ES384":
		return ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case "ES512":
		return ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	}
	return nil, fmt.Errorf("unsupported algorithm %q", alg)
}

func claimsFor(i int) jwt.Claims {
	return jwt.Claims{
		"sub":   fmt.Sprintf("user-%d", i),
		"scope": "read write",
	}
}

// runPhase spreads ops calls of op over concurrency workers. Each worker
// gets its own rand source seeded from salt.
func runPhase(ops, concurrency int, salt int64, op func(r *mrand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := mrand.New(mrand.NewSource(time.Now().UnixNano() + int64(worker)*salt))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
