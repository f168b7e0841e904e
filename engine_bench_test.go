package goJWT

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/MrEthical07/goJWT/jwt"
)

func benchmarkEngine(b *testing.B, alg string, key any) *Engine {
	b.Helper()
	cfg := defaultConfig()
	cfg.Signing.Algorithm = alg
	cfg.Verification.Algorithms = []string{alg}
	engine, err := New().WithConfig(cfg).WithSigningKey(key).Build()
	if err != nil {
		b.Fatalf("build %s: %v", alg, err)
	}
	b.Cleanup(engine.Close)
	return engine
}

func benchmarkKeys(b *testing.B) map[string]any {
	b.Helper()
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		b.Fatal(err)
	}
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		b.Fatal(err)
	}
	return map[string]any{
		"HS256": testSecret,
		"RS256": rsaKey,
		"ES256": ecKey,
	}
}

func BenchmarkEngineSign(b *testing.B) {
	keys := benchmarkKeys(b)
	for _, alg := range []string{"HS256", "RS256", "ES256"} {
		b.Run(alg, func(b *testing.B) {
			engine := benchmarkEngine(b, alg, keys[alg])
			ctx := context.Background()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Sign(ctx, jwt.Claims{"sub": "bench"}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEngineVerifyParallel(b *testing.B) {
	keys := benchmarkKeys(b)
	for _, alg := range []string{"HS256", "RS256", "ES256"} {
		b.Run(alg, func(b *testing.B) {
			engine := benchmarkEngine(b, alg, keys[alg])
			tok, err := engine.Sign(context.Background(), jwt.Claims{"sub": "bench"})
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				ctx := context.Background()
				for pb.Next() {
					if _, err := engine.Verify(ctx, tok); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}
