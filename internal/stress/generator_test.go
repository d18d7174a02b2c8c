package stress

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestParseDistribution(t *testing.T) {
	t.Parallel()

	tests := map[string]Distribution{
		"uniform":      DistributionUniform,
		"Gaussian":     DistributionGaussian,
		"normal":       DistributionGaussian,
		" exponential": DistributionExponential,
		"unknown":      DistributionUniform,
		"":             DistributionUniform,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseDistribution(in), in)
	}
}

func TestInputVector(t *testing.T) {
	t.Parallel()

	v := InputVector(64)
	assert.Len(t, v, 8)
	assert.InDelta(t, math.Cbrt(42.0*8/64), v[0], 1e-12)

	assert.Len(t, InputVector(4), 1, "최소 한 개의 원소를 가집니다")
}

func TestPayloadGenerator_NoVariation(t *testing.T) {
	t.Parallel()

	g := NewPayloadGenerator(1024, 0, DistributionGaussian, seeded())
	for range 10 {
		assert.Equal(t, int64(1024), g.GenerateSize())
	}
	assert.Len(t, g.GeneratePayload(), 128)
	assert.Empty(t, g.Statistics("Payload"), "변동이 없으면 통계를 출력하지 않습니다")
}

func TestPayloadGenerator_Bounds(t *testing.T) {
	t.Parallel()

	for _, d := range []Distribution{DistributionUniform, DistributionGaussian, DistributionExponential} {
		t.Run(string(d), func(t *testing.T) {
			t.Parallel()

			g := NewPayloadGenerator(10000, 20, d, seeded())
			for range 1000 {
				size := g.GenerateSize()
				assert.GreaterOrEqual(t, size, int64(8000))
				assert.LessOrEqual(t, size, int64(12000))
			}

			stats := g.Statistics("Payload")
			assert.True(t, strings.HasPrefix(stats, "Payload Statistics:"))
			assert.Contains(t, stats, "Samples        : 1,000")
		})
	}
}

func TestPayloadGenerator_ClampsVariation(t *testing.T) {
	t.Parallel()

	g := NewPayloadGenerator(100, 500, DistributionUniform, seeded())
	assert.Equal(t, 100, g.variation)

	for range 200 {
		assert.GreaterOrEqual(t, g.GenerateSize(), int64(minPayloadSize))
	}

	assert.Equal(t, 0, NewPayloadGenerator(100, -5, DistributionUniform, nil).variation)
}
