package stress

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Distribution 페이로드 크기 변동의 분포입니다.
type Distribution string

const (
	DistributionUniform     Distribution = "uniform"
	DistributionGaussian    Distribution = "gaussian"
	DistributionExponential Distribution = "exponential"
)

// ParseDistribution 분포 이름을 해석합니다. "normal"은 gaussian과 같고, 알 수 없는 이름은 uniform으로 취급합니다.
func ParseDistribution(name string) Distribution {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gaussian", "normal":
		return DistributionGaussian
	case "exponential":
		return DistributionExponential
	default:
		return DistributionUniform
	}
}

// minPayloadSize 생성되는 페이로드의 최소 크기(float64 한 개)입니다.
const minPayloadSize = 8

// PayloadGenerator 기준 크기에서 ±variation% 범위로 흔들린 크기의 입력 벡터를 생성합니다.
// 여러 고루틴에서 동시에 사용할 수 있습니다.
type PayloadGenerator struct {
	baseSize     int64
	variation    int
	distribution Distribution

	mu  sync.Mutex
	rng *rand.Rand

	min, max, total int64
	count           int
}

// NewPayloadGenerator variationPercent는 0..100으로 보정됩니다. rng가 nil이면 현재 시각으로 시드를 정합니다.
func NewPayloadGenerator(baseSize int64, variationPercent int, distribution Distribution, rng *rand.Rand) *PayloadGenerator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	return &PayloadGenerator{
		baseSize:     baseSize,
		variation:    min(100, max(0, variationPercent)),
		distribution: distribution,
		rng:          rng,
		min:          math.MaxInt64,
	}
}

// GeneratePayload 크기 size를 뽑아 size/8개(최소 1개)의 원소가 모두 cbrt(42*8/size)인 벡터를 반환합니다.
func (g *PayloadGenerator) GeneratePayload() []float64 {
	size := g.GenerateSize()
	return InputVector(size)
}

// InputVector nbInputBytes 크기의 입력 벡터입니다.
func InputVector(nbInputBytes int64) []float64 {
	n := max(1, nbInputBytes/minPayloadSize)
	value := math.Cbrt(42.0 * 8 / float64(nbInputBytes))

	v := make([]float64, n)
	for i := range v {
		v[i] = value
	}
	return v
}

// GenerateSize 분포에 따라 페이로드 크기를 뽑고 통계에 반영합니다.
func (g *PayloadGenerator) GenerateSize() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	size := g.baseSize
	if g.variation > 0 {
		amount := float64(g.baseSize) * float64(g.variation) / 100.0

		var delta float64
		switch g.distribution {
		case DistributionGaussian:
			// Box-Muller 변환, σ = amount/3
			u1 := 1.0 - g.rng.Float64()
			u2 := 1.0 - g.rng.Float64()
			z := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
			delta = max(-amount, min(amount, z*(amount/3.0)))

		case DistributionExponential:
			e := -math.Log(1.0 - g.rng.Float64())
			normalized := min(1.0, e/5.0)
			delta = (normalized*2.0 - 1.0) * amount

		default:
			delta = (g.rng.Float64()*2.0 - 1.0) * amount
		}

		size = int64(max(minPayloadSize, float64(g.baseSize)+delta))
	}

	g.min = min(g.min, size)
	g.max = max(g.max, size)
	g.total += size
	g.count++

	return size
}

// Statistics 지금까지 생성한 크기의 통계를 보고서 형식으로 반환합니다.
// 변동이 없거나 생성한 적이 없으면 빈 문자열입니다.
func (g *PayloadGenerator) Statistics(label string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.count == 0 || g.variation <= 0 {
		return ""
	}

	p := message.NewPrinter(language.English)
	base := float64(g.baseSize)
	avg := float64(g.total) / float64(g.count)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Statistics:\n", label)
	sb.WriteString(p.Sprintf("  Base size      : %.1f KB\n", base/1024.0))
	sb.WriteString(p.Sprintf("  Generated avg  : %.1f KB\n", avg/1024.0))
	sb.WriteString(p.Sprintf("  Min generated  : %.1f KB (%+.1f%%)\n", float64(g.min)/1024.0, (float64(g.min)-base)*100.0/base))
	sb.WriteString(p.Sprintf("  Max generated  : %.1f KB (%+.1f%%)\n", float64(g.max)/1024.0, (float64(g.max)-base)*100.0/base))
	sb.WriteString(p.Sprintf("  Samples        : %d\n", g.count))

	return sb.String()
}
