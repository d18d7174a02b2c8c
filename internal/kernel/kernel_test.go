package kernel

import (
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       []float64
		workloadMs  int
		outputSize  int
		want        []float64
		minDuration time.Duration
	}{
		{
			name:        "세제곱 합 36을 3으로 나눈 값",
			input:       []float64{1, 2, 3},
			workloadMs:  5,
			outputSize:  3,
			want:        []float64{12, 12, 12},
			minDuration: 5 * time.Millisecond,
		},
		{
			name:        "workload 0은 1ms로 간주",
			input:       []float64{2},
			workloadMs:  0,
			outputSize:  1,
			want:        []float64{8},
			minDuration: time.Millisecond,
		},
		{
			name:        "음수 workload도 1ms로 간주",
			input:       []float64{2},
			workloadMs:  -10,
			outputSize:  1,
			want:        []float64{8},
			minDuration: time.Millisecond,
		},
		{
			name:        "outputSize가 입력보다 크면 입력 길이까지만 축약",
			input:       []float64{1, 2},
			workloadMs:  1,
			outputSize:  4,
			want:        []float64{2.25, 2.25, 2.25, 2.25},
			minDuration: time.Millisecond,
		},
		{
			name:        "outputSize가 입력보다 작으면 앞쪽 원소만 축약",
			input:       []float64{1, 2, 3},
			workloadMs:  1,
			outputSize:  2,
			want:        []float64{4.5, 4.5},
			minDuration: time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start := time.Now()
			got, err := Compute(tt.input, tt.workloadMs, tt.outputSize)
			elapsed := time.Since(start)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, elapsed, tt.minDuration)
		})
	}
}

func TestCompute_InvalidArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      []float64
		outputSize int
	}{
		{"outputSize 0", []float64{1, 2, 3}, 0},
		{"음수 outputSize", []float64{1}, -1},
		{"빈 입력", []float64{}, 3},
		{"nil 입력", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Compute(tt.input, 5, tt.outputSize)

			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		})
	}
}

func TestRun_Observation(t *testing.T) {
	t.Parallel()

	r, err := Run(Request{Input: []float64{1, 1, 1, 1, 1}, WorkloadMs: 3, OutputSize: 5})
	require.NoError(t, err)

	assert.Len(t, r.Output, 5)
	assert.GreaterOrEqual(t, r.Elapsed, 3*time.Millisecond)
	assert.GreaterOrEqual(t, r.Iterations, 5, "모든 슬롯이 최소 한 번은 채워져야 합니다")
	for _, v := range r.Output {
		assert.Equal(t, 1.0, v)
	}
}

func TestRun_ReduceLen(t *testing.T) {
	t.Parallel()

	// 세제곱: 1, 8, 27, 64
	input := []float64{1, 2, 3, 4}

	tests := []struct {
		name      string
		reduceLen int
		want      float64
	}{
		{"기본값은 출력 크기만큼", 0, 9.0 / 2},
		{"입력 일부", 3, 36.0 / 2},
		{"입력 전체", 4, 100.0 / 2},
		{"입력 길이 초과는 입력 전체", 10, 100.0 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := Run(Request{Input: input, WorkloadMs: 1, OutputSize: 2, ReduceLen: tt.reduceLen})
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.want, tt.want}, r.Output)
		})
	}
}

func TestRun_LargeOutputIsFullyPopulated(t *testing.T) {
	t.Parallel()

	input := make([]float64, 100_000)
	for i := range input {
		input[i] = 1
	}

	r, err := Run(Request{Input: input, WorkloadMs: 1, OutputSize: len(input)})
	require.NoError(t, err)

	for i, v := range r.Output {
		if v != 1.0 {
			t.Fatalf("output[%d] = %v, want 1", i, v)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	input := []float64{0.5, 1.5, 2.5, 3.5}

	first, err := Compute(input, 1, 4)
	require.NoError(t, err)
	second, err := Compute(input, 4, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second, "값은 실행 시간과 무관해야 합니다")
}

func TestCompute_ConcurrentCallsAreIndependent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	results := make([][]float64, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Compute([]float64{float64(i + 1)}, 2, 1)
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()

	for i, out := range results {
		v := float64(i + 1)
		assert.Equal(t, []float64{v * v * v}, out)
	}
}
