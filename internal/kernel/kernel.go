// Package kernel 실행 시간을 조절할 수 있는 합성(synthetic) 연산 커널을 제공합니다.
//
// 실제 가격 계산 루틴을 흉내 내어, 워커가 Task 하나를 처리하는 데 걸리는 벽시계 시간을
// 입력값으로 지정할 수 있게 합니다. 스케줄러와 워커 풀의 부하/지연 테스트에 사용합니다.
//
// 커널은 공유 상태가 없는 순수 함수이며, 호출 스레드를 요청된 시간 동안 점유하는
// busy-wait 방식으로 동작합니다. 실행 도중 취소할 수 없습니다.
package kernel

import (
	"math"
	"time"
)

// Request 커널 호출 인자입니다.
type Request struct {
	Input      []float64
	WorkloadMs int // 0 이하이면 1ms로 간주합니다.
	OutputSize int

	// ReduceLen 세제곱 합을 구할 입력 원소 수입니다.
	// 0 이하이면 min(OutputSize, len(Input)), 입력 길이보다 크면 len(Input)입니다.
	ReduceLen int
}

// Result 커널의 출력과 실행 관측값입니다. Output은 호출자가 소유합니다.
type Result struct {
	Output     []float64
	Elapsed    time.Duration
	Iterations int
}

// Compute 입력 벡터의 세제곱 합을 구해, 그 값을 outputSize로 나눈 값으로 채운 출력 벡터를
// workloadMs 밀리초 이상 걸려 생성합니다.
//
// 세제곱 합은 입력의 앞쪽 min(outputSize, len(input))개 원소에 대해서만 계산합니다.
// 따라서 outputSize가 입력 길이보다 커도 입력 범위를 벗어나 읽지 않습니다.
//
// 입력이 비어 있거나 outputSize <= 0 이면 ErrInvalidArgument를 반환하며 출력은 nil입니다.
func Compute(input []float64, workloadMs int, outputSize int) ([]float64, error) {
	r, err := Run(Request{Input: input, WorkloadMs: workloadMs, OutputSize: outputSize})
	if err != nil {
		return nil, err
	}
	return r.Output, nil
}

// Run Compute와 같지만 실제 소요 시간과 루프 반복 횟수를 함께 반환합니다.
func Run(req Request) (Result, error) {
	if len(req.Input) == 0 || req.OutputSize <= 0 {
		return Result{}, ErrInvalidArgument
	}

	workload := time.Duration(max(req.WorkloadMs, 1)) * time.Millisecond

	output := make([]float64, req.OutputSize)
	value := reduce(req.Input, req.reduceLen()) / float64(req.OutputSize)

	start := time.Now()

	// 모든 슬롯을 한 번 이상 채우고, 요청 시간이 지날 때까지 반복합니다.
	iterations, cursor := 0, 0
	elapsed := time.Duration(0)
	for iterations < req.OutputSize || elapsed < workload {
		output[cursor] = value
		cursor++
		if cursor == req.OutputSize {
			cursor = 0
		}
		iterations++
		elapsed = time.Since(start)
	}

	return Result{Output: output, Elapsed: elapsed, Iterations: iterations}, nil
}

func (req Request) reduceLen() int {
	if req.ReduceLen <= 0 {
		return min(req.OutputSize, len(req.Input))
	}
	return min(req.ReduceLen, len(req.Input))
}

// reduce input[0:n]의 세제곱 합
func reduce(input []float64, n int) float64 {
	var sum float64
	for _, v := range input[:n] {
		sum += math.Pow(v, 3)
	}
	return sum
}
