package main

import (
	"fmt"
	"io"

	"github.com/darkkaiser/armonik-samples/internal/kernel"
)

const rejectMessage = "Cannot execute function with nb element <= 0"

func reject(w io.Writer) {
	fmt.Fprintln(w, rejectMessage)
}

// price C 경계 바깥에서 검증 가능한 FakePricing의 본체입니다.
// 거부된 경우 진단 메시지를 w에 기록하고 false를 반환합니다.
func price(input []float64, workLoadTimeInMs, nbOutputElement int, w io.Writer) ([]float64, bool) {
	out, err := kernel.Compute(input, workLoadTimeInMs, nbOutputElement)
	if err != nil {
		reject(w)
		return nil, false
	}
	return out, true
}
