package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// invoke C 호출자와 같은 방식으로 FakePricing을 호출합니다.
// 입력을 C 메모리에 복사해 전달하고, 반환된 버퍼는 Go 슬라이스로 복사한 뒤 FreePricingResult로 해제합니다.
// FakePricing이 NULL을 반환하면 false입니다.
func invoke(input []float64, workLoadTimeInMs, nbInputElement, nbOutputElement int) ([]float64, bool) {
	var in *C.double
	if len(input) > 0 {
		in = (*C.double)(C.malloc(C.size_t(len(input)) * C.size_t(unsafe.Sizeof(C.double(0)))))
		defer C.free(unsafe.Pointer(in))
		copy(unsafe.Slice((*float64)(unsafe.Pointer(in)), len(input)), input)
	}

	buf := FakePricing(C.int(nbInputElement), in, C.int(workLoadTimeInMs), C.int(nbOutputElement))
	if buf == nil {
		return nil, false
	}
	defer FreePricingResult(buf)

	out := make([]float64, nbOutputElement)
	copy(out, unsafe.Slice((*float64)(unsafe.Pointer(buf)), nbOutputElement))
	return out, true
}
