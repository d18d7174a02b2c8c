// Command fakepricing 합성 연산 커널을 C ABI 공유 라이브러리로 노출합니다.
//
//	go build -buildmode=c-shared -o libfakepricing.so ./cmd/fakepricing
//
// 생성되는 헤더(libfakepricing.h)의 함수:
//
//	double* FakePricing(int nbInputElement, double* input, int workLoadTimeInMs, int nbOutputElement);
//	void    FreePricingResult(double* output);
//
// FakePricing이 반환한 버퍼는 호출자가 소유하며, 반드시 FreePricingResult로 해제해야 합니다.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"os"
	"unsafe"
)

// FakePricing 입력 벡터로 커널을 실행하고, nbOutputElement개의 double을 담은 새 버퍼를 반환합니다.
// 원소 개수가 0 이하이면 표준 출력에 진단 메시지를 남기고 NULL을 반환합니다.
//
//export FakePricing
func FakePricing(nbInputElement C.int, input *C.double, workLoadTimeInMs C.int, nbOutputElement C.int) *C.double {
	if nbInputElement <= 0 || nbOutputElement <= 0 || input == nil {
		reject(os.Stdout)
		return nil
	}

	in := unsafe.Slice((*float64)(unsafe.Pointer(input)), int(nbInputElement))

	out, ok := price(in, int(workLoadTimeInMs), int(nbOutputElement), os.Stdout)
	if !ok {
		return nil
	}

	buf := (*C.double)(C.malloc(C.size_t(len(out)) * C.size_t(unsafe.Sizeof(C.double(0)))))
	copy(unsafe.Slice((*float64)(unsafe.Pointer(buf)), len(out)), out)

	return buf
}

// FreePricingResult FakePricing이 반환한 버퍼를 해제합니다. NULL은 무시합니다.
//
//export FreePricingResult
func FreePricingResult(output *C.double) {
	if output == nil {
		return
	}
	C.free(unsafe.Pointer(output))
}

func main() {}
