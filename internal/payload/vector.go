// Package payload 워커와 클라이언트가 주고받는 바이너리 데이터의 인코딩을 담당합니다.
//
// 모든 수치는 리틀 엔디언으로 기록됩니다.
package payload

import (
	"encoding/binary"
	"math"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

// Float64Size float64 한 개가 차지하는 바이트 수
const Float64Size = 8

// EncodeVector float64 벡터를 바이트열로 변환합니다.
func EncodeVector(v []float64) []byte {
	buf := make([]byte, len(v)*Float64Size)
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*Float64Size:], math.Float64bits(x))
	}
	return buf
}

// DecodeVector EncodeVector로 만든 바이트열을 float64 벡터로 되돌립니다.
func DecodeVector(b []byte) ([]float64, error) {
	if len(b)%Float64Size != 0 {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "float64 벡터의 길이가 올바르지 않습니다: %d bytes", len(b))
	}

	v := make([]float64, len(b)/Float64Size)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*Float64Size:]))
	}
	return v, nil
}

// Sum 벡터 원소의 합입니다.
func Sum(v []float64) float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}
