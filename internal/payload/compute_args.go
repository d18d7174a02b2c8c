package payload

import (
	"encoding/binary"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

// computeArgsHeaderSize 벡터 길이(uint32) + NbOutputBytes(int64) + WorkLoadTimeInMs(int32)
const computeArgsHeaderSize = 4 + 8 + 4

// ComputeArgs ComputeWorkLoad 호출의 인자입니다.
type ComputeArgs struct {
	Input            []float64
	NbOutputBytes    int64
	WorkLoadTimeInMs int32
}

// Encode 인자를 [벡터 길이][벡터][NbOutputBytes][WorkLoadTimeInMs] 순서의 프레임으로 변환합니다.
func (a ComputeArgs) Encode() []byte {
	buf := make([]byte, 0, computeArgsHeaderSize+len(a.Input)*Float64Size)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(a.Input)))
	buf = append(buf, EncodeVector(a.Input)...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(a.NbOutputBytes))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(a.WorkLoadTimeInMs))
	return buf
}

// DecodeComputeArgs Encode로 만든 프레임을 해석합니다.
func DecodeComputeArgs(b []byte) (ComputeArgs, error) {
	if len(b) < computeArgsHeaderSize {
		return ComputeArgs{}, apperrors.Newf(apperrors.ParsingFailed, "ComputeWorkLoad 인자 프레임이 너무 짧습니다: %d bytes", len(b))
	}

	n := int(binary.LittleEndian.Uint32(b))
	if want := computeArgsHeaderSize + n*Float64Size; len(b) != want {
		return ComputeArgs{}, apperrors.Newf(apperrors.ParsingFailed, "ComputeWorkLoad 인자 프레임의 길이가 맞지 않습니다: %d bytes (예상: %d bytes)", len(b), want)
	}

	offset := 4
	input, err := DecodeVector(b[offset : offset+n*Float64Size])
	if err != nil {
		return ComputeArgs{}, err
	}
	offset += n * Float64Size

	return ComputeArgs{
		Input:            input,
		NbOutputBytes:    int64(binary.LittleEndian.Uint64(b[offset:])),
		WorkLoadTimeInMs: int32(binary.LittleEndian.Uint32(b[offset+8:])),
	}, nil
}
