package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	t.Run("정상 입력", func(t *testing.T) {
		var stdout bytes.Buffer

		out, ok := price([]float64{1, 2, 3}, 5, 3, &stdout)

		assert.True(t, ok)
		assert.Equal(t, []float64{12, 12, 12}, out)
		assert.Empty(t, stdout.String())
	})

	t.Run("출력 개수 0은 거부", func(t *testing.T) {
		var stdout bytes.Buffer

		out, ok := price([]float64{1, 2, 3}, 5, 0, &stdout)

		assert.False(t, ok)
		assert.Nil(t, out)
		assert.Equal(t, rejectMessage+"\n", stdout.String())
	})

	t.Run("빈 입력은 거부", func(t *testing.T) {
		var stdout bytes.Buffer

		_, ok := price(nil, 5, 3, &stdout)

		assert.False(t, ok)
		assert.Contains(t, stdout.String(), rejectMessage)
	})
}

func TestFakePricing_CABI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		input           []float64
		nbInputElement  int
		nbOutputElement int
		want            []float64
		wantOK          bool
	}{
		{"정상 입력", []float64{1, 2, 3}, 3, 3, []float64{12, 12, 12}, true},
		{"출력 개수가 입력보다 많음", []float64{2}, 1, 2, []float64{4, 4}, true},
		{"입력 일부만 전달", []float64{1, 2, 3}, 1, 1, []float64{1}, true},
		{"NULL 입력", nil, 3, 3, nil, false},
		{"입력 개수 0", []float64{1}, 0, 1, nil, false},
		{"출력 개수 음수", []float64{1}, 1, -1, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, ok := invoke(tt.input, 1, tt.nbInputElement, tt.nbOutputElement)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFreePricingResult_Nil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { FreePricingResult(nil) })
}
