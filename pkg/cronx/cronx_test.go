package cronx

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"30 * * * * *", false},
		{"0 */5 * * * *", false},
		{"@every 30s", false},
		{"@hourly", false},
		{"* * * * *", true},
		{"@every", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_RunsEverySchedule(t *testing.T) {
	t.Parallel()

	c := New()

	var fired atomic.Int32
	_, err := c.AddFunc("@every 1s", func() { fired.Add(1) })
	require.NoError(t, err)

	c.Start()
	defer func() { <-c.Stop().Done() }()

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
