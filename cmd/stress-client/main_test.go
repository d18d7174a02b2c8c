package main

import (
	"context"
	"testing"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/stress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stress.Options, bool, error) {
	t.Helper()

	var got stress.Options
	called := false

	cmd := newRootCmd(func(_ context.Context, opts stress.Options) error {
		got = opts
		called = true
		return nil
	})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return got, called, err
}

func TestStressTestCmd_Defaults(t *testing.T) {
	t.Parallel()

	opts, called, err := execute(t, "stressTest")
	require.NoError(t, err)
	require.True(t, called)
	assert.Equal(t, stress.DefaultOptions(), opts)
}

func TestStressTestCmd_Flags(t *testing.T) {
	t.Parallel()

	opts, called, err := execute(t, "stressTest",
		"--nbTask", "10",
		"--nbInputBytes", "64",
		"--nbOutputBytes", "16",
		"--workLoadTimeInMs", "5",
		"--partition", "bench",
		"--variation", "20",
		"--distribution", "Normal",
		"--json", "stats.json",
	)
	require.NoError(t, err)
	require.True(t, called)

	assert.Equal(t, stress.Options{
		NbTask:           10,
		NbInputBytes:     64,
		NbOutputBytes:    16,
		WorkLoadTimeInMs: 5,
		Partition:        "bench",
		Variation:        20,
		Distribution:     stress.DistributionGaussian,
		JSONPath:         "stats.json",
	}, opts)
}

func TestStressTestCmd_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"Task 수 0", []string{"stressTest", "--nbTask", "0"}},
		{"출력 크기 부족", []string{"stressTest", "--nbOutputBytes", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, called, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.False(t, called)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		})
	}
}

func TestStressTestCmd_UnknownFlag(t *testing.T) {
	t.Parallel()

	_, called, err := execute(t, "stressTest", "--nbTasks", "1")
	require.Error(t, err)
	assert.False(t, called)
}
