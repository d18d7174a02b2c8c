package contract

import (
	"testing"
	"time"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDs_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"SessionID 정상", SessionID("s-1").Validate(), false},
		{"SessionID 빈 값", SessionID("").Validate(), true},
		{"TaskID 공백", TaskID("  ").Validate(), true},
		{"TaskID 정상", TaskID("t-1").Validate(), false},
		{"ResultID 빈 값", ResultID("").Validate(), true},
		{"ResultID 정상", ResultID("r-1").Validate(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.wantErr {
				require.Error(t, tt.err)
				assert.True(t, apperrors.Is(tt.err, apperrors.InvalidInput))
			} else {
				assert.NoError(t, tt.err)
			}
		})
	}
}

func TestTaskOptions_Merge(t *testing.T) {
	t.Parallel()

	defaults := TaskOptions{
		MaxDuration:     time.Hour,
		MaxRetries:      3,
		Priority:        1,
		PartitionID:     "default",
		ApplicationName: "hello-world",
		Options:         map[string]string{"a": "1", "b": "2"},
	}

	t.Run("빈 옵션은 기본값을 그대로 사용", func(t *testing.T) {
		t.Parallel()
		merged := TaskOptions{}.Merge(defaults)
		assert.Equal(t, defaults, merged)
	})

	t.Run("지정된 필드만 덮어씀", func(t *testing.T) {
		t.Parallel()
		merged := TaskOptions{
			Priority:           5,
			ApplicationService: "StressTest",
			Options:            map[string]string{"b": "override"},
		}.Merge(defaults)

		assert.Equal(t, time.Hour, merged.MaxDuration)
		assert.Equal(t, 3, merged.MaxRetries)
		assert.Equal(t, 5, merged.Priority)
		assert.Equal(t, "hello-world", merged.ApplicationName)
		assert.Equal(t, "StressTest", merged.ApplicationService)
		assert.Equal(t, map[string]string{"a": "1", "b": "override"}, merged.Options)
	})

	t.Run("기본값의 map을 변경하지 않음", func(t *testing.T) {
		t.Parallel()
		merged := TaskOptions{Options: map[string]string{"c": "3"}}.Merge(defaults)
		merged.Options["a"] = "changed"
		assert.Equal(t, "1", defaults.Options["a"])
	})
}

func TestTaskOptions_Validate(t *testing.T) {
	t.Parallel()

	valid := TaskOptions{MaxDuration: time.Second, MaxRetries: 0, Priority: 1, ApplicationName: "app"}

	tests := []struct {
		name    string
		mutate  func(o *TaskOptions)
		wantErr bool
	}{
		{"정상", func(o *TaskOptions) {}, false},
		{"MaxDuration 0", func(o *TaskOptions) { o.MaxDuration = 0 }, true},
		{"MaxRetries 음수", func(o *TaskOptions) { o.MaxRetries = -1 }, true},
		{"Priority 0", func(o *TaskOptions) { o.Priority = 0 }, true},
		{"ApplicationName 누락", func(o *TaskOptions) { o.ApplicationName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := valid
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskCreation_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tc      TaskCreation
		wantErr bool
	}{
		{"정상", TaskCreation{PayloadID: "p", ExpectedOutputs: []ResultID{"o1", "o2"}}, false},
		{"페이로드 누락", TaskCreation{ExpectedOutputs: []ResultID{"o1"}}, true},
		{"출력 없음", TaskCreation{PayloadID: "p"}, true},
		{"빈 출력 ID", TaskCreation{PayloadID: "p", ExpectedOutputs: []ResultID{""}}, true},
		{"중복 출력", TaskCreation{PayloadID: "p", ExpectedOutputs: []ResultID{"o1", "o1"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.tc.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskStatus_IsFinal(t *testing.T) {
	t.Parallel()

	final := map[TaskStatus]bool{
		TaskStatusSubmitted:  false,
		TaskStatusDispatched: false,
		TaskStatusProcessing: false,
		TaskStatusCompleted:  true,
		TaskStatusError:      true,
		TaskStatusRetried:    true,
		TaskStatusCancelled:  true,
	}
	for status, want := range final {
		assert.Equal(t, want, status.IsFinal(), status)
	}
}
