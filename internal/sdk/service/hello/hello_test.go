package hello

import (
	"context"
	"testing"

	"github.com/darkkaiser/armonik-samples/internal/sdk/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Call(t *testing.T) {
	t.Parallel()

	s := &Service{}
	require.NoError(t, s.EnterSession(context.Background(), "s-1"))

	in := []byte("Hello,")
	out, err := s.Call(context.Background(), ServiceName, in)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(out))
	assert.Equal(t, "Hello,", string(in), "입력은 변경되지 않아야 합니다")

	require.NoError(t, s.LeaveSession(context.Background(), "s-1"))
}

func TestRegistered(t *testing.T) {
	t.Parallel()

	assert.Contains(t, service.Services(), Namespace+"::"+ServiceName)
}
