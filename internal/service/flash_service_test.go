package service

import (
	"context"
	"testing"
	"time"

	"doe_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashPushPop(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	svc := NewFlashService(rdb, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Push(ctx, 3, FlashSuccess, "Answer saved successfully!"))
	require.NoError(t, svc.Push(ctx, 3, FlashError, "second"))
	assert.True(t, mr.Exists("flash:user:3"))
	assert.Equal(t, time.Minute, mr.TTL("flash:user:3"))

	msgs, err := svc.Pop(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []FlashMessage{
		{Level: FlashSuccess, Message: "Answer saved successfully!"},
		{Level: FlashError, Message: "second"},
	}, msgs)
	assert.False(t, mr.Exists("flash:user:3"))

	msgs, err = svc.Pop(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestFlashExpires(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	svc := NewFlashService(rdb, time.Second)
	ctx := context.Background()

	require.NoError(t, svc.Push(ctx, 1, FlashInfo, "soon gone"))
	mr.FastForward(2 * time.Second)

	msgs, err := svc.Pop(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
