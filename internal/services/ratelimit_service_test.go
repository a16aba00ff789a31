package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesbharath/spinwheel-backend/internal/repositories/memory"
)

func TestCheckSpin_BlocksAfterLimit(t *testing.T) {
	svc := NewRateLimitService(memory.NewRateLimitRepository())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.CheckSpin(ctx, "9876543210"), "attempt %d should pass", i+1)
	}
	assert.ErrorIs(t, svc.CheckSpin(ctx, "9876543210"), ErrRateLimited)
	// The block holds for subsequent attempts too.
	assert.ErrorIs(t, svc.CheckSpin(ctx, "9876543210"), ErrRateLimited)
}

func TestCheckSpin_KeysAreIndependent(t *testing.T) {
	svc := NewRateLimitService(memory.NewRateLimitRepository())
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_ = svc.CheckSpin(ctx, "9876543210")
	}
	assert.ErrorIs(t, svc.CheckSpin(ctx, "9876543210"), ErrRateLimited)
	assert.NoError(t, svc.CheckSpin(ctx, "9123456780"), "other phone unaffected")
	assert.NoError(t, svc.CheckOtpGeneration(ctx, "9876543210"), "other limiter unaffected")
}

func TestOtpVerifyLockout(t *testing.T) {
	svc := NewRateLimitService(memory.NewRateLimitRepository())
	ctx := context.Background()
	phone := "9876543210"

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.RecordOtpVerifyFailure(ctx, phone))
		blocked, err := svc.IsOtpVerifyBlocked(ctx, phone)
		require.NoError(t, err)
		assert.False(t, blocked, "not locked out after %d failures", i+1)
	}

	require.NoError(t, svc.RecordOtpVerifyFailure(ctx, phone))
	blocked, err := svc.IsOtpVerifyBlocked(ctx, phone)
	require.NoError(t, err)
	assert.True(t, blocked, "locked out after the fifth failure")

	require.NoError(t, svc.ClearOtpVerifyFailures(ctx, phone))
	blocked, err = svc.IsOtpVerifyBlocked(ctx, phone)
	require.NoError(t, err)
	assert.False(t, blocked, "cleared on successful verification")
}

func TestCheckAdminLogin_BlocksAfterLimit(t *testing.T) {
	svc := NewRateLimitService(memory.NewRateLimitRepository())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.CheckAdminLogin(ctx, "10.0.0.1"))
	}
	assert.ErrorIs(t, svc.CheckAdminLogin(ctx, "10.0.0.1"), ErrRateLimited)
	assert.NoError(t, svc.CheckAdminLogin(ctx, "10.0.0.2"))
}
