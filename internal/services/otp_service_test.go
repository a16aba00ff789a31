package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesbharath/spinwheel-backend/internal/repositories/memory"
	"github.com/yesbharath/spinwheel-backend/pkg/smsgateway"
)

type otpFixture struct {
	otpRepo         *memory.OtpRepository
	participantRepo *memory.ParticipantRepository
	gateway         *smsgateway.MockGateway
	service         *OtpService
}

func newOtpFixture() *otpFixture {
	otpRepo := memory.NewOtpRepository()
	participantRepo := memory.NewParticipantRepository()
	gateway := smsgateway.NewMockGateway()
	rateLimits := NewRateLimitService(memory.NewRateLimitRepository())
	return &otpFixture{
		otpRepo:         otpRepo,
		participantRepo: participantRepo,
		gateway:         gateway,
		service:         NewOtpService(otpRepo, participantRepo, rateLimits, gateway),
	}
}

func TestSendOTP_DeliversAndRecordsAttempt(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"))

	require.Len(t, f.gateway.Sent, 1)
	assert.Equal(t, "9876543210", f.gateway.Sent[0].MSISDN)
	assert.Contains(t, f.gateway.Sent[0].Message, "Your login OTP for SpinWheel is")

	entry, err := f.otpRepo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Len(t, entry.Code, 6)
	assert.Contains(t, f.gateway.Sent[0].Message, entry.Code)

	// The attempt shows up as an unverified participant.
	p, err := f.participantRepo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, p.PhoneVerified)
	assert.Equal(t, "Priya", p.Name)
}

func TestSendOTP_RejectsBadInput(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	assert.Error(t, f.service.SendOTP(ctx, "12345", "Priya", "1.2.3.4"), "short phone")
	assert.Error(t, f.service.SendOTP(ctx, "9999999999", "Priya", "1.2.3.4"), "repeated digits")
	assert.Error(t, f.service.SendOTP(ctx, "9876543210", "P", "1.2.3.4"), "name too short")
	assert.Empty(t, f.gateway.Sent)
}

func TestSendOTP_RateLimited(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"))
	}
	assert.ErrorIs(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"), ErrRateLimited)
	assert.Len(t, f.gateway.Sent, 4)
}

func TestVerifyOTP_Success(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"))
	entry, err := f.otpRepo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)

	p, err := f.service.VerifyOTP(ctx, "9876543210", entry.Code, "", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, p.PhoneVerified)
	assert.Equal(t, "Priya", p.Name, "name falls back to the one given at send time")
	assert.NotEmpty(t, p.LoginHistory)

	// The OTP is single-use.
	_, err = f.service.VerifyOTP(ctx, "9876543210", entry.Code, "", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"))

	_, err := f.service.VerifyOTP(ctx, "9876543210", "000000", "", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	// The participant stays unverified.
	p, err := f.participantRepo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, p.PhoneVerified)
}

func TestVerifyOTP_LockoutAfterRepeatedFailures(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"))

	for i := 0; i < 5; i++ {
		_, err := f.service.VerifyOTP(ctx, "9876543210", "000000", "", "1.2.3.4")
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}

	// Locked out now, even with the right code.
	entry, err := f.otpRepo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	_, err = f.service.VerifyOTP(ctx, "9876543210", entry.Code, "", "1.2.3.4")
	assert.ErrorIs(t, err, ErrRateLimited)

	// And new OTP generation is barred too.
	assert.ErrorIs(t, f.service.SendOTP(ctx, "9876543210", "Priya", "1.2.3.4"), ErrRateLimited)
}

func TestVerifyOTP_Expired(t *testing.T) {
	f := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, f.otpRepo.Upsert(ctx, "9876543210", "123456", "Priya", time.Now().Add(-time.Minute)))

	_, err := f.service.VerifyOTP(ctx, "9876543210", "123456", "", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}
