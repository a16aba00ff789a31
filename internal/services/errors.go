package services

import "errors"

// Spin pipeline error taxonomy. Handlers map these to HTTP statuses with
// errors.Is; none of them carry storage-level detail to the client.
var (
	// ErrParticipantNotFound means the session references a participant
	// that no longer exists.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrNotEligible means the participant is blocked or otherwise barred
	// from spinning. No side effects were performed.
	ErrNotEligible = errors.New("participant not eligible")

	// ErrTermsNotAgreed means the participant has not accepted the contest
	// terms yet.
	ErrTermsNotAgreed = errors.New("contest terms not agreed")

	// ErrAlreadySpun means the participant already has an allocation. The
	// previously stored result is returned alongside so the client can
	// display it instead of erroring.
	ErrAlreadySpun = errors.New("participant already spun")

	// ErrContestInactive means no active contest is configured.
	ErrContestInactive = errors.New("contest not active")

	// ErrServiceUnavailable means the spin ledger could not reserve an
	// ordinal because of a transient storage failure. Nothing was
	// persisted; the whole spin is safe to retry.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInventoryExhausted means even the filler tier had no stock. This
	// is a configuration error, not a transient condition; it is surfaced
	// loudly and never retried.
	ErrInventoryExhausted = errors.New("prize inventory exhausted")

	// ErrRateLimited means a rate limit window or block is in effect.
	ErrRateLimited = errors.New("too many requests")

	// ErrInvalidCredentials is returned on failed admin logins.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOTP is returned when OTP verification fails.
	ErrInvalidOTP = errors.New("invalid or expired otp")
)
