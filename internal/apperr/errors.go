// Package apperr defines the failure taxonomy shared across the deposit core.
// Every failure is terminal for the current run; callers match with errors.Is.
package apperr

import "errors"

var (
	// ErrMalformedIdentifier reports an identifier that is not 16 raw bytes
	// or not in canonical hex-hyphenated text form.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrTruncatedRecord reports a record blob that ends before a declared
	// field is fully present.
	ErrTruncatedRecord = errors.New("truncated record")

	// ErrUnsupportedRecordVersion reports a record format tag outside the
	// range the codec understands.
	ErrUnsupportedRecordVersion = errors.New("unsupported record version")

	// ErrCorruptStore reports an upload that is not a well-formed save
	// database image.
	ErrCorruptStore = errors.New("corrupt store")

	// ErrMissingWorldRow reports a save without its singleton world row.
	ErrMissingWorldRow = errors.New("missing world row")

	// ErrUnsupportedVersion reports a savegame version outside the
	// policy-configured supported range.
	ErrUnsupportedVersion = errors.New("unsupported savegame version")

	// ErrDisallowedMode reports a game mode outside the redeemable set.
	ErrDisallowedMode = errors.New("disallowed game mode")

	// ErrRecordNotFound reports a mutation that changed zero rows.
	ErrRecordNotFound = errors.New("record not found")

	// ErrAlreadyRedeemed reports a world seed that has been deposited before.
	ErrAlreadyRedeemed = errors.New("already redeemed")

	// ErrInsufficientCredits reports a balance adjustment that would take an
	// account below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")
)
