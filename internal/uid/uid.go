// Package uid implements the 16-byte identifiers that key items and owners
// in the save format.
package uid

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
)

// UID is an immutable 16-byte identifier. Equality is byte-wise; the
// hex-hyphenated text form is a presentation concern only.
type UID [16]byte

// FromBytes builds a UID from exactly 16 raw bytes.
func FromBytes(b []byte) (UID, error) {
	u, err := uuid.FromBytes(b)
	if err != nil {
		return UID{}, fmt.Errorf("uid: from %d bytes: %w", len(b), apperr.ErrMalformedIdentifier)
	}
	return UID(u), nil
}

// Parse accepts only the canonical lowercase-or-uppercase 8-4-4-4-12 form.
// It is stricter than uuid.Parse, which also takes URN and braced variants;
// those never occur in the price table or the save format.
func Parse(s string) (UID, error) {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return UID{}, fmt.Errorf("uid: parse %q: %w", s, apperr.ErrMalformedIdentifier)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return UID{}, fmt.Errorf("uid: parse %q: %w", s, apperr.ErrMalformedIdentifier)
	}
	return UID(u), nil
}

// MustParse is Parse for trusted literals such as price table fixtures.
func MustParse(s string) UID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the canonical lowercase hex-hyphenated form.
func (u UID) String() string {
	return uuid.UUID(u).String()
}

// MarshalText implements encoding.TextMarshaler so UIDs render as their
// canonical form in JSON output.
func (u UID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same strict
// grouping as Parse.
func (u *UID) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Bytes returns a copy of the raw 16 bytes.
func (u UID) Bytes() []byte {
	return append([]byte(nil), u[:]...)
}

// Compare orders UIDs byte-wise, for stable iteration and tests.
func (u UID) Compare(o UID) int {
	return bytes.Compare(u[:], o[:])
}
