package uid

import (
	"errors"
	"testing"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
)

func TestFromBytes_RoundTrip(t *testing.T) {
	raw := []byte{0x8d, 0x3b, 0x98, 0xde, 0xc9, 0x81, 0x4f, 0x05, 0xab, 0xfe, 0xd2, 0x2e, 0xe4, 0x78, 0x1d, 0x33}
	u, err := FromBytes(raw)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got := u.String(); got != "8d3b98de-c981-4f05-abfe-d22ee4781d33" {
		t.Errorf("String() = %q", got)
	}
	back, err := FromBytes(u.Bytes())
	if err != nil {
		t.Fatalf("FromBytes(Bytes()): %v", err)
	}
	if back != u {
		t.Errorf("byte round trip changed value")
	}
}

func TestFromBytes_WrongLength(t *testing.T) {
	for _, n := range []int{0, 15, 17, 32} {
		if _, err := FromBytes(make([]byte, n)); !errors.Is(err, apperr.ErrMalformedIdentifier) {
			t.Errorf("len %d: err = %v, want ErrMalformedIdentifier", n, err)
		}
	}
}

func TestParse_Canonical(t *testing.T) {
	u, err := Parse("8d3b98de-c981-4f05-abfe-d22ee4781d33")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if u.String() != "8d3b98de-c981-4f05-abfe-d22ee4781d33" {
		t.Errorf("String() = %q", u.String())
	}

	// Uppercase hex is valid; the canonical output is lowercase.
	up, err := Parse("8D3B98DE-C981-4F05-ABFE-D22EE4781D33")
	if err != nil {
		t.Fatalf("Parse uppercase: %v", err)
	}
	if up != u {
		t.Errorf("case changed the value")
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"8d3b98dec9814f05abfed22ee4781d33",       // no hyphens
		"{8d3b98de-c981-4f05-abfe-d22ee4781d33}", // braces
		"urn:uuid:8d3b98de-c981-4f05-abfe-d22ee4781d33",
		"8d3b98de-c981-4f05-abfe-d22ee4781d3",    // short
		"8d3b98de-c981-4f05-abfe-d22ee4781d334",  // long
		"8d3b98dec-981-4f05-abfe-d22ee4781d33",   // wrong grouping
		"8d3b98de-c981-4f05-abfe-d22ee4781dzz",   // non-hex
	}
	for _, s := range cases {
		if _, err := Parse(s); !errors.Is(err, apperr.ErrMalformedIdentifier) {
			t.Errorf("Parse(%q): err = %v, want ErrMalformedIdentifier", s, err)
		}
	}
}

func TestCompare_ByteWise(t *testing.T) {
	a := MustParse("00000000-0000-0000-0000-000000000001")
	b := MustParse("00000000-0000-0000-0000-000000000002")
	if a.Compare(b) >= 0 {
		t.Errorf("a should order before b")
	}
	if b.Compare(a) <= 0 {
		t.Errorf("b should order after a")
	}
	if a.Compare(a) != 0 {
		t.Errorf("a should equal itself")
	}
}

func TestMarshalText(t *testing.T) {
	u := MustParse("8d3b98de-c981-4f05-abfe-d22ee4781d33")
	b, err := u.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back UID
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != u {
		t.Errorf("text round trip changed value")
	}
}
