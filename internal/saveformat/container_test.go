package saveformat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/uid"
)

var (
	idA = uid.MustParse("8d3b98de-c981-4f05-abfe-d22ee4781d33")
	idB = uid.MustParse("f152e4df-bc40-44fb-8d20-0b3c56c65e13")
)

func containerBytes(tag uint8, stacks ...ItemStack) []byte {
	return EncodeContainer(&Container{Tag: tag, Stacks: stacks})
}

func TestDecodeContainer_Basic(t *testing.T) {
	data := containerBytes(1,
		ItemStack{ID: idA, Quantity: 3},
		ItemStack{ID: idB, Quantity: 2, Extra: []byte{0xde, 0xad}},
	)
	c, err := DecodeContainer(data, 7)
	if err != nil {
		t.Fatalf("DecodeContainer: %v", err)
	}
	if c.ID != 7 {
		t.Errorf("ID = %d, want 7", c.ID)
	}
	if len(c.Stacks) != 2 {
		t.Fatalf("len(Stacks) = %d, want 2", len(c.Stacks))
	}
	if c.Stacks[0].ID != idA || c.Stacks[0].Quantity != 3 {
		t.Errorf("stack 0 = %+v", c.Stacks[0])
	}
	if c.Stacks[1].ID != idB || c.Stacks[1].Quantity != 2 {
		t.Errorf("stack 1 = %+v", c.Stacks[1])
	}
	if !bytes.Equal(c.Stacks[1].Extra, []byte{0xde, 0xad}) {
		t.Errorf("extra = %x", c.Stacks[1].Extra)
	}
}

func TestContainer_RoundTrip(t *testing.T) {
	original := containerBytes(2,
		ItemStack{ID: idA, Quantity: 65535, Extra: []byte{1, 2, 3, 4, 5}},
		ItemStack{ID: idB, Quantity: 0},
	)
	// Unknown trailing bytes must survive the trip.
	original = append(original, 0xca, 0xfe, 0xba, 0xbe)

	c, err := DecodeContainer(original, 1)
	if err != nil {
		t.Fatalf("DecodeContainer: %v", err)
	}
	if got := EncodeContainer(c); !bytes.Equal(got, original) {
		t.Errorf("encode(decode(b)) != b\n got %x\nwant %x", got, original)
	}

	again, err := DecodeContainer(EncodeContainer(c), c.ID)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !reflect.DeepEqual(again, c) {
		t.Errorf("decode(encode(c)) != c\n got %+v\nwant %+v", again, c)
	}
}

func TestDecodeContainer_Empty(t *testing.T) {
	c, err := DecodeContainer(containerBytes(1), 0)
	if err != nil {
		t.Fatalf("DecodeContainer: %v", err)
	}
	if len(c.Stacks) != 0 {
		t.Errorf("len(Stacks) = %d, want 0", len(c.Stacks))
	}
}

func TestDecodeContainer_Truncated(t *testing.T) {
	full := containerBytes(1, ItemStack{ID: idA, Quantity: 3, Extra: []byte{9, 9, 9}})

	// Every proper prefix must fail loudly, never yield a zeroed stack.
	for n := 0; n < len(full); n++ {
		_, err := DecodeContainer(full[:n], 1)
		if !errors.Is(err, apperr.ErrTruncatedRecord) {
			t.Errorf("prefix %d: err = %v, want ErrTruncatedRecord", n, err)
		}
	}
}

func TestDecodeContainer_DeclaredLengthPastEnd(t *testing.T) {
	data := containerBytes(1)
	// Claim one stack but provide no stack bytes.
	binary.LittleEndian.PutUint16(data[1:3], 1)
	if _, err := DecodeContainer(data, 1); !errors.Is(err, apperr.ErrTruncatedRecord) {
		t.Errorf("err = %v, want ErrTruncatedRecord", err)
	}
}

func TestDecodeContainer_UnsupportedTag(t *testing.T) {
	for _, tag := range []uint8{0, containerTagMax + 1, 0xff} {
		data := containerBytes(1)
		data[0] = tag
		if _, err := DecodeContainer(data, 1); !errors.Is(err, apperr.ErrUnsupportedRecordVersion) {
			t.Errorf("tag %d: err = %v, want ErrUnsupportedRecordVersion", tag, err)
		}
	}
}

func TestDecodeContainer_SupportedTagRange(t *testing.T) {
	for tag := uint8(containerTagMin); tag <= containerTagMax; tag++ {
		data := containerBytes(tag, ItemStack{ID: idA, Quantity: 1})
		c, err := DecodeContainer(data, 1)
		if err != nil {
			t.Fatalf("tag %d: %v", tag, err)
		}
		if c.Tag != tag {
			t.Errorf("tag = %d, want %d", c.Tag, tag)
		}
	}
}
