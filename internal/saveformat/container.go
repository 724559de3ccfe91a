// Package saveformat decodes and re-encodes the binary blob records stored
// inside a save archive. The format is externally owned: decoding is strict
// about truncation but keeps every unrecognized sub-field as opaque bytes, so
// encode(decode(b)) reproduces b exactly for records that were not changed.
package saveformat

import (
	"encoding/binary"
	"fmt"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/uid"
)

// Container format tags this codec understands. Newer tags append fields we
// carry in Extra/Trailing without interpreting them.
const (
	containerTagMin = 1
	containerTagMax = 3
)

// ItemStack is one inventory slot: an item identifier, a quantity, and any
// trailing per-slot bytes the codec does not interpret.
type ItemStack struct {
	ID       uid.UID
	Quantity uint16
	Extra    []byte
}

// Container is one inventory record. ID is the store row key, not part of
// the blob. Trailing preserves bytes after the declared stacks.
type Container struct {
	ID       int64
	Tag      uint8
	Stacks   []ItemStack
	Trailing []byte
}

// DecodeContainer decodes a Container blob.
//
// Layout: tag u8, count u16, then per stack a 16-byte identifier, quantity
// u16, extra length u16, and that many opaque extra bytes. All integers are
// little-endian.
func DecodeContainer(data []byte, id int64) (*Container, error) {
	cur := &cursor{data: data}

	tag, err := cur.u8("container tag")
	if err != nil {
		return nil, err
	}
	if tag < containerTagMin || tag > containerTagMax {
		return nil, fmt.Errorf("saveformat: container tag %d: %w", tag, apperr.ErrUnsupportedRecordVersion)
	}

	count, err := cur.u16("stack count")
	if err != nil {
		return nil, err
	}

	c := &Container{ID: id, Tag: tag}
	for i := 0; i < int(count); i++ {
		raw, err := cur.take(16, "stack identifier")
		if err != nil {
			return nil, err
		}
		stackID, err := uid.FromBytes(raw)
		if err != nil {
			return nil, err
		}
		qty, err := cur.u16("stack quantity")
		if err != nil {
			return nil, err
		}
		extraLen, err := cur.u16("stack extra length")
		if err != nil {
			return nil, err
		}
		extra, err := cur.take(int(extraLen), "stack extra")
		if err != nil {
			return nil, err
		}
		c.Stacks = append(c.Stacks, ItemStack{
			ID:       stackID,
			Quantity: qty,
			Extra:    append([]byte(nil), extra...),
		})
	}
	c.Trailing = cur.rest()

	return c, nil
}

// EncodeContainer is the inverse of DecodeContainer. It is total: any
// Container produced by the decoder encodes back to the original bytes.
func EncodeContainer(c *Container) []byte {
	size := 3
	for _, s := range c.Stacks {
		size += 16 + 2 + 2 + len(s.Extra)
	}
	size += len(c.Trailing)

	buf := make([]byte, 0, size)
	buf = append(buf, c.Tag)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(c.Stacks)))
	for _, s := range c.Stacks {
		buf = append(buf, s.ID[:]...)
		buf = binary.LittleEndian.AppendUint16(buf, s.Quantity)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s.Extra)))
		buf = append(buf, s.Extra...)
	}
	buf = append(buf, c.Trailing...)
	return buf
}
