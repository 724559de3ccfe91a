package saveformat

import (
	"encoding/binary"
	"fmt"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
)

// cursor walks a record blob. Every read fails with ErrTruncatedRecord when
// the declared field extends past the end of the buffer; the blob comes from
// an untrusted upload, so a short buffer must never yield zeroed fields.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) take(n int, field string) ([]byte, error) {
	if n < 0 || c.off+n > len(c.data) {
		return nil, fmt.Errorf("saveformat: %s at offset %d: %w", field, c.off, apperr.ErrTruncatedRecord)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u8(field string) (uint8, error) {
	b, err := c.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16(field string) (uint16, error) {
	b, err := c.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32(field string) (uint32, error) {
	b, err := c.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// rest returns a copy of all unread bytes.
func (c *cursor) rest() []byte {
	if c.off >= len(c.data) {
		return nil
	}
	return append([]byte(nil), c.data[c.off:]...)
}
