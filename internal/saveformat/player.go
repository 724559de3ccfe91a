package saveformat

import (
	"encoding/binary"
	"fmt"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/uid"
)

// Player record format tags this codec understands.
const (
	playerTagMin = 1
	playerTagMax = 2
)

// PlayerRecord is one decoded generic-data blob. Key, WorldID, Flags and
// Owner mirror the generic-data table's composite key; Payload carries the
// remaining bytes untouched.
type PlayerRecord struct {
	Tag     uint8
	Key     uint32
	WorldID uint32
	Flags   uint32
	Owner   uid.UID
	Payload []byte
}

// DecodePlayerRecord decodes a player blob.
//
// Layout: tag u8, key u32, worldId u32, flags u32, a 16-byte owner
// identifier, then the opaque payload. Integers are little-endian.
func DecodePlayerRecord(data []byte) (*PlayerRecord, error) {
	cur := &cursor{data: data}

	tag, err := cur.u8("player tag")
	if err != nil {
		return nil, err
	}
	if tag < playerTagMin || tag > playerTagMax {
		return nil, fmt.Errorf("saveformat: player tag %d: %w", tag, apperr.ErrUnsupportedRecordVersion)
	}

	key, err := cur.u32("player key")
	if err != nil {
		return nil, err
	}
	worldID, err := cur.u32("player worldId")
	if err != nil {
		return nil, err
	}
	flags, err := cur.u32("player flags")
	if err != nil {
		return nil, err
	}
	raw, err := cur.take(16, "player owner")
	if err != nil {
		return nil, err
	}
	owner, err := uid.FromBytes(raw)
	if err != nil {
		return nil, err
	}

	return &PlayerRecord{
		Tag:     tag,
		Key:     key,
		WorldID: worldID,
		Flags:   flags,
		Owner:   owner,
		Payload: cur.rest(),
	}, nil
}

// EncodePlayerRecord is the inverse of DecodePlayerRecord.
func EncodePlayerRecord(r *PlayerRecord) []byte {
	buf := make([]byte, 0, 1+4+4+4+16+len(r.Payload))
	buf = append(buf, r.Tag)
	buf = binary.LittleEndian.AppendUint32(buf, r.Key)
	buf = binary.LittleEndian.AppendUint32(buf, r.WorldID)
	buf = binary.LittleEndian.AppendUint32(buf, r.Flags)
	buf = append(buf, r.Owner[:]...)
	buf = append(buf, r.Payload...)
	return buf
}
