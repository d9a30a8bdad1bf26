// ABOUTME: Key layout for the badger-backed stores.
// ABOUTME: Big-endian encodings keep lexical key order equal to canonical order.
package storage

import "encoding/binary"

var (
	prefixRecord      = []byte("rec/")
	prefixOrder       = []byte("ord/")
	prefixGroup       = []byte("grp/")
	prefixExercise    = []byte("ex/")
	prefixExerciseKey = []byte("exname/")
	keyRecordSeq      = []byte("seq/record")
	keyExerciseSeq    = []byte("seq/exercise")
)

func be64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func join(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func recordKey(id int64) []byte {
	return join(prefixRecord, be64(uint64(id)))
}

// orderKey sorts ascending in canonical order: date desc, id desc.
// The sign bit flip makes signed dates order as unsigned; the complement reverses.
func orderKey(date, id int64) []byte {
	return join(prefixOrder, be64(^(uint64(date) ^ (1 << 63))), be64(^uint64(id)))
}

// orderValue packs the record and exercise IDs so filtered scans skip record reads.
func orderValue(id, exerciseID int64) []byte {
	return join(be64(uint64(id)), be64(uint64(exerciseID)))
}

func decodeOrderValue(v []byte) (id, exerciseID int64) {
	return int64(binary.BigEndian.Uint64(v[:8])), int64(binary.BigEndian.Uint64(v[8:16]))
}

func groupPrefix(group int64) []byte {
	return join(prefixGroup, be64(uint64(group)))
}

func groupKey(group, id int64) []byte {
	return join(prefixGroup, be64(uint64(group)), be64(uint64(id)))
}

func decodeGroupKey(k []byte) (group, id int64) {
	rest := k[len(prefixGroup):]
	return int64(binary.BigEndian.Uint64(rest[:8])), int64(binary.BigEndian.Uint64(rest[8:16]))
}

func exerciseKey(id int64) []byte {
	return join(prefixExercise, be64(uint64(id)))
}

func exerciseNameKey(nameKey string) []byte {
	return join(prefixExerciseKey, []byte(nameKey))
}

func decodeID(v []byte) int64 {
	return int64(binary.BigEndian.Uint64(v))
}
