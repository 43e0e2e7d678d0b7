package importer

import (
	"bytes"
	"crypto/md5"
	"slices"

	"github.com/google/uuid"
)

// StableID derives the persisted identity of an entity from its identity key.
// The 16 bytes of the MD5 digest of the key are used verbatim as the UUID; no version
// or variant bits are rewritten. Every imported row is joined to its source record
// through this value, so changing it invalidates all existing identities.
func StableID(key string) uuid.UUID {
	return uuid.UUID(md5.Sum([]byte(key)))
}

func sortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}
