package generate

import (
	"crypto/sha256"
	"encoding/binary"
)

// DeriveSeed maps (seed, templateID, version, salt) to a stable int64 rand
// seed, so the same inputs always reproduce the same instance.
func DeriveSeed(seed, templateID, version, salt string) int64 {
	h := sha256.Sum256([]byte(seed + "|" + templateID + "|" + version + "|" + salt))
	v := int64(binary.LittleEndian.Uint64(h[:8]))
	if v < 0 {
		v = -v
	}
	return v
}
