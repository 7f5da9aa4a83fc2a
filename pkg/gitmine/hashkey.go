package gitmine

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// unitSeparator is the ASCII 0x1F control byte used to join fields before
// hashing. It cannot appear in any of Git's own field values.
const unitSeparator = "\x1f"

// HashKey returns a deterministic, non-cryptographic 64-bit hash of its
// arguments, joined by a single unit separator and hashed with XXH64,
// rendered as 16 lowercase hex digits. It is the synthetic join key between
// FileMod and Diff records (filemod_id) and carries no security properties;
// collisions within one commit's file set are astronomically unlikely but
// not impossible.
func HashKey(fields ...string) string {
	joined := strings.Join(fields, unitSeparator)
	sum := xxhash.Sum64String(joined)
	return fmt.Sprintf("%016x", sum)
}
