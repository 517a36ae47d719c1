package utils

import (
	"crypto/md5"
	"sort"
	"strings"

	"github.com/gofrs/uuid"
)

// DigestUuid derives a deterministic uuid from a set of strings, independent
// of their ordering. Used to fingerprint position sets for cache keys.
func DigestUuid(parts ...string) string {
	if len(parts) == 0 {
		parts = append(parts, uuid.Nil.String())
	}

	sorted := make([]string, len(parts))
	copy(sorted, parts)
	sort.Strings(sorted)

	sum := md5.Sum([]byte(strings.Join(sorted, "")))
	// stamp version and variant bits so the digest parses as a uuid
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum[:]).String()
}
