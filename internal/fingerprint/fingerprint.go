// Package fingerprint derives content hashes used as uniqueness keys at the
// storage boundary. MD5 is used for low accidental-collision probability in
// deduplication, not as a security mechanism.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"

	"aim/internal/domain"
)

// Fingerprint returns the lowercase hex MD5 digest of the record's canonical
// serialization. Records with the same key/value pairs produce the same
// digest regardless of insertion order; changing any key or value changes it.
func Fingerprint(rec domain.Record) string {
	// encoding/json writes map keys in ascending code-point order, which is
	// exactly the canonical form required here.
	canonical, err := json.Marshal(canonicalize(rec))
	if err != nil {
		// canonicalize leaves only JSON-encodable scalars, so marshaling
		// cannot fail; fall back to hashing nothing rather than panicking.
		canonical = []byte("{}")
	}
	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:])
}

// canonicalize rewrites values that have no JSON form. NaN and the infinities
// become their string spellings so that each still yields a distinct, stable
// digest instead of failing the whole serialization.
func canonicalize(rec domain.Record) domain.Record {
	var out domain.Record
	for key, value := range rec {
		f, ok := value.(float64)
		if !ok || (!math.IsNaN(f) && !math.IsInf(f, 0)) {
			continue
		}
		if out == nil {
			out = rec.Clone()
		}
		out[key] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if out == nil {
		return rec
	}
	return out
}
