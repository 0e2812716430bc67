package sharecard

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// hashFieldSeparator delimits serialized fields. Field values never contain
// it unescaped in a way that matters: the serialization is positional, so a
// separator inside a value cannot move a field into another slot.
const hashFieldSeparator = "\x1f"

// nilMarker distinguishes an absent optional field from a legitimately empty
// string.
const nilMarker = "\x00nil"

// Hash returns a deterministic fingerprint of the payload for cache
// invalidation. Identical field values always produce identical output. This
// is a change detector, not a security boundary, so a fast 64-bit hash over a
// canonical serialization is enough.
func (p Payload) Hash() string {
	var b strings.Builder

	b.WriteString(string(p.EntityType))
	b.WriteString(hashFieldSeparator)
	b.WriteString(p.EntityID)
	b.WriteString(hashFieldSeparator)
	b.WriteString(p.Title)
	b.WriteString(hashFieldSeparator)
	b.WriteString(p.Subtitle)
	b.WriteString(hashFieldSeparator)
	if p.ImageURL == nil {
		b.WriteString(nilMarker)
	} else {
		b.WriteString(*p.ImageURL)
	}
	b.WriteString(hashFieldSeparator)
	b.WriteString(strconv.FormatInt(p.AmountCents, 10))
	b.WriteString(hashFieldSeparator)
	b.WriteString(p.Currency)
	b.WriteString(hashFieldSeparator)
	b.WriteString(strconv.FormatFloat(p.RatingAvg, 'f', 2, 64))
	b.WriteString(hashFieldSeparator)
	b.WriteString(strconv.Itoa(p.RatingCount))
	b.WriteString(hashFieldSeparator)
	b.WriteString(strconv.Itoa(p.ProgressBucket))

	return strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}
