package query

// Meta names the record metadata pseudo-bins addressable alongside regular
// bins.
type Meta int

const (
	// MetaKey addresses the record's primary key.
	MetaKey Meta = iota
	// MetaTTL addresses the record's remaining time to live.
	MetaTTL
	// MetaExpiration addresses the record's absolute expiration time.
	MetaExpiration
	// MetaGeneration addresses the record's write generation counter.
	MetaGeneration
)

// String returns the pseudo-bin name used on the wire.
func (m Meta) String() string {
	switch m {
	case MetaKey:
		return "__key"
	case MetaExpiration:
		return "__Expiration"
	case MetaGeneration:
		return "__generation"
	case MetaTTL:
		return "__ttl"
	}
	return "__unknown"
}
