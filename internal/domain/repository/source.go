package repository

// SourceType names a MarketSource backend.
type SourceType string

const (
	SourceHTTP       SourceType = "http"
	SourceClickHouse SourceType = "clickhouse"
)

// IsValidSource returns true if s is a supported source type.
func IsValidSource(s SourceType) bool {
	switch s {
	case SourceHTTP, SourceClickHouse:
		return true
	default:
		return false
	}
}

// DefaultSource returns the default source type.
func DefaultSource() SourceType { return SourceHTTP }

// NormalizeSource converts raw string to a valid source type (or default).
func NormalizeSource(s string) SourceType {
	if s == "" {
		return DefaultSource()
	}
	st := SourceType(s)
	if IsValidSource(st) {
		return st
	}
	return DefaultSource()
}
