package domain

import (
	"encoding/base64"
	"strconv"
)

// Page sizes for list operations.
const (
	DefaultMaxResults = 100
	MaxMaxResults     = 1000
)

// PageRequest holds pagination parameters for list operations. PageToken is
// an opaque URL-safe encoding of an offset.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// AllPages requests the largest page the repositories serve. Catalog
// enumeration uses it because virtual tables always see every entry.
var AllPages = PageRequest{MaxResults: MaxMaxResults}

// ParsePageToken decodes a token into an offset. The empty token is offset 0.
func ParsePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrValidation("invalid page token")
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0, ErrValidation("invalid page token")
	}
	return offset, nil
}

// Offset is the decoded page token; malformed tokens read as 0. Callers that
// must reject bad tokens use ParsePageToken first.
func (p PageRequest) Offset() int {
	offset, _ := ParsePageToken(p.PageToken)
	return offset
}

// Limit is MaxResults clamped to [1, MaxMaxResults], DefaultMaxResults when unset.
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	}
	return p.MaxResults
}

// EncodePageToken is the inverse of ParsePageToken. Offsets <= 0 encode as "".
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the token for the page after [offset, offset+limit),
// or "" when total is exhausted.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}
