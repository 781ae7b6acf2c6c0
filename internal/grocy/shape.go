package grocy

import "fmt"

// DefaultResponseSizeLimit is the body size limit in bytes when none is configured.
const DefaultResponseSizeLimit = 10000

// Truncation describes a body cut to the size limit.
type Truncation struct {
	OriginalSize    int `json:"originalSize"`
	ReturnedSize    int `json:"returnedSize"`
	TruncationPoint int `json:"truncationPoint"`
	SizeLimit       int `json:"sizeLimit"`
}

// Validation is attached to every shaped result.
type Validation struct {
	IsError   bool        `json:"isError"`
	Messages  []string    `json:"messages"`
	Truncated *Truncation `json:"truncated,omitempty"`
}

// Shaper bounds response bodies. Only the body bytes are measured; headers
// and envelope fields never count towards Limit.
type Shaper struct {
	Limit int
}

// NewShaper returns a Shaper, falling back to the default for non-positive limits.
func NewShaper(limit int) Shaper {
	if limit <= 0 {
		limit = DefaultResponseSizeLimit
	}
	return Shaper{Limit: limit}
}

// Shape returns body unchanged when it fits. Otherwise it returns exactly the
// first Limit bytes, appends a message to v and records the truncation. The
// cut body may no longer be valid JSON.
func (s Shaper) Shape(body []byte, v *Validation) ([]byte, bool) {
	size := len(body)
	if size <= s.Limit {
		return body, false
	}

	v.Messages = append(v.Messages, fmt.Sprintf(
		"Response truncated: %d of %d bytes returned due to size limit (%d bytes)",
		s.Limit, size, s.Limit))
	v.Truncated = &Truncation{
		OriginalSize:    size,
		ReturnedSize:    s.Limit,
		TruncationPoint: s.Limit,
		SizeLimit:       s.Limit,
	}
	return body[:s.Limit], true
}
