package grocy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_UnderLimit(t *testing.T) {
	s := NewShaper(10)
	v := &Validation{Messages: []string{"Request completed successfully"}}

	out, truncated := s.Shape([]byte("0123456789"), v)
	assert.False(t, truncated)
	assert.Equal(t, "0123456789", string(out))
	assert.Nil(t, v.Truncated)
	assert.Len(t, v.Messages, 1)
}

func TestShape_Truncates(t *testing.T) {
	for _, tc := range []struct{ size, limit int }{{11, 10}, {25000, 10000}, {2, 1}} {
		s := NewShaper(tc.limit)
		v := &Validation{Messages: []string{"Request completed successfully"}}
		body := bytes.Repeat([]byte("x"), tc.size)

		out, truncated := s.Shape(body, v)
		require.True(t, truncated)
		assert.Len(t, out, tc.limit)
		require.NotNil(t, v.Truncated)
		assert.Equal(t, tc.size, v.Truncated.OriginalSize)
		assert.Equal(t, tc.limit, v.Truncated.ReturnedSize)
		assert.Equal(t, tc.limit, v.Truncated.TruncationPoint)
		assert.Equal(t, tc.limit, v.Truncated.SizeLimit)
		assert.Len(t, v.Messages, 2)
	}
}

func TestShape_Message(t *testing.T) {
	s := NewShaper(5)
	v := &Validation{}
	s.Shape([]byte(`{"a":"bcdef"}`), v)
	assert.Equal(t, []string{"Response truncated: 5 of 13 bytes returned due to size limit (5 bytes)"}, v.Messages)
}

func TestNewShaper_Default(t *testing.T) {
	assert.Equal(t, DefaultResponseSizeLimit, NewShaper(0).Limit)
	assert.Equal(t, DefaultResponseSizeLimit, NewShaper(-3).Limit)
}
