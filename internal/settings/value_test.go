package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInterface(t *testing.T) {
	tests := []struct {
		raw  any
		want Value
	}{
		{raw: "s", want: String("s")},
		{raw: true, want: Bool(true)},
		{raw: 8080, want: String("8080")},
		{raw: int64(7), want: String("7")},
		{raw: 1.5, want: String("1.5")},
		{raw: []any{"a", "b"}, want: List("a", "b")},
		{raw: []string{"c"}, want: List("c")},
	}
	for _, tt := range tests {
		got, err := FromInterface(tt.raw)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "%v: got %#v", tt.raw, got)
	}

	_, err := FromInterface([]any{"a", 1})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromInterface(map[string]any{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestListCopiesInput(t *testing.T) {
	items := []string{"a"}
	v := List(items...)
	items[0] = "changed"

	got, ok := v.AsList()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(Bool(true)))
	assert.False(t, List("a").Equal(List("a", "b")))
	assert.Equal(t, "list", KindList.String())
}
