package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   Path
		schema string
	}{
		{
			name:   "single key",
			input:  "metadata",
			want:   Path{{Key: "metadata"}},
			schema: "metadata",
		},
		{
			name:   "nested keys",
			input:  "spec.storageClassName",
			want:   Path{{Key: "spec"}, {Key: "storageClassName"}},
			schema: "spec.storageClassName",
		},
		{
			name:  "index then key",
			input: "spec.template.spec.containers[0].image",
			want: Path{
				{Key: "spec"}, {Key: "template"}, {Key: "spec"},
				{Key: "containers"}, {Index: 0, IsIndex: true}, {Key: "image"},
			},
			schema: "spec.template.spec.containers[].image",
		},
		{
			name:  "two indexes",
			input: "spec.template.spec.containers[0].args[0]",
			want: Path{
				{Key: "spec"}, {Key: "template"}, {Key: "spec"},
				{Key: "containers"}, {Index: 0, IsIndex: true},
				{Key: "args"}, {Index: 0, IsIndex: true},
			},
			schema: "spec.template.spec.containers[].args[]",
		},
		{
			name:   "nested sequence",
			input:  "matrix[1][2]",
			want:   Path{{Key: "matrix"}, {Index: 1, IsIndex: true}, {Index: 2, IsIndex: true}},
			schema: "matrix[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
			assert.Equal(t, tt.schema, got.SchemaPath())
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"",
		"   ",
		"spec..name",
		"containers[",
		"containers[x]",
		"containers[-1]",
		"containers[0]x",
		"name]",
	} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePath(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPath), "got %v", err)
		})
	}
}

func TestMustParsePathPanics(t *testing.T) {
	assert.Panics(t, func() { MustParsePath("a[") })
	assert.NotPanics(t, func() { MustParsePath("a[0].b") })
}
