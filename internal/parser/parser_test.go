package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	doc, err := ParseString(`{"name": "John", "age": 30, "active": true, "rate": 0.5, "notes": null}`)
	require.NoError(t, err)

	assert.False(t, doc.RootIsArray)
	require.Equal(t, models.Object, doc.Root.Kind)
	require.Len(t, doc.Root.Members, 5)

	members := doc.Root.Members
	assert.Equal(t, "name", members[0].Key)
	assert.Equal(t, models.Value{Kind: models.String, Str: "John"}, members[0].Value)
	assert.Equal(t, "age", members[1].Key)
	assert.Equal(t, models.Value{Kind: models.Int, Int: 30}, members[1].Value)
	assert.Equal(t, "active", members[2].Key)
	assert.Equal(t, models.Value{Kind: models.Bool, Bool: true}, members[2].Value)
	assert.Equal(t, "rate", members[3].Key)
	assert.Equal(t, models.Value{Kind: models.Double, Num: 0.5}, members[3].Value)
	assert.Equal(t, "notes", members[4].Key)
	assert.Equal(t, models.Value{Kind: models.Null}, members[4].Value)
}

func TestParse_MemberOrderPreserved(t *testing.T) {
	doc, err := ParseString(`{"zebra": 1, "apple": 2, "mango": 3}`)
	require.NoError(t, err)

	keys := make([]string, 0, len(doc.Root.Members))
	for _, m := range doc.Root.Members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keys)
}

func TestParse_NestedStructures(t *testing.T) {
	doc, err := ParseString(`{"user": {"tags": ["a", "b"], "meta": {"n": 1}}}`)
	require.NoError(t, err)

	require.Len(t, doc.Root.Members, 1)
	user := doc.Root.Members[0].Value
	require.Equal(t, models.Object, user.Kind)
	require.Len(t, user.Members, 2)

	tags := user.Members[0].Value
	require.Equal(t, models.Array, tags.Kind)
	require.Len(t, tags.Items, 2)
	assert.Equal(t, "a", tags.Items[0].Str)

	meta := user.Members[1].Value
	require.Equal(t, models.Object, meta.Kind)
	require.Len(t, meta.Members, 1)
}

func TestParse_RootArray(t *testing.T) {
	doc, err := ParseString(`[{"a": 1}, {"a": 2}]`)
	require.NoError(t, err)

	assert.True(t, doc.RootIsArray)
	require.Equal(t, models.Array, doc.Root.Kind)
	assert.Len(t, doc.Root.Items, 2)
}

func TestParse_EmptyContainers(t *testing.T) {
	doc, err := ParseString(`{"obj": {}, "arr": []}`)
	require.NoError(t, err)

	require.Len(t, doc.Root.Members, 2)
	assert.Equal(t, models.Object, doc.Root.Members[0].Value.Kind)
	assert.Empty(t, doc.Root.Members[0].Value.Members)
	assert.Equal(t, models.Array, doc.Root.Members[1].Value.Kind)
	assert.Empty(t, doc.Root.Members[1].Value.Items)
}

func TestParse_NumberClassification(t *testing.T) {
	tests := []struct {
		name     string
		literal  string
		expected models.Value
	}{
		{"zero", `0`, models.Value{Kind: models.Int, Int: 0}},
		{"negative", `-7`, models.Value{Kind: models.Int, Int: -7}},
		{"int64 max", `9223372036854775807`, models.Value{Kind: models.Int, Int: 9223372036854775807}},
		{"fraction", `3.14`, models.Value{Kind: models.Double, Num: 3.14}},
		{"exponent", `2e10`, models.Value{Kind: models.Double, Num: 2e10}},
		{"beyond int64", `92233720368547758080`, models.Value{Kind: models.Double, Num: 92233720368547758080}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(`{"n": ` + tt.literal + `}`)
			require.NoError(t, err)
			require.Len(t, doc.Root.Members, 1)
			assert.Equal(t, tt.expected, doc.Root.Members[0].Value)
		})
	}
}

func TestParse_StringEscapes(t *testing.T) {
	doc, err := ParseString(`{"msg": "line\nbreak \"quoted\""}`)
	require.NoError(t, err)

	assert.Equal(t, "line\nbreak \"quoted\"", doc.Root.Members[0].Value.Str)
}

func TestParseString_EmptyInput(t *testing.T) {
	tests := []string{"", "   ", "\n\t"}
	for _, input := range tests {
		_, err := ParseString(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEmptyInput)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare word", `{"a": hello}`},
		{"unterminated object", `{"a": 1`},
		{"trailing comma", `{"a": 1,}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParse_MultipleRootValues(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMultipleJSON)
}

func TestParse_TrailingWhitespaceAllowed(t *testing.T) {
	doc, err := Parse(strings.NewReader("{\"a\": 1}  \n\t"))
	require.NoError(t, err)
	assert.Len(t, doc.Root.Members, 1)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile("/non/existent/file.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidFilePath)
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileEmpty)
}

func TestParseFile_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": 7}`), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Root.Members, 1)
	assert.Equal(t, int64(7), doc.Root.Members[0].Value.Int)
}
