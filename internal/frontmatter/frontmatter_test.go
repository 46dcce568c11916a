package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExtract_NoBlock(t *testing.T) {
	raw := "\n  # Hello\n\nJust text.\n\n"
	fields, body, block := Split(raw)
	assert.Empty(t, fields)
	assert.False(t, block.Found)
	assert.Equal(t, "# Hello\n\nJust text.", body)
}

func TestExtract_ScalarsAndLists(t *testing.T) {
	raw := `---
title: "Hello, World"
date: 2024-03-01
categories: [Go, 'Web Dev', "CLI"]
languages: []
originalLink: https://example.com/post?id=1
  indented: yes
not a field line
---
Body text.`

	fields, body, block := Split(raw)
	require.True(t, block.Found)
	assert.Equal(t, "Body text.", body)

	title, err := fields.Scalar("title")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World", title)

	cats, err := fields.List("categories")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Web Dev", "CLI"}, cats)

	langs, err := fields.List("languages")
	require.NoError(t, err)
	assert.Empty(t, langs)

	link, err := fields.Scalar("originalLink")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/post?id=1", link)

	indented, err := fields.Scalar("indented")
	require.NoError(t, err)
	assert.Equal(t, "yes", indented)

	assert.Equal(t, []string{"categories", "date", "indented", "languages", "originalLink", "title"}, fields.Keys())
}

func TestExtract_TypedAccessorErrors(t *testing.T) {
	fields := Extract("---\ntags: [a]\nname: x\n---\n")

	_, err := fields.Scalar("tags")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = fields.List("name")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = fields.Scalar("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, fields.Has("missing"))
}

func TestLocate(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		found bool
		body  string
	}{
		{"leading blank lines", "\n\n---\na: 1\n---\nbody", true, "body"},
		{"crlf", "---\r\na: 1\r\n---\r\nbody", true, "body"},
		{"unterminated", "---\na: 1\nbody", false, "---\na: 1\nbody"},
		{"not at start", "intro\n---\na: 1\n---\n", false, "intro\n---\na: 1\n---"},
		{"longer rule is not a delimiter", "---\na: 1\n----\nmore\n---\nbody", true, "body"},
		{"empty block", "---\n---\nbody", true, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, body, block := Split(tc.raw)
			assert.Equal(t, tc.found, block.Found)
			assert.Equal(t, tc.body, body)
		})
	}
}

func TestLocate_OnlyFirstBlock(t *testing.T) {
	raw := "---\ntitle: one\n---\ntext\n---\ntitle: two\n---\n"
	fields, body, _ := Split(raw)
	title, err := fields.Scalar("title")
	require.NoError(t, err)
	assert.Equal(t, "one", title)
	assert.Equal(t, "text\n---\ntitle: two\n---", body)
}

func TestInlineScans(t *testing.T) {
	raw := "# First Heading\nSome text\ndate: 2023-07-04\ncategories: [a, \"b\"]\noriginalLink:   https://x.test/y  \n# Second\n"

	assert.Equal(t, "First Heading", FirstHeading(raw))
	assert.Equal(t, "2023-07-04", InlineDate(raw))
	assert.Equal(t, "https://x.test/y", InlineScalar(raw, "originalLink"))

	cats, ok := InlineList(raw, "categories")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, cats)

	_, ok = InlineList(raw, "languages")
	assert.False(t, ok)
	assert.Empty(t, InlineDate("date: 2023-7-4"))
	assert.Empty(t, FirstHeading("## not level one"))
}

func TestMap_MarshalYAML(t *testing.T) {
	m := Map{"title": Scalar("Hi"), "tags": List("a", "b")}
	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "tags: [a, b]\ntitle: Hi\n", string(out))
}
