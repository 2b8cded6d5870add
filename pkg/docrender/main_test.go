package docrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDocumentType(t *testing.T) {
	assert.Equal(t, MARKDOWN, DetectDocumentType("README.md"))
	assert.Equal(t, MARKDOWN, DetectDocumentType("docs/x.MARKDOWN"))
	assert.Equal(t, ORG, DetectDocumentType("notes.org"))
	assert.Equal(t, NOT_DOCUMENT, DetectDocumentType("main.go"))
}

func TestRender_MarkdownSanitized(t *testing.T) {
	out, ok := Render("README.md", "# Title\n\nhello <script>alert(1)</script>\n")
	assert.True(t, ok)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Title")
	assert.NotContains(t, out, "<script>")
}

func TestRender_Org(t *testing.T) {
	out, ok := Render("notes.org", "* Heading\nsome *bold* text\n")
	assert.True(t, ok)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "bold")
}

func TestRender_NotDocument(t *testing.T) {
	_, ok := Render("main.go", "package main")
	assert.False(t, ok)
}
