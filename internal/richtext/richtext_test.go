package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML_Paragraph(t *testing.T) {
	html, err := ToHTML("hello")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", html)
}

func TestToHTML_RawHTMLPassesThrough(t *testing.T) {
	html, err := ToHTML("<p>hello</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", html)
}

func TestToHTML_Formatting(t *testing.T) {
	html, err := ToHTML("**bold** and *it*\n\n- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<em>it</em>")
	assert.Contains(t, html, "<li>one</li>")
}

func TestToHTML_StripsScripts(t *testing.T) {
	html, err := ToHTML("hi <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")
}

func TestToHTML_Empty(t *testing.T) {
	html, err := ToHTML("  \n\t")
	require.NoError(t, err)
	assert.Equal(t, "", html)
	assert.True(t, IsEmpty(" \n"))
	assert.False(t, IsEmpty("x"))
}
