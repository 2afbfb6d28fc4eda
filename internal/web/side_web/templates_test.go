package side_web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EscapesUpstreamText(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderer.Render(&out, "detail.html", DetailVM{Visible: true, Name: "<script>alert(1)</script>"}))
	assert.NotContains(t, out.String(), "<script>alert(1)</script>")
	assert.Contains(t, out.String(), "&lt;script&gt;")
}

func TestRenderer_UnknownTemplateWritesNothing(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	var out bytes.Buffer
	assert.Error(t, renderer.Render(&out, "missing.html", nil))
	assert.Zero(t, out.Len())
}
