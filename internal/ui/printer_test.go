package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_GlyphsAndStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Info("checking %s", "node")
	p.Success("done")
	p.Warn("old version")
	p.Error("missing %d tool(s)", 1)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"ℹ checking node", "✓ done", "⚠ old version"}, lines)
	assert.Equal(t, "✗ missing 1 tool(s)\n", errOut.String())
}

func TestPrinter_NoColorOffTerminal(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out)
	p.Step("Installing dependencies")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestPrinter_Summary(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out)

	p.Summary([]Row{
		{Label: "Name", Value: "demo-app"},
		{Label: "Author", Value: ""},
		{Label: "DB password", Value: MaskSecret("secret")},
	})

	got := out.String()
	assert.Contains(t, got, "Name         demo-app")
	assert.Contains(t, got, "Author       (empty)")
	assert.Contains(t, got, "DB password  ********")
	assert.NotContains(t, got, "secret")
}

func TestPrinter_Markdown(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out)
	p.Markdown("## Next steps\n\n1. cd backend\n")
	assert.Contains(t, out.String(), "Next steps")
	assert.Contains(t, out.String(), "cd backend")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "********", MaskSecret("x"))
}

func TestPrinter_Detail(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Detail("npm ERR! code E404\nnpm ERR! 404 Not Found\n")
	p.Detail("")

	assert.Empty(t, out.String())
	assert.Equal(t, "    npm ERR! code E404\n    npm ERR! 404 Not Found\n", errOut.String())
}
