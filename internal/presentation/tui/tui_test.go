package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "AI Maturity")

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "non-terminal writers get no escape codes")
	assert.Contains(t, out, "AI Maturity")
	assert.Equal(t, len(bannerLines)+4, strings.Count(out, "\n"))
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer("notty", 60)
	require.NoError(t, err)

	out, err := render("**Is there an AI policy?**")
	require.NoError(t, err)
	assert.Contains(t, out, "Is there an AI policy?")
}
