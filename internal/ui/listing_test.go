package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderListing(t *testing.T) {
	out := RenderListing("Available subcommands:", []ListEntry{
		{Name: "migrate", Help: "Run migrations"},
		{Name: "seed", Help: "Seed data"},
	})

	assert.True(t, strings.HasPrefix(out, "Available subcommands:\n"))
	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "Run migrations")
	assert.Contains(t, out, "seed")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRenderListing_NoHelp(t *testing.T) {
	out := RenderListing("Commands:", []ListEntry{
		{Name: "build"},
	})

	assert.Contains(t, out, "build")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 2)
}

func TestRenderListing_Empty(t *testing.T) {
	out := RenderListing("Commands:", nil)

	assert.Equal(t, "Commands:\n", out)
}
