package navigation_test

import (
	"testing"

	"ops-portal/internal/navigation"

	"github.com/stretchr/testify/assert"
)

func labels(items []navigation.Item) []string {
	out := []string{}
	for _, i := range items {
		out = append(out, i.Label)
	}
	return out
}

func TestMenu(t *testing.T) {
	assert.Equal(t, []string{"Create Ticket", "Tickets", "Rate Cards", "Reports"}, labels(navigation.Menu(true)))
	assert.Equal(t, []string{"Rate Cards", "Reports"}, labels(navigation.Menu(false)))
}

func TestTiles(t *testing.T) {
	tiles := navigation.Tiles(true)
	assert.Len(t, tiles, 4)
	assert.Equal(t, "View Tickets", tiles[1].Label)
	assert.Equal(t, "/tickets", tiles[1].Path)

	// The menu keeps its own label.
	assert.Equal(t, "Tickets", navigation.Menu(true)[1].Label)
}

func TestBuild(t *testing.T) {
	s := navigation.Build(false, "ana@example.com")
	assert.Equal(t, "Ops Portal", s.Brand.Label)
	assert.False(t, s.SignedIn)
	assert.Empty(t, s.Email)
	assert.Equal(t, "/signin", s.SignInPath)

	s = navigation.Build(true, "ana@example.com")
	assert.Equal(t, "ana@example.com", s.Email)
	assert.Len(t, s.Items, 4)
}

func TestRedirectTarget(t *testing.T) {
	tests := map[string]string{
		"/tickets/new":       "/tickets/new",
		"":                   "/",
		"https://evil.test/": "/",
		"//evil.test":        "/",
		"/signin":            "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, navigation.RedirectTarget(in), in)
	}
}
