// Package navigation projects the portal shell: brand link, menu entries and home tiles.
package navigation

import "strings"

const (
	HomePath       = "/"
	SignInPath     = "/signin"
	CreateTicket   = "/tickets/new"
	TicketListPath = "/tickets"
)

type Item struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	// Placeholder entries lead to a "coming soon" screen.
	Placeholder  bool `json:"placeholder,omitempty"`
	requiresAuth bool
}

type Tile struct {
	Item
	Icon string `json:"icon"`
}

type Shell struct {
	Brand      Item   `json:"brand"`
	Items      []Item `json:"items"`
	Tiles      []Tile `json:"tiles"`
	SignedIn   bool   `json:"signed_in"`
	Email      string `json:"email,omitempty"`
	SignInPath string `json:"signin_path"`
}

var brand = Item{Label: "Ops Portal", Path: HomePath}

var entries = []Tile{
	{Item: Item{Label: "Create Ticket", Path: CreateTicket, requiresAuth: true}, Icon: "ticket"},
	{Item: Item{Label: "Tickets", Path: TicketListPath, requiresAuth: true}, Icon: "list"},
	{Item: Item{Label: "Rate Cards", Path: "/rate-cards", Placeholder: true}, Icon: "rates"},
	{Item: Item{Label: "Reports", Path: "/reports", Placeholder: true}, Icon: "reports"},
}

// Menu lists the navigation entries visible to the caller; ticket screens need a session.
func Menu(signedIn bool) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.requiresAuth && !signedIn {
			continue
		}
		items = append(items, e.Item)
	}
	return items
}

// Tiles mirrors Menu for the home screen. The list tile reads "View Tickets" there.
func Tiles(signedIn bool) []Tile {
	tiles := make([]Tile, 0, len(entries))
	for _, e := range entries {
		if e.requiresAuth && !signedIn {
			continue
		}
		if e.Path == TicketListPath {
			e.Label = "View Tickets"
		}
		tiles = append(tiles, e)
	}
	return tiles
}

func Build(signedIn bool, email string) Shell {
	s := Shell{
		Brand:      brand,
		Items:      Menu(signedIn),
		Tiles:      Tiles(signedIn),
		SignedIn:   signedIn,
		SignInPath: SignInPath,
	}
	if signedIn {
		s.Email = email
	}
	return s
}

// RedirectTarget returns where to go after sign-in. Only same-origin absolute paths are honoured.
func RedirectTarget(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, SignInPath) {
		return HomePath
	}
	return from
}
