// Package home provides the landing page feature for the UI.
package home

// Card links a framework on the landing page to its installation tab.
type Card struct {
	ID      string
	Label   string
	Image   string
	Href    string
	Beta    bool
	Tooltip string
}

// LandingData holds everything rendered below the hero.
type LandingData struct {
	Title       string
	Description string
	GetStarted  string
	Cards       []Card
}
