package ui

// A Provider serves a view of the leaderboards outside of chat.
type Provider interface {
	// GetURL returns a link to URI that the reader can open.
	// An empty URL means the provider has nothing to link to.
	GetURL(URI string) (string, error)
	Listen() error
}
