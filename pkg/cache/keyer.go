package cache

// Keyer builds cache keys.
type Keyer interface {
	// SelectionKey identifies the selection produced by extractor for the
	// graph whose fingerprint is graphHash.
	SelectionKey(graphHash, extractor string) string
}

// DefaultKeyer produces keys of the form selection:<sha256>.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SelectionKey implements Keyer.
func (DefaultKeyer) SelectionKey(graphHash, extractor string) string {
	return hashKey("selection", graphHash, extractor)
}
