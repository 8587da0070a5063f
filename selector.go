package repscan

// Selector extracts the main textual content from a fetched page,
// discarding navigation and other boilerplate.
type Selector interface {
	// Select returns the main content text of doc, or "" when nothing
	// usable is found. Malformed markup yields less text, never an error.
	Select(doc *RawDocument) string
}
