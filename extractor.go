package htmlmeta

// Extractor converts raw HTML into plain text and metadata records.
type Extractor interface {
	// Extract processes one HTML document. Every call owns all of its
	// state, so a single Extractor may be used from many goroutines.
	// A document that did not reach a cleaning fixpoint is not an error;
	// see Result.Converged.
	Extract(html []byte) (*Result, error)
}
