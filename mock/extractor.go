package mock

import "github.com/fwojciec/htmlmeta"

var _ htmlmeta.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of htmlmeta.Extractor.
type Extractor struct {
	ExtractFn func(html []byte) (*htmlmeta.Result, error)
}

func (e *Extractor) Extract(html []byte) (*htmlmeta.Result, error) {
	return e.ExtractFn(html)
}
