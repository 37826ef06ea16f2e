package pipeline

import (
	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/extract"
	"github.com/matzehuels/extractgym/pkg/extract/bottomup"
	"github.com/matzehuels/extractgym/pkg/extract/greedydag"
)

// Extractor names accepted on the command line and by the API.
const (
	ExtractorGreedyDag      = "faster-greedy-dag"
	ExtractorFasterBottomUp = "faster-bottom-up"
	ExtractorBottomUp       = "bottom-up"

	// The ILP extractors need an external solver and are not built in.
	ExtractorILP        = "ilp-cbc"
	ExtractorILPTimeout = "ilp-cbc-timeout"
)

// DefaultExtractor is used when no extractor is named.
const DefaultExtractor = ExtractorGreedyDag

var extractors = map[string]extract.Extractor{
	ExtractorGreedyDag:      greedydag.Extractor{},
	ExtractorFasterBottomUp: bottomup.Faster{},
	ExtractorBottomUp:       bottomup.Extractor{},
}

// extractorOrder is the display order of the built-in extractors.
var extractorOrder = []string{ExtractorGreedyDag, ExtractorFasterBottomUp, ExtractorBottomUp}

var unsupported = map[string]bool{
	ExtractorILP:        true,
	ExtractorILPTimeout: true,
}

// Extractors returns the names of all runnable extractors, default first.
func Extractors() []string {
	return append([]string(nil), extractorOrder...)
}

// LookupExtractor returns the extractor registered under name. Known but
// unavailable extractors yield an UNSUPPORTED error, anything else an
// INVALID_EXTRACTOR error.
func LookupExtractor(name string) (extract.Extractor, error) {
	if ex, ok := extractors[name]; ok {
		return ex, nil
	}
	if unsupported[name] {
		return nil, errors.New(errors.ErrCodeUnsupported, "extractor %q requires an ILP solver and is not available in this build", name)
	}
	return nil, errors.New(errors.ErrCodeInvalidExtractor, "unknown extractor %q (want one of %v)", name, extractorOrder)
}
