package orchestrator

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
)

// ParseHFSPath tokenizes a TN1041 colon-separated HFS pathname into its
// components. A leading colon marks the path as relative to the volume
// (the first element of the result is then an empty string rather than
// a volume name); a single trailing colon is dropped; an empty
// component elsewhere in the path is not carried into the result, but
// two consecutive empty components with nothing real between them
// leaves nothing to step up from and is ill-formed (spec.md §6, §8 S6).
func ParseHFSPath(raw string) ([]string, error) {
	tokens := strings.Split(raw, ":")

	if len(tokens) > 1 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}

	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] == "" && tokens[i+1] == "" {
			return nil, hfserr.New(hfserr.PathSyntax, "ParseHFSPath", fmt.Errorf("%q: ill-formed HFS path", raw))
		}
	}

	result := make([]string, 0, len(tokens))
	result = append(result, tokens[0])
	for _, tok := range tokens[1:] {
		if tok == "" {
			continue
		}
		result = append(result, tok)
	}
	return result, nil
}
