package orchestrator

import (
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/hfsx/internal/catalog"
)

// Predicate names the find-by-criteria filters the discover action
// supports (SPEC_FULL.md §6.3, supplementing spec.md's three actions
// with a fourth layered on the same catalog walk as list/extract).
type Predicate struct {
	NameGlob      string // shell-style pattern (*, ?), matched against the item's name
	Extensions    []string
	CaseSensitive bool
	MinSize       int64
	MaxSize       int64 // 0 means unbounded
	MaxResults    int   // 0 means unbounded
}

// Discover walks the whole catalog and returns every file matching
// pred. Folders are never matched, since glob/extension/size criteria
// only make sense against files (discover finds files, per
// SPEC_FULL.md §6.3). truncated reports whether MaxResults cut the
// walk short.
func (s *Session) Discover(pred Predicate) (items []catalog.DehydratedItem, truncated bool, err error) {
	walkErr := s.cat.WalkAll(func(item catalog.DehydratedItem) bool {
		if item.IsFolder {
			return true
		}
		if !pred.matches(item) {
			return true
		}
		items = append(items, item)
		if pred.MaxResults > 0 && len(items) >= pred.MaxResults {
			truncated = true
			return false
		}
		return true
	})
	if walkErr != nil {
		return nil, false, walkErr
	}
	return items, truncated, nil
}

func (p Predicate) matches(item catalog.DehydratedItem) bool {
	if p.NameGlob != "" && !globMatch(p.NameGlob, item.Name, p.CaseSensitive) {
		return false
	}
	if len(p.Extensions) > 0 && !extensionMatches(item.Name, p.Extensions, p.CaseSensitive) {
		return false
	}
	size := int64(item.DataFork.LogicalSize)
	if size < p.MinSize {
		return false
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		return false
	}
	return true
}

func globMatch(pattern, name string, caseSensitive bool) bool {
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
		name = strings.ToLower(name)
	}
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}

func extensionMatches(name string, extensions []string, caseSensitive bool) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, want := range extensions {
		want = strings.TrimPrefix(want, ".")
		if caseSensitive {
			if ext == want {
				return true
			}
		} else if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
