package orchestrator

import (
	"github.com/deploymenttheory/hfsx/internal/catalog"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// Entry is one row of a list result: an item plus the full path it was
// found at, relative to the volume root (spec.md §4.9 "list" action).
type Entry struct {
	Path string
	catalog.DehydratedItem
}

// List enumerates the contents of the folder named by path. When
// recursive is false, only the folder's immediate children are
// returned; when true, every descendant is visited depth-first.
func (s *Session) List(path string, recursive bool) ([]Entry, error) {
	cnid, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := s.listInto(cnid, path, recursive, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Session) listInto(parent types.Cnid, parentPath string, recursive bool, out *[]Entry) error {
	children, err := s.cat.Children(parent)
	if err != nil {
		return err
	}
	for _, item := range children {
		childPath := joinPath(parentPath, item.Name)
		*out = append(*out, Entry{Path: childPath, DehydratedItem: item})
		if recursive && item.IsFolder {
			if err := s.listInto(item.Cnid, childPath, recursive, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" || parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}
