package storage

import "fmt"

const DefaultDir = ".bipedsim/runs"

// NewStore opens the backend named by kind. For "dir" path is the base
// directory; for "sqlite" it is the database file.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "dir":
		if path == "" {
			path = DefaultDir
		}
		return NewDirStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
