package util

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadSource reads a source file's bytes via a short-lived memory mapping.
//
// Only the pages the extractor actually touches are faulted in, which keeps
// large vendored or generated files cheap to skim. The mapping is released
// before returning; the returned slice is an owned copy, safe to keep.
//
// If mmap fails (empty file, exotic filesystem, permissions) it falls back
// to os.ReadFile.
func ReadSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, fmt.Errorf("read %q: %w", path, rerr)
		}
		return data, nil
	}
	defer m.Unmap()

	data := make([]byte, len(m))
	copy(data, m)
	return data, nil
}
