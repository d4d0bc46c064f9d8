package publish

import (
	"fmt"
	"os"
	"path/filepath"
)

// BundleFile is one file staged for the publication commit. Name is the
// path inside the published repository.
type BundleFile struct {
	Name    string
	Content []byte
}

// Bundle is the set of files committed and released together.
type Bundle struct {
	Files []BundleFile
}

// LoadBundle reads the named files relative to baseDir. Missing or empty
// files fail the load: a partial bundle must never be published.
func LoadBundle(baseDir string, names []string) (*Bundle, error) {
	b := &Bundle{Files: make([]BundleFile, 0, len(names))}

	for _, name := range names {
		path := filepath.Join(baseDir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading bundle file %s: %w", path, err)
		}
		if len(content) == 0 {
			return nil, fmt.Errorf("bundle file %s is empty", path)
		}
		b.Files = append(b.Files, BundleFile{Name: name, Content: content})
	}

	return b, nil
}

// TotalSize returns the byte size of the staged bundle.
func (b *Bundle) TotalSize() int {
	total := 0
	for _, f := range b.Files {
		total += len(f.Content)
	}
	return total
}
