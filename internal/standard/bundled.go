package standard

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// ManifestFile lists the standards of a bundle, in registry order.
const ManifestFile = "manifest.yaml"

//go:embed standards
var bundled embed.FS

// Manifest is the ordered list of standards in a bundle.
type Manifest struct {
	Standards []ManifestEntry `yaml:"standards"`
}

// ManifestEntry names one standard document of a bundle.
type ManifestEntry struct {
	ID   string `yaml:"id"`
	File string `yaml:"file"`
}

// LoadBundled loads the standards compiled into the binary.
func LoadBundled() (*Registry, error) {
	sub, err := fs.Sub(bundled, "standards")
	if err != nil {
		return nil, fmt.Errorf("open bundled standards: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir loads a bundle from a directory on disk.
func LoadDir(dir string) (*Registry, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads the manifest at the root of fsys and every document it names.
func LoadFS(fsys fs.FS) (*Registry, error) {
	docs, err := ReadDocuments(fsys)
	if err != nil {
		return nil, err
	}
	return NewRegistry(docs...)
}

// ReadDocuments reads the manifest and the raw documents without parsing them.
func ReadDocuments(fsys fs.FS) ([]Document, error) {
	raw, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ManifestFile, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ManifestFile, err)
	}

	docs := make([]Document, 0, len(manifest.Standards))
	for _, entry := range manifest.Standards {
		if entry.File == "" {
			return nil, fmt.Errorf("standard %q: missing file", entry.ID)
		}
		text, err := fs.ReadFile(fsys, path.Clean(entry.File))
		if err != nil {
			return nil, fmt.Errorf("standard %q: %w", entry.ID, err)
		}
		docs = append(docs, Document{ID: entry.ID, Text: string(text)})
	}
	return docs, nil
}
