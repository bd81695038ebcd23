// Package storage keeps generated tournament documents on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"refereehub/internal/domain"
)

// documentExtensions is the lookup order when a document already exists.
var documentExtensions = []string{"pdf", "docx", "html"}

var fileSuffixes = map[string]string{
	domain.DocumentConvocation: "convocazione",
	domain.DocumentClubLetter:  "lettera_circolo",
}

// LocalDocumentStore implements domain.DocumentStore below a root directory.
// Paths returned in StoredDocument are slash-separated and relative to the root.
type LocalDocumentStore struct {
	root string
}

func NewLocalDocumentStore(root string) *LocalDocumentStore {
	return &LocalDocumentStore{root: root}
}

// candidates lists the relative locations of a document without extension, most specific first.
func candidates(kind string, t *domain.Tournament) []string {
	suffix := fileSuffixes[kind]
	base := t.ID + "_" + suffix
	dir := "convocations"
	if kind == domain.DocumentClubLetter {
		dir = "club_letters"
	}
	var out []string
	if t.ZoneCode != "" {
		out = append(out, path.Join(dir, t.ZoneCode, base))
	}
	out = append(out, path.Join(dir, base), path.Join("documents", t.ID, kind))
	return out
}

func (s *LocalDocumentStore) Find(_ context.Context, kind string, t *domain.Tournament) (*domain.StoredDocument, error) {
	if !domain.ValidDocumentKind(kind) {
		return nil, fmt.Errorf("%w: unknown document kind %q", domain.ErrInvalidInput, kind)
	}
	for _, c := range candidates(kind, t) {
		for _, ext := range documentExtensions {
			rel := c + "." + ext
			info, err := os.Stat(s.abs(rel))
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("stat %s: %w", rel, err)
			}
			if info.IsDir() {
				continue
			}
			return &domain.StoredDocument{Kind: kind, Path: rel, Filename: path.Base(rel)}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *LocalDocumentStore) Read(_ context.Context, doc *domain.StoredDocument) ([]byte, error) {
	abs, err := s.resolve(doc.Path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", doc.Path, err)
	}
	return content, nil
}

// Save writes content at the most specific candidate location, replacing any previous file.
func (s *LocalDocumentStore) Save(_ context.Context, kind string, t *domain.Tournament, ext string, content []byte) (*domain.StoredDocument, error) {
	if !domain.ValidDocumentKind(kind) {
		return nil, fmt.Errorf("%w: unknown document kind %q", domain.ErrInvalidInput, kind)
	}
	rel := candidates(kind, t)[0] + "." + strings.TrimPrefix(ext, ".")
	abs := s.abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	tmp := abs + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("rename document: %w", err)
	}
	return &domain.StoredDocument{Kind: kind, Path: rel, Filename: path.Base(rel)}, nil
}

func (s *LocalDocumentStore) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// resolve maps a stored relative path to an absolute one, rejecting paths that leave the root.
func (s *LocalDocumentStore) resolve(rel string) (string, error) {
	if rel == "" || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("%w: document path %q outside store", domain.ErrInvalidInput, rel)
	}
	return s.abs(rel), nil
}
