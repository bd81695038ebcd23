package domain

import "context"

// Document kinds.
const (
	DocumentConvocation = "convocation"
	DocumentClubLetter  = "club_letter"
)

// ValidDocumentKind reports whether kind is a known document kind.
func ValidDocumentKind(kind string) bool {
	return kind == DocumentConvocation || kind == DocumentClubLetter
}

// StoredDocument is a generated document located in the document store.
type StoredDocument struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// DocumentStore locates, reads and writes tournament documents.
type DocumentStore interface {
	// Find returns the first existing candidate path of the document, or ErrNotFound.
	Find(ctx context.Context, kind string, t *Tournament) (*StoredDocument, error)
	Read(ctx context.Context, doc *StoredDocument) ([]byte, error)
	Save(ctx context.Context, kind string, t *Tournament, ext string, content []byte) (*StoredDocument, error)
}

// DocumentService generates letters for a tournament.
type DocumentService interface {
	Generate(ctx context.Context, actor *Actor, tournamentID, kind string) (*StoredDocument, error)
}
