package server

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/drawbridge/pkg/errors"
)

// Document is a stored diagram: the source text plus the converted XML.
type Document struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Source    string    `bson:"source" json:"source"`
	XML       string    `bson:"xml" json:"xml"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Store is the interface for diagram persistence backends.
type Store interface {
	// Save stores a document. The caller assigns the id.
	Save(ctx context.Context, doc *Document) error

	// Get retrieves a document by id. Returns a DIAGRAM_NOT_FOUND error
	// when the id is unknown.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns up to limit documents, newest first.
	List(ctx context.Context, limit int) ([]Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore keeps documents in memory. Used in development and when
// no MongoDB is configured; contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]Document
	order []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

// Save stores a document.
func (s *MemoryStore) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = *doc
	return nil
}

// Get retrieves a document by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
	}
	return &doc, nil
}

// List returns up to limit documents, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(docs) < limit; i-- {
		docs = append(docs, s.docs[s.order[i]])
	}
	return docs, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
