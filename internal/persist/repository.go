package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tordrt/erd2prisma/internal/model"
)

// DefaultNamespace is the key the editor document is saved under
const DefaultNamespace = "erd-to-prisma:flow"

// Repository loads and saves the editor document in a Backend
type Repository struct {
	backend   Backend
	namespace string
}

// NewRepository uses DefaultNamespace when namespace is empty
func NewRepository(backend Backend, namespace string) *Repository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Repository{backend: backend, namespace: namespace}
}

// Namespace returns the key the document is stored under
func (r *Repository) Namespace() string {
	return r.namespace
}

// Load returns the saved document. Absent data yields an empty document
// and no error; unreadable or corrupt data yields an empty document and
// the error for reporting.
func (r *Repository) Load(ctx context.Context) (model.Document, error) {
	data, err := r.backend.Get(ctx, r.namespace)
	if errors.Is(err, ErrNotFound) {
		return model.EmptyDocument(), nil
	}
	if err != nil {
		return model.EmptyDocument(), fmt.Errorf("failed to load document: %w", err)
	}

	doc := model.EmptyDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.EmptyDocument(), fmt.Errorf("failed to decode document: %w", err)
	}
	return doc.Clone(), nil
}

// Save writes the document
func (r *Repository) Save(ctx context.Context, doc model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := r.backend.Put(ctx, r.namespace, data); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Clear removes the saved document
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.backend.Delete(ctx, r.namespace); err != nil {
		return fmt.Errorf("failed to clear document: %w", err)
	}
	return nil
}
