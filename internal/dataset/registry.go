package dataset

import (
	"fmt"
	"sync"

	"github.com/aurorastack/insight-engine/internal/models"
)

// Registry memoizes the fixed corpora per label. Tables are built on first
// access and shared read-only afterwards; Get is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	tables map[models.DatasetLabel]*Table
}

// NewRegistry returns an empty registry; tables are constructed lazily.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[models.DatasetLabel]*Table)}
}

// Get resolves a dataset label to its table. Unknown labels fail with
// UnknownDatasetError.
func (r *Registry) Get(label models.DatasetLabel) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if table, ok := r.tables[label]; ok {
		return table, nil
	}

	build, ok := builders[label]
	if !ok {
		return nil, &models.UnknownDatasetError{Label: label}
	}
	table, err := build()
	if err != nil {
		return nil, fmt.Errorf("build dataset %s: %w", label, err)
	}
	r.tables[label] = table
	return table, nil
}

// Labels lists the dataset labels the registry can resolve.
func (r *Registry) Labels() []models.DatasetLabel {
	return []models.DatasetLabel{
		models.DatasetBaseBiometric,
		models.DatasetCortisolFocus,
		models.DatasetHRVStress,
	}
}

var builders = map[models.DatasetLabel]func() (*Table, error){
	models.DatasetBaseBiometric: buildBaseBiometric,
	models.DatasetCortisolFocus: buildCortisolFocus,
	models.DatasetHRVStress:     buildHRVStress,
}
