package index

import (
	"github.com/docdex/docdex/internal/domain"
)

// Repository defines the storage contract for the index service. The service
// is the synchronization boundary: implementations need no locking of their
// own but must apply each Upsert as a single atomic replace/append.
type Repository interface {
	Upsert(doc domain.Document) (created bool)
	TopK(query []float32, k int) []domain.Hit
	Len() int
	Path() string
	Save() error
}
