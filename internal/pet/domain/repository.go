package domain

import (
	"context"
	"time"
)

type PetRepository interface {
	Create(ctx context.Context, pet *Pet) error
	Update(ctx context.Context, pet *Pet) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Pet, error)
	// List returns one page of listings plus the total record count.
	List(ctx context.Context, page, pageSize int) ([]*Pet, int64, error)
	// Search returns listings matching term ordered by descending relevance.
	Search(ctx context.Context, term string, limit int) ([]*Pet, error)
	// MarkPurchased sets purchasedAt only if it is currently unset and
	// returns the updated pet. It fails with ErrPetNotFound or
	// ErrAlreadyPurchased otherwise.
	MarkPurchased(ctx context.Context, id string, at time.Time) (*Pet, error)
}

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for a stored key.
	URL(key string) string
}

type Cache interface {
	GetPet(ctx context.Context, id string) (*Pet, error)
	SetPet(ctx context.Context, pet *Pet) error
	DeletePet(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
