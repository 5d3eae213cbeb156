package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

// petDocument is the MongoDB shape of a listing. The avatar is stored once,
// as the base key; variant URLs are derived at the API boundary.
type petDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Species      string             `bson:"species"`
	FavoriteFood string             `bson:"favorite_food"`
	Description  string             `bson:"description"`
	Birthday     time.Time          `bson:"birthday"`
	Price        float64            `bson:"price"`
	AvatarKey    string             `bson:"avatar_key,omitempty"`
	PurchasedAt  *time.Time         `bson:"purchased_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toPetDocument(p *domain.Pet) (*petDocument, error) {
	if p == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if p.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("toPetDocument: invalid ID %q: %w", p.ID, err)
		}
	}

	return &petDocument{
		ID:           docID,
		Name:         p.Name,
		Species:      p.Species,
		FavoriteFood: p.FavoriteFood,
		Description:  p.Description,
		Birthday:     p.Birthday,
		Price:        p.Price,
		AvatarKey:    p.AvatarKey,
		PurchasedAt:  p.PurchasedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

func toDomainPet(d *petDocument) *domain.Pet {
	if d == nil {
		return nil
	}
	return &domain.Pet{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Species:      d.Species,
		FavoriteFood: d.FavoriteFood,
		Description:  d.Description,
		Birthday:     d.Birthday,
		Price:        d.Price,
		AvatarKey:    d.AvatarKey,
		PurchasedAt:  d.PurchasedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDomainPets(docs []*petDocument) []*domain.Pet {
	pets := make([]*domain.Pet, 0, len(docs))
	for _, doc := range docs {
		pets = append(pets, toDomainPet(doc))
	}
	return pets
}
