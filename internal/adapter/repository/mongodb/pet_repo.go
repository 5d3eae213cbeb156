package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

type PetRepository struct {
	collection *mongo.Collection
}

func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{collection: db.Collection("pets")}
}

// EnsureIndexes creates the weighted text index the search path depends on.
// Name outweighs species, species outweighs favorite food, description
// trails, so a name hit always ranks first.
func (r *PetRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "species", Value: "text"},
			{Key: "favorite_food", Value: "text"},
			{Key: "description", Value: "text"},
		},
		Options: options.Index().
			SetName("pet_text_index").
			SetWeights(bson.M{
				"name":          10,
				"species":       4,
				"favorite_food": 2,
				"description":   1,
			}),
	})
	return err
}

func (r *PetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	now := time.Now()
	pet.ID = primitive.NewObjectID().Hex()
	pet.CreatedAt = now
	pet.UpdatedAt = now

	doc, err := toPetDocument(pet)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

func (r *PetRepository) Update(ctx context.Context, pet *domain.Pet) error {
	oid, err := primitive.ObjectIDFromHex(pet.ID)
	if err != nil {
		return domain.ErrPetNotFound
	}
	pet.UpdatedAt = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": listingFields(pet)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

// listingFields is the $set document for a listing edit. purchased_at is
// deliberately absent: MarkPurchased is its only writer, so a purchase that
// lands mid-edit survives the edit.
func listingFields(pet *domain.Pet) bson.M {
	return bson.M{
		"name":          pet.Name,
		"species":       pet.Species,
		"favorite_food": pet.FavoriteFood,
		"description":   pet.Description,
		"birthday":      pet.Birthday,
		"price":         pet.Price,
		"avatar_key":    pet.AvatarKey,
		"updated_at":    pet.UpdatedAt,
	}
}

func (r *PetRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPetNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

func (r *PetRepository) FindByID(ctx context.Context, id string) (*domain.Pet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPetNotFound
	}

	var doc petDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPetNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainPet(&doc), nil
}

func (r *PetRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Pet, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * pageSize)
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(pageSize)))
	if err != nil {
		return nil, 0, err
	}

	var docs []*petDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return toDomainPets(docs), total, nil
}

func (r *PetRepository) Search(ctx context.Context, term string, limit int) ([]*domain.Pet, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"$text": bson.M{"$search": term}},
		options.Find().
			SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
			SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var docs []*petDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainPets(docs), nil
}

// MarkPurchased is the only writer of purchased_at. The filter requires the
// field to still be unset, so concurrent success redirects race on a single
// atomic update and exactly one wins.
func (r *PetRepository) MarkPurchased(ctx context.Context, id string, at time.Time) (*domain.Pet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPetNotFound
	}

	var doc petDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "purchased_at": nil},
		bson.M{"$set": bson.M{"purchased_at": at, "updated_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the pet is gone or someone else already bought it.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
		if countErr != nil {
			return nil, countErr
		}
		if count == 0 {
			return nil, domain.ErrPetNotFound
		}
		return nil, domain.ErrAlreadyPurchased
	}
	if err != nil {
		return nil, err
	}
	return toDomainPet(&doc), nil
}
