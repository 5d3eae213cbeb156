package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

const (
	// DefaultPageSize matches the storefront's fixed page length.
	DefaultPageSize = 10
	// SearchLimit caps full-text search results.
	SearchLimit = 20
)

// CreatePetInput carries the submitted fields for a new listing. Price is a
// pointer so a missing price can be told apart from a free pet.
type CreatePetInput struct {
	Name         string
	Species      string
	FavoriteFood string
	Description  string
	Birthday     time.Time
	Price        *float64
	Avatar       []byte
}

// UpdatePetInput merges into an existing listing; nil fields are untouched.
type UpdatePetInput struct {
	Name         *string
	Species      *string
	FavoriteFood *string
	Description  *string
	Birthday     *time.Time
	Price        *float64
	Avatar       []byte
}

type PetUsecase struct {
	repo      domain.PetRepository
	storage   domain.Storage
	cache     domain.Cache
	publisher domain.Publisher
	avatars   *AvatarUsecase
	logger    *zap.Logger
}

func NewPetUsecase(
	repo domain.PetRepository,
	storage domain.Storage,
	cache domain.Cache,
	publisher domain.Publisher,
	avatars *AvatarUsecase,
	logger *zap.Logger,
) *PetUsecase {
	return &PetUsecase{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		publisher: publisher,
		avatars:   avatars,
		logger:    logger,
	}
}

// CreatePet validates the submitted fields, processes the avatar when one
// was uploaded, and persists the listing. An avatar failure aborts the
// create so partial variant sets are never persisted.
func (uc *PetUsecase) CreatePet(ctx context.Context, in CreatePetInput) (*domain.Pet, error) {
	pet := &domain.Pet{
		Name:         in.Name,
		Species:      in.Species,
		FavoriteFood: in.FavoriteFood,
		Description:  in.Description,
		Birthday:     in.Birthday,
	}
	if in.Price != nil {
		pet.Price = *in.Price
	}

	errs := pet.Validate()
	if in.Price == nil {
		if errs == nil {
			errs = domain.ValidationErrors{}
		}
		errs["price"] = "Price is required"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if len(in.Avatar) > 0 {
		// No listing ID yet, so the base key falls back to a timestamp.
		res, err := uc.avatars.Process(ctx, "", in.Avatar)
		if err != nil {
			return nil, err
		}
		pet.AvatarKey = res.BaseKey
	}

	if err := uc.repo.Create(ctx, pet); err != nil {
		uc.logger.Error("create pet failed", zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, "pets.created", pet)
	return pet, nil
}

// GetPet reads through the cache. Cache failures are logged and treated as
// misses, they never fail the read.
func (uc *PetUsecase) GetPet(ctx context.Context, id string) (*domain.Pet, error) {
	if cached, err := uc.cache.GetPet(ctx, id); err != nil {
		uc.logger.Warn("pet cache read failed", zap.String("pet_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	pet, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetPet(ctx, pet); err != nil {
		uc.logger.Warn("pet cache write failed", zap.String("pet_id", id), zap.Error(err))
	}
	return pet, nil
}

// ListPets returns one page of listings plus the page count, floored at 1
// even when the catalogue is empty.
func (uc *PetUsecase) ListPets(ctx context.Context, page int) ([]*domain.Pet, int, error) {
	if page < 1 {
		page = 1
	}
	pets, total, err := uc.repo.List(ctx, page, DefaultPageSize)
	if err != nil {
		return nil, 0, err
	}
	return pets, PagesCount(total, DefaultPageSize), nil
}

// SearchPets runs the weighted full-text search.
func (uc *PetUsecase) SearchPets(ctx context.Context, term string) ([]*domain.Pet, error) {
	if term == "" {
		return nil, domain.ErrEmptySearchTerm
	}
	return uc.repo.Search(ctx, term, SearchLimit)
}

// UpdatePet merges the submitted fields into the stored listing, optionally
// replacing its avatar, then re-validates and persists.
func (uc *PetUsecase) UpdatePet(ctx context.Context, id string, in UpdatePetInput) (*domain.Pet, error) {
	pet, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		pet.Name = *in.Name
	}
	if in.Species != nil {
		pet.Species = *in.Species
	}
	if in.FavoriteFood != nil {
		pet.FavoriteFood = *in.FavoriteFood
	}
	if in.Description != nil {
		pet.Description = *in.Description
	}
	if in.Birthday != nil {
		pet.Birthday = *in.Birthday
	}
	if in.Price != nil {
		pet.Price = *in.Price
	}
	if errs := pet.Validate(); len(errs) > 0 {
		return nil, errs
	}

	oldKey := pet.AvatarKey
	if len(in.Avatar) > 0 {
		res, err := uc.avatars.Process(ctx, id, in.Avatar)
		if err != nil {
			return nil, err
		}
		pet.AvatarKey = res.BaseKey
	}

	if err := uc.repo.Update(ctx, pet); err != nil {
		uc.logger.Error("update pet failed", zap.String("pet_id", id), zap.Error(err))
		return nil, err
	}

	if len(in.Avatar) > 0 && oldKey != "" && oldKey != pet.AvatarKey {
		uc.deleteVariants(ctx, oldKey)
	}
	uc.invalidate(ctx, id)
	return pet, nil
}

// DeletePet removes the listing and then best-effort deletes its stored
// image variants. A storage failure is logged, never surfaced: losing an
// orphan object must not block the delete.
func (uc *PetUsecase) DeletePet(ctx context.Context, id string) error {
	pet, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("delete pet failed", zap.String("pet_id", id), zap.Error(err))
		return err
	}

	if pet.AvatarKey != "" {
		uc.deleteVariants(ctx, pet.AvatarKey)
	}
	uc.invalidate(ctx, id)
	uc.publish(ctx, "pets.deleted", pet)
	return nil
}

func (uc *PetUsecase) deleteVariants(ctx context.Context, baseKey string) {
	for _, v := range []domain.Variant{domain.VariantStandard, domain.VariantSquare} {
		key := domain.VariantKey(baseKey, v)
		if err := uc.storage.Delete(ctx, key); err != nil {
			uc.logger.Warn("avatar variant delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (uc *PetUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.DeletePet(ctx, id); err != nil {
		uc.logger.Warn("pet cache invalidation failed", zap.String("pet_id", id), zap.Error(err))
	}
}

func (uc *PetUsecase) publish(ctx context.Context, subject string, pet *domain.Pet) {
	if err := uc.publisher.Publish(ctx, subject, pet); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

// PagesCount is the number of pages needed for total records, never less
// than one.
func PagesCount(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}
