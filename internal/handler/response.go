package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

// petView is the wire shape of a listing. avatarUrl carries the canonical
// base key; picUrl and picUrlSq are the legacy full-URL fields, derived
// here for backward compatibility and never persisted.
type petView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	FavoriteFood string     `json:"favoriteFood"`
	Description  string     `json:"description"`
	Birthday     string     `json:"birthday"`
	Price        float64    `json:"price"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	PicURL       string     `json:"picUrl,omitempty"`
	PicURLSq     string     `json:"picUrlSq,omitempty"`
	PurchasedAt  *time.Time `json:"purchasedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toPetView(pet *domain.Pet, storage domain.Storage) petView {
	v := petView{
		ID:           pet.ID,
		Name:         pet.Name,
		Species:      pet.Species,
		FavoriteFood: pet.FavoriteFood,
		Description:  pet.Description,
		Price:        pet.Price,
		PurchasedAt:  pet.PurchasedAt,
		CreatedAt:    pet.CreatedAt,
		UpdatedAt:    pet.UpdatedAt,
	}
	if !pet.Birthday.IsZero() {
		v.Birthday = pet.Birthday.Format("2006-01-02")
	}
	if pet.AvatarKey != "" {
		v.AvatarURL = pet.AvatarKey
		v.PicURL = storage.URL(domain.VariantKey(pet.AvatarKey, domain.VariantStandard))
		v.PicURLSq = storage.URL(domain.VariantKey(pet.AvatarKey, domain.VariantSquare))
	}
	return v
}

func toPetViews(pets []*domain.Pet, storage domain.Storage) []petView {
	views := make([]petView, 0, len(pets))
	for _, p := range pets {
		views = append(views, toPetView(p, storage))
	}
	return views
}

// respondError maps domain errors onto HTTP statuses. Validation errors
// come back as a field map so a form can render every message at once.
func respondError(c *gin.Context, err error) {
	if errs, ok := domain.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}
	switch {
	case errors.Is(err, domain.ErrPetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pet not found"})
	case errors.Is(err, domain.ErrAlreadyPurchased),
		errors.Is(err, domain.ErrUnsupportedMediaType),
		errors.Is(err, domain.ErrPayloadTooLarge),
		errors.Is(err, domain.ErrEmptySearchTerm):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// wantsJSON checks the Accept header for content negotiation on routes that
// serve both HTML pages and the JSON API.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
