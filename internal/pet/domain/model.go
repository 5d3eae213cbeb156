package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinDescriptionLen is the shortest description a listing may carry.
// Short blurbs sell pets badly.
const MinDescriptionLen = 140

// Variant names a resized derivative of an uploaded avatar.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantSquare   Variant = "square"
)

// Pet is one pet-for-sale listing. AvatarKey holds the canonical storage
// base key; variant URLs are derived, never persisted.
type Pet struct {
	ID           string
	Name         string
	Species      string
	FavoriteFood string
	Description  string
	Birthday     time.Time
	Price        float64
	AvatarKey    string
	PurchasedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Purchased reports whether the listing has been sold.
func (p *Pet) Purchased() bool {
	return p.PurchasedAt != nil
}

// Validate collects every violation so a caller can render all field errors
// at once instead of failing on the first one.
func (p *Pet) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(p.Species) == "" {
		errs["species"] = "Species is required"
	}
	if strings.TrimSpace(p.FavoriteFood) == "" {
		errs["favoriteFood"] = "Favorite Food is required"
	}
	if p.Birthday.IsZero() {
		errs["birthday"] = "Birthday is required"
	}
	switch {
	case strings.TrimSpace(p.Description) == "":
		errs["description"] = "Description is required"
	case utf8.RuneCountInString(p.Description) < MinDescriptionLen:
		errs["description"] = fmt.Sprintf("Description must be at least %d characters", MinDescriptionLen)
	}
	if p.Price < 0 {
		errs["price"] = "Price must be non-negative"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// VariantKey derives the object-store key for one variant of a base key,
// e.g. pets/avatar/123-456 -> pets/avatar/123-456-standard.jpg.
func VariantKey(baseKey string, v Variant) string {
	return baseKey + "-" + string(v) + ".jpg"
}
