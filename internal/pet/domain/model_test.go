package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPet() *Pet {
	return &Pet{
		Name:         "Buddy",
		Species:      "Golden Retriever",
		FavoriteFood: "Chicken",
		Description:  strings.Repeat("A very good boy. ", 10),
		Birthday:     time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC),
		Price:        299.99,
	}
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, validPet().Validate())
}

func TestValidate_ShortDescription(t *testing.T) {
	p := validPet()
	p.Description = "too short"

	errs := p.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs["description"], "at least 140 characters")
}

func TestValidate_DescriptionCountsCharactersNotBytes(t *testing.T) {
	p := validPet()
	// 100 characters but 200 bytes; must still be too short.
	p.Description = strings.Repeat("é", 100)

	errs := p.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "description")

	p.Description = strings.Repeat("é", 140)
	assert.Nil(t, p.Validate())
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	p := &Pet{Price: -1}

	errs := p.Validate()
	require.NotNil(t, errs)
	for _, field := range []string{"name", "species", "favoriteFood", "birthday", "description", "price"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidationErrors_AsError(t *testing.T) {
	var err error = ValidationErrors{"name": "Name is required"}

	got, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Name is required", got["name"])
	assert.Contains(t, err.Error(), "name: Name is required")
}

func TestVariantKey(t *testing.T) {
	base := "pets/avatar/123-456"
	assert.Equal(t, "pets/avatar/123-456-standard.jpg", VariantKey(base, VariantStandard))
	assert.Equal(t, "pets/avatar/123-456-square.jpg", VariantKey(base, VariantSquare))
}
