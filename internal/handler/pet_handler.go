package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
	"github.com/petes-emporium/pet-store/internal/pet/usecase"
)

// PetHandler serves the storefront pages and their JSON twins.
type PetHandler struct {
	pets      *usecase.PetUsecase
	checkout  *usecase.CheckoutUsecase
	storage   domain.Storage
	stripeKey string
	logger    *zap.Logger
}

func NewPetHandler(pets *usecase.PetUsecase, checkout *usecase.CheckoutUsecase, storage domain.Storage, stripeKey string, logger *zap.Logger) *PetHandler {
	return &PetHandler{pets: pets, checkout: checkout, storage: storage, stripeKey: stripeKey, logger: logger}
}

// RegisterRoutes registers the storefront routes.
func (h *PetHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/search", h.Search)
	r.GET("/pets/new", h.NewForm)
	r.POST("/pets", h.Create)
	r.GET("/pets/:id", h.Show)
	r.GET("/pets/:id/edit", h.EditForm)
	r.PUT("/pets/:id", h.Update)
	r.DELETE("/pets/:id", h.Delete)
	r.POST("/pets/:id/purchase", h.Purchase)
}

// petRequest binds both JSON bodies and form posts. Pointers keep "absent"
// distinguishable from "empty" so updates can merge partially.
type petRequest struct {
	Name         *string  `json:"name" form:"name"`
	Species      *string  `json:"species" form:"species"`
	FavoriteFood *string  `json:"favoriteFood" form:"favoriteFood"`
	Description  *string  `json:"description" form:"description"`
	Birthday     *string  `json:"birthday" form:"birthday"`
	Price        *float64 `json:"price" form:"price"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func parseBirthday(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, domain.ValidationErrors{"birthday": "Birthday must be a valid date (YYYY-MM-DD)"}
	}
	return &t, nil
}

// avatarBytes extracts the uploaded avatar from a multipart request, if any.
func avatarBytes(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		// Plain JSON requests have no file; that is fine.
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// One byte past the limit lets the usecase reject oversize uploads
	// without the handler buffering arbitrarily large bodies.
	return io.ReadAll(io.LimitReader(f, usecase.MaxAvatarBytes+1))
}

// Index serves GET /: the paginated catalogue, HTML or JSON by Accept.
func (h *PetHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	pets, pagesCount, err := h.pets.ListPets(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	views := toPetViews(pets, h.storage)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"pets": views, "pagesCount": pagesCount, "currentPage": page})
		return
	}
	c.HTML(http.StatusOK, "pets-index.html", gin.H{
		"Pets":        views,
		"PagesCount":  pagesCount,
		"CurrentPage": page,
		"Term":        "",
	})
}

// Search serves GET /search?term=; an empty term is a 400.
func (h *PetHandler) Search(c *gin.Context) {
	pets, err := h.pets.SearchPets(c.Request.Context(), c.Query("term"))
	if err != nil {
		respondError(c, err)
		return
	}

	views := toPetViews(pets, h.storage)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"pets": views, "term": c.Query("term")})
		return
	}
	c.HTML(http.StatusOK, "pets-index.html", gin.H{
		"Pets":        views,
		"PagesCount":  1,
		"CurrentPage": 1,
		"Term":        c.Query("term"),
	})
}

func (h *PetHandler) NewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "pets-new.html", gin.H{})
}

// Create serves POST /pets, accepting a JSON body or a multipart form with
// an optional avatar file.
func (h *PetHandler) Create(c *gin.Context) {
	var req petRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		respondError(c, err)
		return
	}

	avatar, err := avatarBytes(c)
	if err != nil {
		respondError(c, err)
		return
	}

	in := usecase.CreatePetInput{
		Name:         str(req.Name),
		Species:      str(req.Species),
		FavoriteFood: str(req.FavoriteFood),
		Description:  str(req.Description),
		Price:        req.Price,
		Avatar:       avatar,
	}
	if birthday != nil {
		in.Birthday = *birthday
	}

	pet, err := h.pets.CreatePet(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, toPetView(pet, h.storage))
		return
	}
	c.Redirect(http.StatusFound, "/pets/"+pet.ID)
}

// Show serves GET /pets/:id. When the payment gateway redirects back with
// success=true it also finalizes the purchase; the redirect is retried at
// will, so a replay simply falls through to rendering the page.
func (h *PetHandler) Show(c *gin.Context) {
	id := c.Param("id")

	if c.Query("success") == "true" {
		err := h.checkout.FinalizeCheckout(c.Request.Context(), id, c.Query("session_id"))
		if errors.Is(err, domain.ErrPetNotFound) {
			respondError(c, err)
			return
		}
		if err != nil {
			// The page still renders; the purchase state speaks for itself.
			h.logger.Error("finalize checkout failed", zap.String("pet_id", id), zap.Error(err))
		}
	}

	pet, err := h.pets.GetPet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, toPetView(pet, h.storage))
		return
	}
	c.HTML(http.StatusOK, "pets-show.html", gin.H{
		"Pet":       toPetView(pet, h.storage),
		"Success":   c.Query("success") == "true",
		"StripeKey": h.stripeKey,
	})
}

func (h *PetHandler) EditForm(c *gin.Context) {
	pet, err := h.pets.GetPet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.HTML(http.StatusOK, "pets-edit.html", gin.H{"Pet": toPetView(pet, h.storage)})
}

// Update serves PUT /pets/:id, merging submitted fields and optionally
// replacing the avatar.
func (h *PetHandler) Update(c *gin.Context) {
	var req petRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		respondError(c, err)
		return
	}

	avatar, err := avatarBytes(c)
	if err != nil {
		respondError(c, err)
		return
	}

	pet, err := h.pets.UpdatePet(c.Request.Context(), c.Param("id"), usecase.UpdatePetInput{
		Name:         req.Name,
		Species:      req.Species,
		FavoriteFood: req.FavoriteFood,
		Description:  req.Description,
		Birthday:     birthday,
		Price:        req.Price,
		Avatar:       avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPetView(pet, h.storage))
}

func (h *PetHandler) Delete(c *gin.Context) {
	if err := h.pets.DeletePet(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "Pet deleted"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Purchase serves POST /pets/:id/purchase and returns the checkout session
// handle for the client-side redirect.
func (h *PetHandler) Purchase(c *gin.Context) {
	sessionID, err := h.checkout.InitiateCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}
