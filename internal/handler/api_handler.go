package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
	"github.com/petes-emporium/pet-store/internal/pet/usecase"
)

// APIHandler is the JSON CRUD mirror under /api/pets.
type APIHandler struct {
	pets    *usecase.PetUsecase
	storage domain.Storage
	logger  *zap.Logger
}

func NewAPIHandler(pets *usecase.PetUsecase, storage domain.Storage, logger *zap.Logger) *APIHandler {
	return &APIHandler{pets: pets, storage: storage, logger: logger}
}

func (h *APIHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/pets")
	{
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.POST("", h.Create)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

func (h *APIHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	pets, pagesCount, err := h.pets.ListPets(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pets":        toPetViews(pets, h.storage),
		"pagesCount":  pagesCount,
		"currentPage": page,
	})
}

func (h *APIHandler) Get(c *gin.Context) {
	pet, err := h.pets.GetPet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPetView(pet, h.storage))
}

func (h *APIHandler) Create(c *gin.Context) {
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
	c.JSON(http.StatusCreated, toPetView(pet, h.storage))
}

func (h *APIHandler) Update(c *gin.Context) {
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

func (h *APIHandler) Delete(c *gin.Context) {
	if err := h.pets.DeletePet(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pet deleted"})
}
