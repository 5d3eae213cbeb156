package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
	"github.com/petes-emporium/pet-store/internal/pet/usecase"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Pets     *usecase.PetUsecase
	Checkout *usecase.CheckoutUsecase
	Storage  domain.Storage
	Logger   *zap.Logger
	// TemplatesGlob locates the HTML templates, e.g. "web/templates/*.html".
	TemplatesGlob string
	AppEnv        string
	// StripePublishableKey is exposed to the show page for the
	// client-side checkout redirect.
	StripePublishableKey string
}

// NewRouter wires the gin engine: storefront pages, the JSON API mirror and
// a health probe.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetFuncMap(template.FuncMap{
		// pages turns a page count into [1..n] for pagination links.
		"pages": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	})
	if cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(cfg.TemplatesGlob)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	NewPetHandler(cfg.Pets, cfg.Checkout, cfg.Storage, cfg.StripePublishableKey, cfg.Logger).RegisterRoutes(r)
	NewAPIHandler(cfg.Pets, cfg.Storage, cfg.Logger).RegisterRoutes(r)
	return r
}
