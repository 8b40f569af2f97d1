package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-app/backend/internal/service"
)

// ShortLinkHandler serves the public /s/:token redirect.
type ShortLinkHandler struct {
	shortLinkService *service.ShortLinkService
}

func NewShortLinkHandler(shortLinkService *service.ShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{shortLinkService: shortLinkService}
}

func (h *ShortLinkHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/s/:token", h.Resolve)
}

// Resolve redirects a short token to its recipe. Unknown tokens map to
// 400, not 404.
func (h *ShortLinkHandler) Resolve(c *gin.Context) {
	recipeID, err := h.shortLinkService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/api/v1/recipes/"+recipeID.String())
}
