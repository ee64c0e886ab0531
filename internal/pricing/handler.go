package pricing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type UpdateRequest struct {
	PropertyPostCost  *int64 `json:"property_post_cost" binding:"omitempty,gte=0"`
	ContactRevealCost *int64 `json:"contact_reveal_cost" binding:"omitempty,gte=0"`
}

// Get godoc
// @Summary      Current paid-action prices
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Prices
// @Failure      404  {object}  gin.H
// @Router       /admin/pricing [get]
func (h *Handler) Get(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pricing not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pricing"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update godoc
// @Summary      Update paid-action prices
// @Description  Partial update; each provided cost must be non-negative.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  UpdateRequest  true  "Fields to update"
// @Success      200  {object}  Prices
// @Failure      400  {object}  gin.H
// @Router       /admin/pricing [patch]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.repo.Update(c.Request.Context(), req.PropertyPostCost, req.ContactRevealCost)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		case errors.Is(err, ErrNegativeAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "costs must be non-negative"})
		case errors.Is(err, ErrNotConfigured):
			c.JSON(http.StatusNotFound, gin.H{"error": "pricing not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update pricing"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "charges updated successfully",
		"updated_charges": p,
	})
}
