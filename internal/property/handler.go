package property

import (
	"errors"
	"net/http"
	"strconv"

	"propcoin/internal/auth"
	"propcoin/internal/ledger"
	"propcoin/internal/pricing"
	"propcoin/internal/settlement"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo       Repository
	settlement settlement.Service
}

func NewHandler(repo Repository, settlementService settlement.Service) *Handler {
	return &Handler{repo: repo, settlement: settlementService}
}

// Post godoc
// @Summary      Post a property listing
// @Description  Debits the posting fee, then persists the listing. The listing is never created when the debit fails.
// @Tags         property
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  PostRequest  true  "Listing data"
// @Success      201  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      402  {object}  gin.H
// @Router       /property [post]
func (h *Handler) Post(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Debit first, act second.
	rec, err := h.settlement.ChargePropertyPost(c.Request.Context(), userID)
	if err != nil {
		respondChargeError(c, err)
		return
	}

	p, err := h.repo.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create property"})
		return
	}

	resp := gin.H{
		"property": p,
		"message":  "property posted successfully",
	}
	if rec != nil {
		resp["transaction"] = rec
	}
	c.JSON(http.StatusCreated, resp)
}

// Contact godoc
// @Summary      Reveal owner contact details
// @Description  Debits the reveal fee, then returns the owner's contact details.
// @Tags         property
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Property id"
// @Success      200  {object}  gin.H
// @Failure      402  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /property/{id}/contact [get]
func (h *Handler) Contact(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	// Existence check before charging: nobody pays for a dead listing.
	if _, err := h.repo.GetByID(c.Request.Context(), propertyID); err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load property"})
		return
	}

	rec, err := h.settlement.ChargeContactReveal(c.Request.Context(), userID)
	if err != nil {
		respondChargeError(c, err)
		return
	}

	contact, err := h.repo.GetOwnerContact(c.Request.Context(), propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load contact details"})
		return
	}

	resp := gin.H{
		"owner_details": contact,
		"message":       "contact details retrieved successfully",
	}
	if rec != nil {
		resp["transaction"] = rec
	}
	c.JSON(http.StatusOK, resp)
}

func respondChargeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient balance, please recharge your coins"})
	case errors.Is(err, ledger.ErrLedgerNotFound):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "user coins entry not found"})
	case errors.Is(err, pricing.ErrNotConfigured):
		c.JSON(http.StatusNotFound, gin.H{"error": "pricing not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process charge"})
	}
}
