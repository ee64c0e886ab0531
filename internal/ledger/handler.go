package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"propcoin/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetBalance godoc
// @Summary      Get coin balance
// @Tags         coins
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /coins/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	balance, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrLedgerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "coins not found for this user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coins": balance})
}

// ListTransactions godoc
// @Summary      List coin transactions
// @Tags         coins
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  TransactionRecord
// @Failure      401  {object}  gin.H
// @Router       /coins/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
