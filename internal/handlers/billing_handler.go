package handlers

import (
	"net/http"

	"dispatchhub_backend/internal/services"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	*BaseHandler
	billingService *services.BillingService
}

func NewBillingHandler(base *BaseHandler, billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{BaseHandler: base, billingService: billingService}
}

// Plans handles GET /api/v1/billing/plans.
func (h *BillingHandler) Plans(c *gin.Context) {
	plans, err := h.billingService.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// Checkout handles POST /api/v1/billing/checkout.
func (h *BillingHandler) Checkout(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.billingService.StartCheckout(c.Request.Context(), userID, req.Plan)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Callback handles GET /api/v1/billing/callback. The gateway redirects here
// after checkout with ?session_id=... on success or ?canceled=true when the
// buyer backed out.
func (h *BillingHandler) Callback(c *gin.Context) {
	if c.Query("canceled") == "true" {
		sessionID := c.Query("session_id")
		if sessionID != "" {
			if err := h.billingService.CancelCheckout(c.Request.Context(), sessionID); err != nil {
				h.HandleServiceError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "canceled"})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("session_id query parameter required"))
		return
	}

	result, err := h.billingService.ConfirmCheckout(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
