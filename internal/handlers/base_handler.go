package handlers

import (
	"errors"
	"strconv"

	"dispatchhub_backend/internal/middleware"
	"dispatchhub_backend/internal/validator"
	"dispatchhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler provides request binding, validation and error translation
// shared by the concrete handlers.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidateJSON decodes the JSON body into obj and runs the struct
// validation rules. On failure it writes the error response and returns
// false; the caller just returns.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid JSON body").WithError(err))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidateQuery decodes query parameters into obj and validates it.
func (h *BaseHandler) BindAndValidateQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters").WithError(err))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	if err := h.validator.Validate(obj); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
			return false
		}
		apperrors.HandleError(c, apperrors.InternalError(err))
		return false
	}
	return true
}

// HandleServiceError writes a service-layer error as the JSON response.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// AuthorizedUserID returns the authenticated user's id, writing a 401 when
// the middleware did not run.
func (h *BaseHandler) AuthorizedUserID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return id, true
}

// QueryInt parses an optional integer query parameter.
func (h *BaseHandler) QueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
