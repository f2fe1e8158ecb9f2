package handlers

import (
	"net/http"

	"dispatchhub_backend/internal/i18n"
	"dispatchhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type I18nHandler struct {
	table *i18n.Table
}

func NewI18nHandler(table *i18n.Table) *I18nHandler {
	return &I18nHandler{table: table}
}

// Languages handles GET /api/v1/i18n.
func (h *I18nHandler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": h.table.Languages()})
}

// Translations handles GET /api/v1/i18n/:lang.
func (h *I18nHandler) Translations(c *gin.Context) {
	lang := c.Param("lang")
	if !i18n.Supported(lang) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unsupported language code"))
		return
	}

	entries := h.table.Language(lang)
	if entries == nil {
		apperrors.HandleError(c, apperrors.ErrNotFound(nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "translations": entries})
}
