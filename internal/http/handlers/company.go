package handlers

import (
	"errors"
	"io"
	"net/http"

	"bizadmin/internal/domain"
	"bizadmin/internal/logger"
	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the logo limit for boundaries and headers.
const multipartOverhead = 64 << 10

type CompanyHandler struct {
	companies    services.CompanyService
	days         services.BusinessDayService
	maxLogoBytes int64
}

func NewCompanyHandler(companies services.CompanyService, days services.BusinessDayService, maxLogoBytes int64) *CompanyHandler {
	return &CompanyHandler{companies: companies, days: days, maxLogoBytes: maxLogoBytes}
}

// POST /api/companies/:id/logo (multipart field "file")
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if h.maxLogoBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxLogoBytes+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondDomainError(c, domain.Invalid("file", "upload too large"))
			return
		}
		RespondDomainError(c, domain.Invalid("file", "multipart field is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondDomainError(c, domain.Internal("open upload", err))
		return
	}
	defer f.Close()

	out, err := h.companies.UploadLogo(c.Request.Context(), id, fh.Filename, fh.Size, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

// GET /api/companies/:id/logo
func (h *CompanyHandler) GetLogo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rc, contentType, err := h.companies.OpenLogo(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=300")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.From(c.Request.Context()).Warn("logo stream interrupted", logger.EntityID(id), logger.Err(err))
	}
}

// POST /api/companies/:id/business-days/initialize
func (h *CompanyHandler) InitializeWeek(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	days, err := h.days.InitializeWeek(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, days)
}
