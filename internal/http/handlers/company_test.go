package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bizadmin/internal/dto"
	"bizadmin/internal/http/middleware"
	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// companyStub implements only the logo operations; the embedded interface
// panics if anything else is called.
type companyStub struct {
	services.CompanyService
	uploads  int
	filename string
	body     []byte
}

func (s *companyStub) UploadLogo(_ context.Context, id int64, filename string, _ int64, r io.Reader) (dto.CompanyDetail, error) {
	s.uploads++
	s.filename = filename
	s.body, _ = io.ReadAll(r)
	return dto.CompanyDetail{CompanyListItem: dto.CompanyListItem{ID: id, HasLogo: true}}, nil
}

func (s *companyStub) OpenLogo(context.Context, int64) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("<svg/>")), "image/svg+xml", nil
}

func companyRouter(svc *companyStub, maxBytes int64) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	ch := NewCompanyHandler(svc, nil, maxBytes)
	r.POST("/api/companies/:id/logo", ch.UploadLogo)
	r.GET("/api/companies/:id/logo", ch.GetLogo)
	return r
}

func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/companies/3/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadLogo(t *testing.T) {
	svc := &companyStub{}
	r := companyRouter(svc, 1024)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "file", "logo.png", []byte("\x89PNG\r\n\x1a\n")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, svc.uploads)
	assert.Equal(t, "logo.png", svc.filename)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), svc.body)
	assert.Contains(t, w.Body.String(), `"hasLogo":true`)
}

func TestUploadLogoMissingField(t *testing.T) {
	svc := &companyStub{}
	r := companyRouter(svc, 1024)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "image", "logo.png", []byte("png")))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Contains(t, w.Body.String(), `"field":"file"`)
	assert.Zero(t, svc.uploads)
}

func TestUploadLogoTooLarge(t *testing.T) {
	svc := &companyStub{}
	r := companyRouter(svc, 1024)

	// past the limit plus the multipart allowance
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "file", "logo.png", bytes.Repeat([]byte{0}, 1024+multipartOverhead+1)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w).Error.Code)
	assert.Zero(t, svc.uploads)
}

func TestGetLogoIsNotSniffable(t *testing.T) {
	r := companyRouter(&companyStub{}, 1024)

	w := do(r, http.MethodGet, "/api/companies/3/logo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "<svg/>", w.Body.String())
}
