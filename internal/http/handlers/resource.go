package handlers

import (
	"bytes"
	"net/http"
	"time"

	"bizadmin/internal/domain"
	"bizadmin/internal/export"
	"bizadmin/internal/http/middleware"
	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// Resource serves the standard CRUD routes of one feature service.
type Resource[L, D, C, U any] struct {
	// Name is the permission prefix and route segment, e.g. "countries".
	Name string
	Svc  services.Resource[L, D, C, U]
	Now  func() time.Time
}

func NewResource[L, D, C, U any](name string, svc services.Resource[L, D, C, U]) *Resource[L, D, C, U] {
	return &Resource[L, D, C, U]{Name: name, Svc: svc, Now: func() time.Time { return time.Now().UTC() }}
}

// Perm is the middleware guarding action on this resource.
func (h *Resource[L, D, C, U]) Perm(action string) gin.HandlerFunc {
	return middleware.RequirePermission(services.PermissionCode(h.Name, action))
}

// Mount registers list, all, export, get, create, update and delete on g.
// Static segments are registered before :id so they win.
func (h *Resource[L, D, C, U]) Mount(g *gin.RouterGroup) {
	g.GET("", h.Perm("read"), h.List)
	g.GET("/all", h.Perm("read"), h.All)
	g.GET("/export", h.Perm("export"), h.Export)
	g.GET("/:id", h.Perm("read"), h.Get)
	g.POST("", h.Perm("create"), h.Create)
	g.PUT("/:id", h.Perm("update"), h.Update)
	g.DELETE("/:id", h.Perm("delete"), h.Delete)
}

// GET /api/<res>
func (h *Resource[L, D, C, U]) List(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// GET /api/<res>/all
func (h *Resource[L, D, C, U]) All(c *gin.Context) {
	items, err := h.Svc.All(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}

// GET /api/<res>/:id
func (h *Resource[L, D, C, U]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

// POST /api/<res>
func (h *Resource[L, D, C, U]) Create(c *gin.Context) {
	var req C
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

// PUT /api/<res>/:id
func (h *Resource[L, D, C, U]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req U
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.Svc.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

// DELETE /api/<res>/:id
func (h *Resource[L, D, C, U]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// GET /api/<res>/export?format=csv|xlsx|pdf
func (h *Resource[L, D, C, U]) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		RespondDomainError(c, domain.Invalid("format", err.Error()))
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	table, err := h.Svc.Export(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	writeTable(c, table, format, h.Now())
}

func writeTable(c *gin.Context, t export.Table, f export.Format, now time.Time) {
	exp := export.For(f)
	var buf bytes.Buffer
	if err := exp.Write(&buf, t); err != nil {
		RespondDomainError(c, domain.Internal("render export", err))
		return
	}
	name := export.Filename(t.Title, now.Format("20060102-150405"), exp)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, exp.ContentType(), buf.Bytes())
}
