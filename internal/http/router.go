package api

import (
	"net/http"

	"bizadmin/internal/auth"
	"bizadmin/internal/config"
	h "bizadmin/internal/http/handlers"
	"bizadmin/internal/http/middleware"
	"bizadmin/internal/logger"
	"bizadmin/internal/metrics"
	"bizadmin/internal/ratelimit"
	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router wires into handlers and middleware.
type Deps struct {
	Config   *config.Config
	Services *services.Set
	Issuer   *auth.Issuer
	// AuthLimiter throttles /api/auth; nil disables it.
	AuthLimiter ratelimit.Limiter
	// Metrics is optional; nil disables /metrics.
	Metrics *metrics.Metrics
	System  *h.SystemHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recover())
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(middleware.CORS(d.Config.Server.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.L().Warn("failed to set trusted proxies", logger.Err(err))
	}

	r.NoRoute(func(c *gin.Context) {
		middleware.Abort(c, http.StatusNotFound, "not_found", "route not found: "+c.Request.Method+" "+c.Request.URL.Path, nil)
	})

	if d.Metrics != nil && d.Config.Metrics.Enabled {
		r.GET(d.Config.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	if d.System != nil {
		api.GET("/health", d.System.Health)
		api.GET("/db-check", d.System.DBCheck)
		api.GET("/routes", d.System.Routes)
	}

	authn := middleware.Authenticate(d.Issuer)
	mountAuth(api.Group("/auth"), authn, d)
	mountResources(api.Group("", authn), d.Services, d.Config.Storage.MaxUploadBytes)

	if d.System != nil {
		d.System.SetRouter(r)
	}
	return r
}

// mountAuth keeps register, login and refresh outside authn: a stale access
// token still sent by the client must not block them.
func mountAuth(g *gin.RouterGroup, authn gin.HandlerFunc, d Deps) {
	a := h.NewAuthHandler(d.Services.Auth)
	if d.Config.RateLimit.Enabled {
		g.Use(middleware.RateLimit(d.AuthLimiter, d.Metrics))
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	authed := g.Group("", authn, middleware.RequireAuth())
	authed.POST("/revoke", a.Revoke)
	authed.POST("/logout-all", a.LogoutAll)
	authed.POST("/change-password", a.ChangePassword)
	authed.GET("/me", a.Me)
}

func mountResources(api *gin.RouterGroup, s *services.Set, maxLogoBytes int64) {
	countries := h.NewResource("countries", s.Countries)
	g := api.Group("/countries")
	g.GET("/code/:code", countries.Perm("read"), h.ByCode(s.Countries.GetByCode))
	countries.Mount(g)

	currencies := h.NewResource("currencies", s.Currencies)
	g = api.Group("/currencies")
	g.GET("/code/:code", currencies.Perm("read"), h.ByCode(s.Currencies.GetByCode))
	currencies.Mount(g)

	zones := h.NewResource("time-zones", s.TimeZones)
	g = api.Group("/time-zones")
	g.GET("/name", zones.Perm("read"), h.ByQueryValue(s.TimeZones.GetByName))
	zones.Mount(g)

	h.NewResource("date-formats", s.DateFormats).Mount(api.Group("/date-formats"))

	companies := h.NewResource("companies", s.Companies)
	ch := h.NewCompanyHandler(s.Companies, s.BusinessDays, maxLogoBytes)
	g = api.Group("/companies")
	g.GET("/code/:code", companies.Perm("read"), h.ByCode(s.Companies.GetByCode))
	g.POST("/:id/logo", companies.Perm("update"), ch.UploadLogo)
	g.GET("/:id/logo", companies.Perm("read"), ch.GetLogo)
	g.POST("/:id/business-days/initialize",
		middleware.RequirePermission(services.PermissionCode("business-days", "create")), ch.InitializeWeek)
	companies.Mount(g)

	h.NewResource("business-days", s.BusinessDays).Mount(api.Group("/business-days"))
	h.NewResource("business-hours", s.BusinessHours).Mount(api.Group("/business-hours"))
	h.NewResource("business-holidays", s.BusinessHolidays).Mount(api.Group("/business-holidays"))

	products := h.NewResource("products", s.Products)
	g = api.Group("/products")
	g.GET("/code/:code", products.Perm("read"), h.ByCode(s.Products.GetByCode))
	products.Mount(g)

	versions := h.NewResource("product-versions", s.ProductVersions)
	g = api.Group("/product-versions")
	g.POST("/:id/current", versions.Perm("update"), h.SetCurrentVersion(s.ProductVersions))
	versions.Mount(g)

	h.NewResource("modules", s.Modules).Mount(api.Group("/modules"))
	h.NewResource("sub-modules", s.SubModules).Mount(api.Group("/sub-modules"))
	h.NewResource("permissions", s.Permissions).Mount(api.Group("/permissions"))

	access := h.NewAccessHandler(s.Roles, s.Users)
	roles := h.NewResource("roles", s.Roles)
	g = api.Group("/roles")
	g.GET("/:id/permissions", roles.Perm("read"), access.RolePermissions)
	g.PUT("/:id/permissions", roles.Perm("update"), access.AssignPermissions)
	roles.Mount(g)

	users := h.NewResource("users", s.Users)
	g = api.Group("/users")
	g.PUT("/:id/roles", users.Perm("update"), access.AssignRoles)
	users.Mount(g)
}
