// Package server assembles the HTTP surface: sessions, middleware and routes.
// File: server/router.go
package server

import (
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"car-showcase/config"
	"car-showcase/controllers"
	"car-showcase/middleware"
	"car-showcase/services"
	"car-showcase/websocket"
)

// SessionCookieName is the cookie that carries the signed session id.
const SessionCookieName = "car_showcase_session"

const sessionMaxAge = 86400 * 7

// Deps are the collaborators the routes are bound to.
type Deps struct {
	Config  *config.Config
	Auth    services.AuthServiceInterface
	Catalog services.CatalogServiceInterface
	QR      *services.QRCodeService
	Hub     *websocket.Hub
	// Metrics, when set, is served on GET /metrics.
	Metrics http.Handler
}

// CookieOptions returns the session cookie settings for cfg.
func CookieOptions(cfg *config.Config) sessions.Options {
	opts := sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.IsProduction() {
		opts.Secure = true
		opts.SameSite = http.SameSiteStrictMode
		opts.Domain = cfg.CookieDomain
	}
	return opts
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.SecurityHeaders())

	cookieOpts := CookieOptions(d.Config)
	store := cookie.NewStore([]byte(d.Config.SessionSecret))
	store.Options(cookieOpts)
	router.Use(sessions.Sessions(SessionCookieName, store))

	authCtl := controllers.NewAuthController(d.Auth, cookieOpts)
	carCtl := controllers.NewCarController(d.Catalog)
	videoCtl := controllers.NewVideoController(d.Catalog)
	pageCtl := controllers.NewPageController(d.Catalog, d.QR, d.Config.Env)

	authRequired := middleware.AuthRequired(d.Auth)
	adminRequired := middleware.AdminRequired(d.Auth)

	api := router.Group("/api")
	{
		api.GET("/health", pageCtl.Health)

		api.POST("/register", middleware.LoadUser(d.Auth), authCtl.Register)
		api.POST("/login", authCtl.Login)
		api.POST("/logout", authCtl.Logout)
		api.GET("/user", authRequired, authCtl.User)

		api.GET("/cars", carCtl.List)
		api.GET("/cars/:id", carCtl.Get)
		api.GET("/cars/:id/qrcode", pageCtl.CarQRCode)
		api.GET("/videos", videoCtl.List)
		api.GET("/videos/featured", videoCtl.Featured)
		api.GET("/videos/:id", videoCtl.Get)
		api.GET("/videos/:id/qrcode", pageCtl.VideoQRCode)
	}

	admin := api.Group("", adminRequired)
	{
		admin.POST("/cars", carCtl.Create)
		admin.PUT("/cars/:id", carCtl.Update)
		admin.DELETE("/cars/:id", carCtl.Delete)
		admin.POST("/videos", videoCtl.Create)
		admin.PUT("/videos/:id", videoCtl.Update)
		admin.DELETE("/videos/:id", videoCtl.Delete)
		admin.PATCH("/videos/:id/featured", videoCtl.SetFeatured)
	}

	if d.Hub != nil {
		router.GET("/api/updates", func(c *gin.Context) {
			d.Hub.ServeWs(c.Writer, c.Request)
		})
	}
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics))
	}
	return router
}

// Handler returns the router, traced by X-Ray when tracing is enabled.
func Handler(d Deps) http.Handler {
	router := NewRouter(d)
	if !d.Config.Tracing.XRayEnabled {
		return router
	}
	return xray.Handler(xray.NewFixedSegmentNamer(d.Config.Tracing.ServiceName), router)
}
