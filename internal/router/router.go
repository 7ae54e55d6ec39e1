// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanshukumar-dev/cloudvault/internal/handler"
	"github.com/Hemanshukumar-dev/cloudvault/internal/middleware"
	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
)

// RegisterRoutes registers routes that need no authentication. Only the
// health check lives here.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth surface. Signup, login and refresh
// are public and rate limited; logout and /v1/me sit behind JWT.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}

// RegisterFiles registers file routes. The public share-info endpoint
// goes through the Redis response cache; everything else requires a
// valid JWT. Per-file authorization happens inside the handlers via the
// access resolver, not here.
func RegisterFiles(e *echo.Echo, f *handler.FileHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/v1/files/share/:id", f.ShareInfo, cache)

	g := e.Group("/v1/files", middleware.JWTAuth(jwtSecret))
	g.POST("", f.Upload)
	g.GET("", f.ListMine)
	g.GET("/:id", f.View)
	g.GET("/:id/content", f.Content)
	g.DELETE("/:id", f.Delete)
}

// RegisterPermissions registers the grant workflow routes. Creating a
// request is rate limited; decisions and listings are not.
func RegisterPermissions(e *echo.Echo, p *handler.PermissionHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/permissions", middleware.JWTAuth(jwtSecret))

	g.POST("/request", p.Request, limiter)
	g.PUT("/approve/:id", p.Approve)
	g.PUT("/reject/:id", p.Reject)
	g.DELETE("/revoke/:id", p.Revoke)
	g.PUT("/hide/:id", p.Hide)

	g.GET("/my", p.My)
	g.GET("/owner", p.OwnerPending)
	g.GET("/owner/active", p.OwnerActive)
	g.GET("/shared", p.SharedWithMe)
}

// RegisterAdmin registers the admin dashboard under /v1/admin. Every
// route requires a JWT carrying the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", a.ListUsers)
	g.GET("/files", a.ListFiles)
	g.DELETE("/files/:id", a.DeleteFile)

	g.GET("/admins", a.ListAdmins)
	g.POST("/admins", a.CreateAdmin)
	g.DELETE("/admins/:id", a.DeleteAdmin)
	g.PUT("/admins/demote/:id", a.DemoteAdmin)
}
