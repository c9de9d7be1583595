// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/corporate-directory/internal/auth"
    "github.com/iliyamo/corporate-directory/internal/config"
    "github.com/iliyamo/corporate-directory/internal/handler"
    "github.com/iliyamo/corporate-directory/internal/middleware"
)

// Deps bundles everything route registration needs.
type Deps struct {
    Policy    *auth.Policy
    Codec     *auth.Codec
    Resolver  *auth.Resolver
    Auth      *handler.AuthHandler
    Employees *handler.EmployeeHandler
    Managers  *handler.ManagerHandler
    RateLimit config.RateLimitConfig
    Redis     *redis.Client
}

// Register wires the middleware chain and all routes. The gate and the
// policy run on every request; the policy's public rules keep the
// health and auth endpoints reachable without credentials.
func Register(e *echo.Echo, d Deps) {
    e.Use(middleware.Authenticate(d.Codec, d.Resolver, d.Policy))
    e.Use(middleware.Authorize(d.Policy))

    e.GET("/healthz", handler.Health)

    // Credential endpoints. Public by policy, but rate limited: they
    // are the brute-force surface of the API.
    g := e.Group("/api/auth", middleware.NewTokenBucket(d.RateLimit, d.Redis))
    g.POST("/signup", d.Auth.Signup)
    g.POST("/login", d.Auth.Login)
    g.POST("/forgot-password", d.Auth.ForgotPassword)
    g.POST("/reset-password", d.Auth.ResetPassword)
    g.POST("/logout", d.Auth.Logout)

    e.GET("/api/me", d.Auth.Me)

    emp := e.Group("/api/employees")
    emp.POST("", d.Employees.Create)
    emp.GET("", d.Employees.List)
    emp.GET("/:id", d.Employees.GetByID)
    emp.PUT("/:id", d.Employees.Update)
    emp.DELETE("/:id", d.Employees.Delete)

    mgr := e.Group("/api/managers")
    mgr.POST("", d.Managers.Create)
    mgr.GET("", d.Managers.List)
    mgr.GET("/:id", d.Managers.GetByID)
    mgr.PUT("/:id", d.Managers.Update)
    mgr.DELETE("/:id", d.Managers.Delete)
}
