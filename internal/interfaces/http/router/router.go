// Package router assembles the gin engine: middleware stack, API groups and
// handler registration.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/infrastructure/config"
	"github.com/dukkan/backend/internal/infrastructure/logger"
	"github.com/dukkan/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a plain function to RouteRegistrar
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

// EngineRegistrar registers routes directly on the engine, outside /api/v1.
// Used for health probes.
type EngineRegistrar interface {
	RegisterRoutes(engine *gin.Engine)
}

// Config carries everything the router needs to assemble the engine
type Config struct {
	Env           string
	HTTP          config.HTTPConfig
	Telemetry     config.TelemetryConfig
	Logger        *zap.Logger
	Issuer        appidentity.TokenIssuer
	Blacklist     appidentity.TokenBlacklist
	Capability    *appidentity.CapabilityService
	SupportTenant uuid.UUID
}

// Router collects registrars and builds the engine
type Router struct {
	cfg        Config
	public     []RouteRegistrar
	protected  []RouteRegistrar
	engineWide []EngineRegistrar
}

// New creates a Router
func New(cfg Config) *Router {
	return &Router{cfg: cfg}
}

// RegisterPublic adds routes that skip authentication
func (r *Router) RegisterPublic(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// Register adds routes behind the auth and tenant chain
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.protected = append(r.protected, registrars...)
	return r
}

// RegisterEngine adds routes on the engine root, outside /api/v1
func (r *Router) RegisterEngine(registrars ...EngineRegistrar) *Router {
	r.engineWide = append(r.engineWide, registrars...)
	return r
}

// Build assembles the engine with the full middleware stack
func (r *Router) Build() *gin.Engine {
	if r.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(r.cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(r.cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(r.cfg.Logger))
	engine.Use(logger.GinMiddleware(r.cfg.Logger))
	if r.cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(r.cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	if len(r.cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = r.cfg.HTTP.CORSAllowOrigins
	}
	if len(r.cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = r.cfg.HTTP.CORSAllowMethods
	}
	if len(r.cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = r.cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsCfg))

	if r.cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(r.cfg.HTTP.MaxBodySize))
	}
	if r.cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(r.cfg.HTTP.RateLimitRequests, r.cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	for _, reg := range r.engineWide {
		reg.RegisterRoutes(engine)
	}

	api := engine.Group("/api/v1")
	for _, reg := range r.public {
		reg.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(r.cfg.Issuer, r.cfg.Blacklist, r.cfg.Logger))
	protected.Use(middleware.ResolveTenant(r.cfg.Capability, r.cfg.SupportTenant, r.cfg.Logger))
	for _, reg := range r.protected {
		reg.RegisterRoutes(protected)
	}

	return engine
}
