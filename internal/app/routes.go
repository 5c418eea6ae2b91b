package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/auth"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/config"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/handlers"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/metrics"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/service"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/upload"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, deps Deps) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
	r.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)
	r.NoRoute(handlers.NoRoute)

	api := r.Group("/api")
	imageUpload := upload.Single("image", deps.Images, cfg.Upload.MaxBytes)

	userSvc := service.NewUserService(deps.Store, deps.Tokens, cfg.Token.BcryptCost, deps.Log)
	userHandler := handlers.NewUserHandler(userSvc)
	registerUserRoutes(api.Group("/users"), userHandler, deps.Limiter.Middleware(), imageUpload)

	placeSvc := service.NewPlaceService(deps.Store, deps.Geocoder, deps.Images, deps.Log)
	placeHandler := handlers.NewPlaceHandler(placeSvc)
	registerPlaceRoutes(api.Group("/places"), placeHandler, auth.RequireBearer(deps.Tokens), imageUpload)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Places API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"message": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerPlaceRoutes(g *gin.RouterGroup, h *handlers.PlaceHandler, requireAuth, imageUpload gin.HandlerFunc) {
	g.GET("", h.List)
	g.GET("/user/:uid", h.ListByUser)
	g.GET("/:pid", h.GetByID)

	protected := g.Group("", requireAuth)
	protected.POST("", imageUpload, h.Create)
	protected.PATCH("/:pid", h.Update)
	protected.DELETE("/:pid", h.Delete)
}

func registerUserRoutes(g *gin.RouterGroup, h *handlers.UserHandler, limit, imageUpload gin.HandlerFunc) {
	g.GET("", h.List)
	g.POST("/signup", limit, imageUpload, h.Signup)
	g.POST("/login", limit, h.Login)
}
