package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mindcompanion/backend/internal/config"
	"mindcompanion/backend/internal/store"
)

type App struct {
	cfg          config.Config
	store        store.Store
	ai           AIClient
	transcriber  Transcriber
	loginLimiter *ipLimiter
}

func New(cfg config.Config, st store.Store, ai AIClient, transcriber Transcriber) *App {
	return &App{
		cfg:          cfg,
		store:        st,
		ai:           ai,
		transcriber:  transcriber,
		loginLimiter: newIPLimiter(credentialRateLimit),
	}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group(a.cfg.APIPrefix)

	credentials := a.loginLimiter.middleware()
	api.POST("/signup", credentials, a.signup)
	api.POST("/login", credentials, a.login)
	api.POST("/admin/signup", credentials, a.adminSignup)
	api.POST("/admin/login", credentials, a.adminLogin)

	authed := api.Group("", a.authMiddleware())
	authed.POST("/interact", a.interact)
	authed.GET("/profile", a.getProfile)
	authed.POST("/update-profile", a.updateProfile)
	authed.GET("/routine-analysis", a.routineAnalysis)

	authed.GET("/posts", a.listPosts)
	authed.POST("/posts", a.createPost)
	authed.POST("/posts/:id/upvote", a.upvotePost)
	authed.POST("/posts/:id/downvote", a.downvotePost)
	authed.POST("/posts/:id/comments", a.addPostComment)
	authed.GET("/chat", a.listChatMessages)
	authed.POST("/chat", a.createChatMessage)

	authed.POST("/chat-with-grok", a.chatWithGrok)
	authed.POST("/chat-timeline", a.chatTimeline)

	adminOnly := authed.Group("/admin", a.requireAdmin())
	adminOnly.GET("/patients", a.listPatients)
	adminOnly.GET("/patients/:id", a.getPatient)
	adminOnly.GET("/overview", a.adminOverview)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "mindcompanion-api",
	})
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
