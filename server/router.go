package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/server/response"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	if ginMode != "test" {
		r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC1123),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
			)
		}))
	}
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.MaxMultipartMemory = 32 << 20

	s.defineRoutes(r)
	return r
}

func (s *Server) defineRoutes(r *gin.Engine) {
	loginRateStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})

	r.NoRoute(func(c *gin.Context) {
		response.JSON(c, "not found", http.StatusNotFound, nil, nil)
	})

	// Fan-facing routes.
	user := r.Group("/api/user")
	{
		user.POST("/google-login", limitLoginRate(loginRateStore), s.handleGoogleLogin())
		user.GET("/google/login", s.handleGoogleLoginURL())
		user.GET("/google/callback", s.handleGoogleCallback())

		authorized := user.Group("/", s.Authorize(models.RoleUser))
		authorized.GET("/me", s.handleUserProfile())
		authorized.POST("/logout", s.handleLogout())

		authorized.GET("/superstars", s.handleListSuperstars())
		authorized.GET("/superstars/:superstarId", s.handleShowSuperstar())
		authorized.GET("/superstars/:superstarId/posts", s.handleSuperstarPosts())

		authorized.GET("/subscriptions", s.handleListSubscriptions())
		authorized.POST("/subscriptions", s.handleSubscribe())
		authorized.DELETE("/subscriptions/:superstarId", s.handleUnsubscribe())

		s.defineChatRoutes(authorized)

		authorized.POST("/payments/process", s.handleProcessPayment())
		authorized.GET("/payments/history", s.handleUserPaymentHistory())
		authorized.GET("/payments/:paymentId", s.handlePaymentDetails())
		authorized.GET("/payments/transaction/:reference", s.handleTransactionDetails())
	}

	// Superstar-facing routes.
	superstar := r.Group("/api/superstar")
	{
		superstar.POST("/login", limitLoginRate(loginRateStore), s.handleSuperstarLogin())
		superstar.GET("/stories/file/:filename", s.handleStoryFile())

		authorized := superstar.Group("/", s.Authorize(models.RoleSuperstar))
		authorized.GET("/me", s.handleSuperstarProfile())
		authorized.POST("/logout", s.handleLogout())
		authorized.PUT("/profile", s.handleEditSuperstarProfile())
		authorized.POST("/change-password", s.handleChangeSuperstarPassword())

		authorized.GET("/posts", s.handleOwnPosts())
		authorized.POST("/posts", s.handleCreatePost())
		authorized.GET("/posts/:postId", s.handleShowPost())
		authorized.PUT("/posts/:postId", s.handleUpdatePost())
		authorized.DELETE("/posts/:postId", s.handleDeletePost())

		authorized.GET("/stories", s.handleOwnStories())
		authorized.POST("/stories", s.handleCreateStory())
		authorized.GET("/stories/:storyId", s.handleShowStory())
		authorized.DELETE("/stories/:storyId", s.handleDeleteStory())

		s.defineChatRoutes(authorized)

		authorized.GET("/payments/history", s.handleSuperstarPaymentHistory())
		authorized.GET("/payments/revenue", s.handleSuperstarRevenue())
	}

	// Routes open to any signed-in actor.
	public := r.Group("/api/public", s.Authorize())
	{
		public.GET("/superstar-stories", s.handlePublicStories())
		public.GET("/superstar-posts", s.handlePublicPosts())
	}
}

// defineChatRoutes mounts the chat surface. Both roles get the same routes;
// the service layer sorts out which side of a conversation the caller is on.
func (s *Server) defineChatRoutes(g *gin.RouterGroup) {
	chat := g.Group("/chat")
	chat.POST("/start/:superstarId", s.handleStartChat())
	chat.GET("/conversations", s.handleGetConversations())
	chat.GET("/unread-count", s.handleUnreadCount())
	chat.GET("/messages/:conversationId", s.handleGetMessages())
	chat.POST("/send/:conversationId", s.handleSendMessage())
	chat.POST("/read/:conversationId", s.handleMarkMessagesRead())
	chat.PUT("/conversation/:conversationId/status", s.handleUpdateConversationStatus())
	chat.DELETE("/message/:messageId", s.handleDeleteMessage())
}
