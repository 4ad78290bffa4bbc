package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"reddit/handlers"
	"reddit/logger"
	"reddit/logic"
	"reddit/media"
	"reddit/middleware"
	"reddit/settings"
	"reddit/websocket"
)

// Setup builds the router. hub may be nil, in which case /ws is not served.
func Setup(cfg *settings.Config, svc *logic.Services, stager *media.Stager, hub *websocket.Hub) *gin.Engine {
	router := gin.New()
	// CORS before the limiter so a 429 is still readable by the browser
	router.Use(
		logger.GinLogger(),
		logger.GinRecovery(true),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.Origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Capacity)),
	)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Reddit API is running")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	auth := middleware.Auth(cfg.JWT.Secret)

	users := handlers.NewUserHandler(svc.Users)
	user := router.Group("/user")
	{
		user.POST("/create", users.Create)
	}

	communities := handlers.NewCommunityHandler(svc.Communities, stager, cfg.Media.ImageMaxBytes)
	community := router.Group("/community")
	{
		community.POST("/create", communities.Create)
		community.POST("/getCommunities", communities.List)
		community.POST("/updateCommunityImage", communities.UpdateImage)
		community.GET("/get-community", communities.Get)
		community.POST("/search-community", communities.Search)
	}

	posts := handlers.NewPostHandler(svc.Posts, stager, cfg.Media.PostMaxBytes)
	post := router.Group("/post")
	{
		post.POST("/uploadPost", posts.Upload)
		post.PUT("/edit/:postId", auth, posts.Edit)
		post.DELETE("/delete/:postId", auth, posts.Delete)
		post.GET("/getCommunityPosts", posts.CommunityPosts)
		post.POST("/getAllPosts", posts.All)
		post.GET("/getPost", posts.Get)
		post.GET("/recent-posts", posts.Recent)
		post.POST("/filterPosts", posts.Filter)
	}

	comments := handlers.NewCommentHandler(svc.Comments)
	comment := router.Group("/comment")
	{
		comment.POST("/add", comments.Add)
		comment.POST("/getComments", comments.List)
	}

	votes := handlers.NewVoteHandler(svc.Votes)
	vote := router.Group("/vote")
	{
		vote.POST("/react", votes.React)
		vote.POST("/getVoteDetails", votes.Details)
		vote.POST("/voteCount", votes.Count)
		vote.POST("/updateVote", votes.Update)
	}

	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			hub.ServeWS(c.Writer, c.Request)
		})
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Endpoint not found",
			"path":    c.Request.URL.Path,
		})
	})

	return router
}
