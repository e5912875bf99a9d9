package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/podstation-backend/controllers"
	"github.com/vnkhanh/podstation-backend/middleware"
	"github.com/vnkhanh/podstation-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Catalog công khai: người chưa đăng nhập vẫn xem được,
	// có token thì episode detail kèm trạng thái yêu thích
	public := api.Group("")
	{
		public.Use(middleware.OptionalAuthMiddleware(), middleware.DBMiddleware(db))

		public.GET("/podcasts", controllers.GetPodcasts)
		public.GET("/podcasts/:id", controllers.GetPodcastByID)
		public.GET("/podcasts/:id/episodes", controllers.GetEpisodesByPodcast)
		public.GET("/episodes/:id", controllers.GetEpisodeByID)

		public.GET("/search", controllers.SearchFullHandler(db))
		public.GET("/search/autocomplete", controllers.SearchAutocomplete(db))
	}

	// Các route yêu cầu đăng nhập: chặn 401 trước khi chạm DB
	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		// Tài khoản
		user.GET("/me", controllers.GetMe)
		user.PUT("/me", controllers.UpdateMe)
		user.POST("/me/change-password", controllers.ChangePassword)

		// Dashboard + quản lý podcast
		user.GET("/me/podcasts", controllers.GetMyPodcasts)
		user.POST("/podcasts", controllers.CreatePodcast)
		user.PUT("/podcasts/:id", controllers.UpdatePodcast)
		user.DELETE("/podcasts/:id", controllers.DeletePodcast)

		// Episodes
		user.POST("/podcasts/:id/episodes", controllers.CreateEpisode)
		user.DELETE("/episodes/:id", controllers.DeleteEpisode)

		// Theo dõi podcast
		user.POST("/podcasts/:id/subscription", controllers.Subscribe)
		user.DELETE("/podcasts/:id/subscription", controllers.Unsubscribe)
		user.GET("/podcasts/:id/subscription", controllers.CheckSubscription)
		user.GET("/me/subscriptions", controllers.GetSubscriptions)

		// Yêu thích episode
		user.POST("/episodes/:id/favorite", controllers.AddFavorite)
		user.DELETE("/episodes/:id/favorite", controllers.RemoveFavorite)
		user.GET("/episodes/:id/favorite", controllers.CheckFavorite)
		user.GET("/me/favorites", controllers.GetFavorites)

		// Vị trí nghe cho player
		user.PUT("/episodes/:id/progress", controllers.SaveProgress)
		user.GET("/episodes/:id/progress", controllers.GetProgress)
		user.DELETE("/episodes/:id/progress", controllers.DeleteProgress)
		user.GET("/me/progress", controllers.GetProgressList)
		user.DELETE("/me/progress", controllers.ClearAllProgress)

		// Thông báo
		user.GET("/notifications", controllers.GetNotifications)
		user.GET("/notifications/unread-count", controllers.GetUnreadCount)
		user.PATCH("/notifications/:id/read", controllers.MarkNotificationAsRead)
		user.PATCH("/notifications/read-all", controllers.MarkAllAsRead)
		user.DELETE("/notifications/:id", controllers.DeleteNotification)
		user.DELETE("/notifications", controllers.DeleteAllNotifications)
	}

	r.GET("/ws/user", ws.HandleUserWebSocket)

	return r
}
