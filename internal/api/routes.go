package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/auth"
	"github.com/gsarma/folio/internal/metrics"
	"github.com/gsarma/folio/internal/ratelimit"
)

// RegisterRoutes mounts every endpoint on r. limiter guards the public write
// endpoints and may be nil.
func RegisterRoutes(r *gin.Engine, h *Handler, limiter ratelimit.Limiter) {
	tokens := h.auth.Tokens()
	limit := func(scope string) gin.HandlerFunc {
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return ratelimit.Middleware(limiter, scope)
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	// Public reads. Optional auth lets staff see drafts.
	public := api.Group("/", auth.Optional(tokens))
	{
		public.GET("/blog", h.ListBlogPosts)
		public.GET("/blog/:slug", h.GetBlogPost)
		public.GET("/projects", h.ListProjects)
		public.GET("/projects/:slug", h.GetProject)
		public.GET("/services", h.ListServices)
		public.GET("/media", h.ListMedia)
		public.GET("/experience", h.ListExperience)
		public.GET("/settings", h.GetSettings)
		public.GET("/unsubscribe", h.DecodeUnsubscribeToken)
	}

	// Public writes, rate limited per client IP.
	api.POST("/subscribe", limit("subscribe"), h.Subscribe)
	api.POST("/unsubscribe", limit("unsubscribe"), h.Unsubscribe)
	api.POST("/contact", limit("contact"), h.SubmitContact)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", limit("login"), h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", auth.Middleware(tokens), h.Me)
		authGroup.GET("/google", h.GoogleLogin)
		authGroup.GET("/google/callback", h.GoogleCallback)
	}

	staff := api.Group("/", auth.Middleware(tokens), auth.RequireRole(auth.RoleAdmin, auth.RoleEditor))
	{
		staff.POST("/blog", h.CreateBlogPost)
		staff.PUT("/blog/:id", h.UpdateBlogPost)
		staff.DELETE("/blog/:id", h.DeleteBlogPost)

		staff.POST("/projects", h.CreateProject)
		staff.PUT("/projects/:id", h.UpdateProject)
		staff.DELETE("/projects/:id", h.DeleteProject)

		staff.POST("/services", h.CreateService)
		staff.PUT("/services/:id", h.UpdateService)
		staff.DELETE("/services/:id", h.DeleteService)

		staff.POST("/media", h.CreateMedia)
		staff.PUT("/media/:id", h.UpdateMedia)
		staff.DELETE("/media/:id", h.DeleteMedia)

		staff.POST("/experience", h.CreateExperience)
		staff.PUT("/experience/:id", h.UpdateExperience)
		staff.DELETE("/experience/:id", h.DeleteExperience)

		staff.POST("/upload", h.Upload)
	}

	admin := api.Group("/", auth.Middleware(tokens), auth.RequireRole(auth.RoleAdmin))
	{
		admin.PUT("/settings", h.UpdateSettings)

		admin.GET("/contact", h.ListContactMessages)
		admin.GET("/contact/:id", h.GetContactMessage)
		admin.PATCH("/contact/:id", h.MarkContactMessage)
		admin.DELETE("/contact/:id", h.DeleteContactMessage)

		admin.GET("/subscribers", h.ListSubscribers)
		admin.POST("/subscribers", h.CreateSubscriber)
		admin.PUT("/subscribers/:id", h.UpdateSubscriber)
		admin.DELETE("/subscribers/:id", h.DeleteSubscriber)

		admin.POST("/newsletter/send", h.SendNewsletter)
		admin.GET("/newsletter/recipients", h.NewsletterRecipients)
	}
}
