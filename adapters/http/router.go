package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/devlinks/adapters/web"
	"github.com/khoahotran/devlinks/internal/application/identity"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type RouterDeps struct {
	Logger   logger.Logger
	Restorer identity.SessionRestorer
	Session  SessionOptions

	Auth    *AuthHandler
	Profile *ProfileHandler
	Links   *LinkHandler
	Editor  *EditorHandler
	Preview *PreviewHandler
	// Blobs is only set by the memory storage driver.
	Blobs *BlobHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), ErrorMiddleware(d.Logger))
	router.SetHTMLTemplate(web.MustTemplates())
	router.StaticFS("/assets", http.FS(web.Assets()))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.Blobs != nil {
		router.GET("/blobs/*key", d.Blobs.Serve)
	}

	withIdentity := IdentityMiddleware(d.Restorer, d.Session, d.Logger)

	router.GET("/p/:identity", d.Preview.Share)

	pages := router.Group("/")
	pages.Use(withIdentity)
	{
		pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/editor") })
		pages.GET("/login", d.Auth.LoginPage)
		pages.POST("/login", d.Auth.LoginSubmit)
		pages.GET("/signup", d.Auth.SignupPage)
		pages.POST("/signup", d.Auth.SignupSubmit)
		pages.POST("/logout", d.Auth.LogoutSubmit)

		pages.GET("/editor", d.Editor.Show)
		pages.POST("/editor", d.Editor.Save)
		pages.POST("/editor/links", d.Editor.AddLink)
		pages.POST("/editor/links/:id/delete", d.Editor.RemoveLink)

		pages.GET("/preview", d.Preview.Preview)
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/login", d.Auth.Login)

		private := api.Group("/")
		private.Use(withIdentity, RequireIdentity())
		{
			private.POST("/auth/logout", d.Auth.Logout)

			private.GET("/profile", d.Profile.GetProfile)
			private.PUT("/profile", d.Profile.UpdateProfile)

			links := private.Group("/links")
			{
				links.GET("", d.Links.ListLinks)
				links.POST("", d.Links.CreateLink)
				links.DELETE("/:id", d.Links.DeleteLink)
			}
		}
	}

	return router
}
