// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/marcello-store/storefront-backend/internal/config"
	"github.com/marcello-store/storefront-backend/internal/domain/user"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/handlers"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/middleware"
	"github.com/marcello-store/storefront-backend/internal/session"
)

// Deps bundles what the route handlers need
type Deps struct {
	Config          *config.Config
	Logger          *logrus.Logger
	Sessions        *handlers.SessionAccess
	CartRemote      session.CartStore
	FavoritesRemote session.FavoritesStore
	UserService     *user.Service
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.UserService, deps.Sessions, deps.Logger)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Config))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// SetupCartRoutes sets up cart related routes. The cart works for guest
// sessions and authenticated users alike; the snapshot upsert is the one
// endpoint that requires a credential.
func SetupCartRoutes(rg *gin.RouterGroup, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Sessions, deps.CartRemote, deps.Logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(deps.Config))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:key", cartHandler.UpdateItem)
		cart.DELETE("/items/:key", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)

		protected := cart.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Config))
		{
			protected.POST("", cartHandler.SaveSnapshot)
		}
	}
}

// SetupFavoritesRoutes sets up favorites related routes
func SetupFavoritesRoutes(rg *gin.RouterGroup, deps Deps) {
	favoritesHandler := handlers.NewFavoritesHandler(deps.Sessions, deps.FavoritesRemote, deps.Logger)

	favorites := rg.Group("/favorites")
	favorites.Use(middleware.OptionalAuthMiddleware(deps.Config))
	{
		favorites.GET("", favoritesHandler.GetFavorites)
		favorites.POST("/toggle", favoritesHandler.Toggle)
		favorites.GET("/contains/:id", favoritesHandler.Contains)
		favorites.DELETE("", favoritesHandler.ClearFavorites)

		protected := favorites.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Config))
		{
			protected.POST("", favoritesHandler.SaveSnapshot)
		}
	}
}

// SetupRecentRoutes sets up recently-viewed routes. These are always
// session-scoped, auth plays no part.
func SetupRecentRoutes(rg *gin.RouterGroup, deps Deps) {
	recentHandler := handlers.NewRecentHandler(deps.Sessions)

	recent := rg.Group("/recently-viewed")
	{
		recent.GET("", recentHandler.GetRecentlyViewed)
		recent.POST("", recentHandler.RecordView)
		recent.DELETE("", recentHandler.ClearRecentlyViewed)
	}
}
