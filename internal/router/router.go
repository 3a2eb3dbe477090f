package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ovenlab/bakehouse-backend/config"
	"github.com/ovenlab/bakehouse-backend/internal/app/controller"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	cartController     *controller.CartController
	favoriteController *controller.FavoriteController
	contentController  *controller.ContentController
	orderController    *controller.OrderController
	uploadController   *controller.UploadController
	exportController   *controller.ExportController
	wsController       *controller.WSController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	favoriteController *controller.FavoriteController,
	contentController *controller.ContentController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	exportController *controller.ExportController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		cartController:     cartController,
		favoriteController: favoriteController,
		contentController:  contentController,
		orderController:    orderController,
		uploadController:   uploadController,
		exportController:   exportController,
		wsController:       wsController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "BAKEHOUSE API is running",
		})
	})

	// Older storefront builds call the cart endpoints without the /api/v1
	// prefix. All three mounts share the same handlers.
	r.mountCart(router.Group("/api/v1/cart"))
	r.mountCart(router.Group("/api/cart"))
	r.mountCart(router.Group("/cart"))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/slug/:slug", r.productController.GetProductBySlug)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(r.authMiddleware.Authenticate())
		{
			favorites.GET("", r.favoriteController.GetFavorites)
			favorites.POST("/toggle", r.favoriteController.ToggleFavorite)
			favorites.POST("/check", r.favoriteController.CheckFavorites)
		}

		v1.GET("/posts", r.contentController.ListPosts)
		v1.GET("/posts/:slug", r.contentController.GetPost)
		v1.GET("/topics", r.contentController.ListTopics)
		v1.GET("/banners", r.contentController.ListBanners)
		v1.GET("/menus/:menu", r.contentController.GetMenu)

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("/checkout", r.orderController.Checkout)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		// Websocket auth rides on the token query parameter.
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.wsController.HandleWS)

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.POST("/posts", r.contentController.CreatePost)
			admin.PUT("/posts/:id", r.contentController.UpdatePost)
			admin.DELETE("/posts/:id", r.contentController.DeletePost)

			admin.POST("/topics", r.contentController.CreateTopic)
			admin.PUT("/topics/:id", r.contentController.UpdateTopic)
			admin.DELETE("/topics/:id", r.contentController.DeleteTopic)

			admin.GET("/banners", r.contentController.ListAllBanners)
			admin.POST("/banners", r.contentController.CreateBanner)
			admin.PUT("/banners/:id", r.contentController.UpdateBanner)
			admin.DELETE("/banners/:id", r.contentController.DeleteBanner)

			admin.POST("/menus", r.contentController.CreateMenuItem)
			admin.PUT("/menus/:id", r.contentController.UpdateMenuItem)
			admin.DELETE("/menus/:id", r.contentController.DeleteMenuItem)

			admin.GET("/orders", r.orderController.ListOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateStatus)

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)

			admin.GET("/export/orders", r.exportController.ExportOrders)
			admin.GET("/export/products", r.exportController.ExportProducts)
		}
	}

	return router
}

func (r *Router) mountCart(group *gin.RouterGroup) {
	group.Use(r.authMiddleware.Authenticate())
	group.GET("", r.cartController.GetCart)
	group.POST("/add", r.cartController.AddToCart)
	group.PUT("/update", r.cartController.UpdateQuantity)
	group.DELETE("/items/:line_id", r.cartController.RemoveLine)
	group.POST("/clear", r.cartController.ClearCart)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
