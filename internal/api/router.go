package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/models"
)

// Router assembles the gin engine with all middleware and routes.
func (a *API) Router() *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(a.requestLogger())
	r.Use(cors.New(a.corsConfig()))
	r.Use(a.limiter.Handler())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "B2B ecommerce backend is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "env": a.cfg.App.Env})
	})

	// Uploaded images are served cross-origin to the storefront.
	static := r.Group("/uploads", staticCORS())
	static.Static("/", a.uploads.Root())

	secret := a.cfg.JWT.AccessSecret
	authn := middleware.RequireAuth(secret, a.auth)
	adminOnly := middleware.RequireAuth(secret, a.auth, models.RoleAdmin)
	vendorOnly := middleware.RequireAuth(secret, a.auth, models.RoleVendor)
	adminVendor := middleware.RequireAuth(secret, a.auth, models.RoleAdmin, models.RoleVendor)
	optional := middleware.OptionalAuth(secret, a.auth)

	root := r.Group("/api")

	auth := root.Group("/auth")
	{
		auth.POST("/register/customer", a.registerCustomer)
		auth.POST("/register/vendor", optional, a.registerVendor)
		auth.POST("/login/password", a.login)
		auth.POST("/refresh", a.refresh)
		auth.POST("/logout", a.logout)
		auth.POST("/password/forgot", a.forgotPassword)
		auth.POST("/password/reset", a.resetPassword)
		auth.POST("/password/change", authn, a.changePassword)
		auth.GET("/profile", authn, a.profile)
		auth.GET("/vendor-application/status", authn, a.vendorApplicationStatus)
		auth.POST("/vendors/:vendorId/approve", adminOnly, a.approveVendor)
		auth.POST("/vendors/:vendorId/reject", adminOnly, a.rejectVendor)
	}

	cart := root.Group("/cart", authn)
	{
		cart.GET("", a.getCart)
		cart.POST("/add", a.addCartItem)
		cart.PATCH("/update", a.updateCartItem)
		cart.DELETE("/remove/:productId", a.removeCartItem)
		cart.DELETE("/clear", a.clearCart)
	}

	catalog := root.Group("/catalog")
	{
		catalog.GET("/categories", a.listCategories)
		catalog.POST("/categories", adminVendor, a.createCategory)
		catalog.PATCH("/categories/:categoryId", adminVendor, a.updateCategory)
		catalog.DELETE("/categories/:categoryId", adminOnly, a.deleteCategory)

		catalog.GET("/products", adminVendor, a.listProducts)
		catalog.GET("/products/public", a.listPublicProducts)
		catalog.GET("/products/slug/:slug", a.getProductBySlug)
		catalog.POST("/products", adminVendor, a.createProduct)
		catalog.GET("/products/:productId", adminVendor, a.getProduct)
		catalog.PATCH("/products/:productId", adminVendor, a.updateProduct)
		catalog.DELETE("/products/:productId", adminVendor, a.deleteProduct)

		catalog.GET("/vendors", adminOnly, a.listVendors)
		catalog.POST("/vendors/:vendorId/approve", adminOnly, a.adminApproveVendor)
		catalog.POST("/vendors/:vendorId/reject", adminOnly, a.adminRejectVendor)
	}

	contact := root.Group("/contact")
	{
		contact.POST("", a.submitContact)
		contact.GET("", adminOnly, a.listContacts)
		contact.GET("/:contactId", adminOnly, a.getContact)
		contact.PATCH("/:contactId", adminOnly, a.updateContact)
		contact.DELETE("/:contactId", adminOnly, a.deleteContact)
	}

	files := root.Group("/files")
	{
		files.POST("/upload/vendor-application", a.uploadVendorApplication)
		files.POST("/upload", adminVendor, a.uploadFile)
		files.POST("/upload/review", authn, a.uploadReviewImage)
	}

	orders := root.Group("/orders")
	{
		orders.POST("/webhook", a.paymentWebhook)
		orders.GET("/calculate", authn, a.calculateOrder)
		orders.POST("/create", authn, a.createOrder)
		orders.GET("", authn, a.listUserOrders)
		orders.GET("/vendor", authn, a.listVendorOrders)
		orders.GET("/admin", authn, a.listAdminOrders)
		orders.GET("/admin/shipping-config", adminOnly, a.getShippingConfig)
		orders.PUT("/admin/shipping-config", adminOnly, a.updateShippingConfig)
		orders.GET("/admin/:orderId", authn, a.getAdminOrder)
		orders.GET("/:orderId", authn, a.getUserOrder)
		orders.POST("/:orderId/verify-payment", authn, a.verifyPayment)
		orders.PATCH("/:orderId/status", adminVendor, a.updateOrderStatus)
		orders.PATCH("/:orderId/expected-delivery-date", authn, a.updateExpectedDelivery)
	}

	payments := root.Group("/payments")
	{
		payments.GET("/admin/commission", adminOnly, a.getCommission)
		payments.PUT("/admin/commission", adminOnly, a.updateCommission)
		payments.GET("/admin/payouts", adminOnly, a.listAdminPayouts)
		payments.POST("/admin/payouts", adminOnly, a.createPayout)
		payments.PATCH("/admin/payouts/:payoutId", adminOnly, a.updatePayout)
		payments.GET("/vendor/summary", vendorOnly, a.vendorPayoutSummary)
		payments.GET("/vendor/payouts", vendorOnly, a.listVendorPayouts)
	}

	reviews := root.Group("/reviews")
	{
		reviews.GET("/product/:productId", a.listProductReviews)
		reviews.GET("/product/:productId/user", authn, a.getUserReview)
		reviews.POST("", authn, a.createReview)
		reviews.PUT("/:reviewId", authn, a.updateReview)
		reviews.DELETE("/:reviewId", authn, a.deleteReview)
	}

	dashboard := root.Group("/vendor/dashboard", vendorOnly)
	{
		dashboard.GET("/stats", a.vendorDashboardStats)
		dashboard.GET("/profile", a.vendorProfile)
		dashboard.PATCH("/profile", a.updateVendorProfile)
	}

	blog := root.Group("/blog")
	{
		blog.GET("", a.listPublicBlogs)
		blog.GET("/:slug", a.getPublicBlog)
	}

	adminBlogs := root.Group("/admin/blogs", adminOnly)
	{
		adminBlogs.GET("", a.listAdminBlogs)
		adminBlogs.GET("/stats", a.blogStats)
		adminBlogs.POST("", a.createBlog)
		adminBlogs.GET("/:blogId", a.getAdminBlog)
		adminBlogs.PATCH("/:blogId", a.updateBlog)
		adminBlogs.DELETE("/:blogId", a.deleteBlog)
	}

	addresses := root.Group("/addresses", authn)
	{
		addresses.GET("", a.listAddresses)
		addresses.POST("", a.addAddress)
		addresses.PUT("/:index", a.updateAddress)
		addresses.DELETE("/:index", a.deleteAddress)
		addresses.PATCH("/:index/default", a.setDefaultAddress)
	}

	return r
}

func (a *API) corsConfig() cors.Config {
	origins := []string{"https://bazaarwale.in", "https://www.bazaarwale.in"}
	if a.cfg.App.FrontendURL != "" {
		origins = append([]string{a.cfg.App.FrontendURL}, origins...)
	}
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		ExposeHeaders:    []string{"Content-Length", "Content-Range"},
		AllowCredentials: true,
	}
	if !a.cfg.IsProduction() {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

// staticCORS lets uploaded assets load from any origin, which plain CORS
// config cannot express for credentialed requests.
func staticCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
		} else {
			c.Header("Access-Control-Allow-Origin", "*")
		}
		c.Header("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Range")
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Range, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}
