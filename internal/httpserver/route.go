package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hugelabz/pkg/db"
	middleware "github.com/Skotchmaster/hugelabz/pkg/middleware/auth"
)

type Deps struct {
	DB          *gorm.DB
	JWTSecret   []byte
	CatalogHTTP *CatalogHTTP
	AuthHTTP    *AuthHTTP
	SerialHTTP  *SerialHTTP
	LedgerHTTP  *LedgerHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewTokenAuth(d.JWTSecret)
	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.CatalogHTTP.GetProducts)
	products.GET("/search", d.CatalogHTTP.SearchProducts)
	products.GET("/:id", d.CatalogHTTP.GetProduct)
	adminProducts := products.Group("", authMW.RequireAdmin)
	adminProducts.POST("", d.CatalogHTTP.CreateProduct)
	adminProducts.PUT("/:id", d.CatalogHTTP.PatchProduct)
	adminProducts.PATCH("/:id", d.CatalogHTTP.PatchProduct)
	adminProducts.DELETE("/:id", d.CatalogHTTP.DeleteProduct)

	categories := api.Group("/categories")
	categories.GET("", d.CatalogHTTP.ListCategories)
	categories.GET("/:slug", d.CatalogHTTP.GetCategory)
	adminCategories := categories.Group("", authMW.RequireAdmin)
	adminCategories.POST("", d.CatalogHTTP.CreateCategory)
	adminCategories.PUT("/:id", d.CatalogHTTP.UpdateCategory)
	adminCategories.DELETE("/:id", d.CatalogHTTP.DeleteCategory)

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHTTP.Register)
	auth.POST("/login", d.AuthHTTP.Login)
	auth.POST("/logout", d.AuthHTTP.Logout)
	auth.GET("/me", d.AuthHTTP.Me, authMW.RequireAuth)

	serials := api.Group("/serials")
	serials.POST("/verify", d.SerialHTTP.Verify, authMW.OptionalAuth)
	adminSerials := serials.Group("", authMW.RequireAdmin)
	adminSerials.GET("", d.SerialHTTP.ListSerials)
	adminSerials.GET("/export", d.SerialHTTP.ExportSerials)
	adminSerials.POST("", d.SerialHTTP.AddSerial)
	adminSerials.POST("/bulk", d.SerialHTTP.BulkAddSerials)
	adminSerials.POST("/generate", d.SerialHTTP.GenerateCode)
	adminSerials.DELETE("/:id", d.SerialHTTP.DeleteSerial)

	verifications := api.Group("/verifications")
	verifications.GET("/me", d.LedgerHTTP.MyVerifications, authMW.RequireAuth)
	verifications.GET("", d.LedgerHTTP.ListVerifications, authMW.RequireAdmin)

	api.GET("/admin/dashboard", d.LedgerHTTP.Dashboard, authMW.RequireAdmin)
}
