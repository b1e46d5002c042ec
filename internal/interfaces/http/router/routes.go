package router

import (
	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/interfaces/http/handler"
	"github.com/foodcourt/pos/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the API handlers mounted by Routes
type Handlers struct {
	Auth        *handler.AuthHandler
	KOT         *handler.KOTHandler
	Inventory   *handler.InventoryHandler
	Item        *handler.ItemHandler
	Category    *handler.ClassificationHandler
	SubCategory *handler.ClassificationHandler
	Brand       *handler.ClassificationHandler
	Sale        *handler.SaleHandler
	Purchase    *handler.PurchaseHandler
	Print       *handler.PrintHandler
	Party       *handler.PartyHandler
	Coupon      *handler.CouponHandler
	Report      *handler.ReportHandler
	Kitchen     *handler.KitchenHandler
}

// PublicPaths are reachable without an access token
var PublicPaths = []string{
	"/api/auth/login",
	"/api/auth/refresh",
}

// can guards a handler with a permission
func can(permission string, h gin.HandlerFunc) []gin.HandlerFunc {
	return []gin.HandlerFunc{middleware.RequirePermission(permission), h}
}

// Routes builds the domain groups of the API
func Routes(h Handlers) []RouteRegistrar {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)
	auth.PUT("/password", h.Auth.ChangePassword)

	kots := NewDomainGroup("kitchen", "/kots")
	kots.POST("", can(identity.PermKOTWrite, h.KOT.Create)...)
	kots.GET("", can(identity.PermKOTRead, h.KOT.List)...)
	kots.GET("/table/:tableNumber/active", can(identity.PermKOTRead, h.KOT.ActiveForTable)...)
	kots.GET("/:id", can(identity.PermKOTRead, h.KOT.Get)...)
	kots.PUT("/:id", can(identity.PermKOTWrite, h.KOT.Update)...)
	kots.DELETE("/:id", can(identity.PermKOTDelete, h.KOT.Delete)...)
	kots.PUT("/:id/items/:itemId/status", can(identity.PermKOTWrite, h.KOT.UpdateItemStatus)...)
	kots.PUT("/:id/complete", can(identity.PermKOTWrite, h.KOT.Complete)...)
	kots.PUT("/:id/cancel", can(identity.PermKOTWrite, h.KOT.Cancel)...)
	kots.POST("/:id/print", can(identity.PermKOTWrite, h.Print.PrintKOT)...)

	kitchen := NewDomainGroup("kitchen-display", "/kitchen")
	kitchen.GET("/stream", can(identity.PermKOTRead, h.Kitchen.Stream)...)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.POST("/adjust", can(identity.PermInventoryWrite, h.Inventory.Adjust)...)
	inventory.POST("/transfer", can(identity.PermInventoryWrite, h.Inventory.Transfer)...)
	inventory.GET("/adjustments", can(identity.PermInventoryRead, h.Inventory.ListAdjustments)...)
	inventory.GET("/low-stock", can(identity.PermInventoryRead, h.Inventory.ListLowStock)...)
	inventory.POST("/racks", can(identity.PermInventoryWrite, h.Inventory.CreateRack)...)
	inventory.GET("/racks", can(identity.PermInventoryRead, h.Inventory.ListRacks)...)
	inventory.DELETE("/racks/:id", can(identity.PermInventoryWrite, h.Inventory.DeleteRack)...)
	inventory.POST("/racks/:id/stock", can(identity.PermInventoryWrite, h.Inventory.PlaceRackStock)...)
	inventory.GET("/racks/:id/stock", can(identity.PermInventoryRead, h.Inventory.ListRackStock)...)
	inventory.POST("/rack-stock/:id/adjust", can(identity.PermInventoryWrite, h.Inventory.AdjustRackStock)...)

	items := NewDomainGroup("catalog", "/items")
	items.POST("", can(identity.PermCatalogWrite, h.Item.Create)...)
	items.GET("", can(identity.PermCatalogRead, h.Item.List)...)
	items.GET("/:id", can(identity.PermCatalogRead, h.Item.Get)...)
	items.PUT("/:id", can(identity.PermCatalogWrite, h.Item.Update)...)
	items.DELETE("/:id", can(identity.PermCatalogWrite, h.Item.Delete)...)
	items.PUT("/:id/categories", can(identity.PermCatalogWrite, h.Item.AssignCategories)...)
	items.POST("/:id/images", can(identity.PermCatalogWrite, h.Item.UploadImage)...)
	items.DELETE("/:id/images/:imageId", can(identity.PermCatalogWrite, h.Item.DeleteImage)...)

	registrars := []RouteRegistrar{auth, kots, kitchen, inventory, items}
	for _, c := range []struct {
		prefix  string
		handler *handler.ClassificationHandler
	}{
		{"/categories", h.Category},
		{"/subcategories", h.SubCategory},
		{"/brands", h.Brand},
	} {
		registrars = append(registrars, classificationRoutes(c.prefix, c.handler))
	}

	sales := NewDomainGroup("trade", "/sales")
	sales.POST("", can(identity.PermSaleWrite, h.Sale.Create)...)
	sales.POST("/from-kots", can(identity.PermSaleWrite, h.Sale.CreateFromKOTs)...)
	sales.GET("", can(identity.PermSaleRead, h.Sale.List)...)
	sales.GET("/:id", can(identity.PermSaleRead, h.Sale.Get)...)
	sales.DELETE("/:id", can(identity.PermSaleWrite, h.Sale.Delete)...)
	sales.PUT("/:id/payment", can(identity.PermSaleWrite, h.Sale.UpdatePayment)...)
	sales.PUT("/:id/cancel", can(identity.PermSaleWrite, h.Sale.Cancel)...)
	sales.GET("/:id/print", can(identity.PermSaleRead, h.Print.PrintSale)...)
	sales.GET("/:id/qr", can(identity.PermSaleRead, h.Print.SaleQR)...)

	purchases := NewDomainGroup("trade", "/purchases")
	purchases.POST("", can(identity.PermPurchaseWrite, h.Purchase.Create)...)
	purchases.GET("", can(identity.PermPurchaseRead, h.Purchase.List)...)
	purchases.GET("/:id", can(identity.PermPurchaseRead, h.Purchase.Get)...)
	purchases.DELETE("/:id", can(identity.PermPurchaseWrite, h.Purchase.Delete)...)
	purchases.PUT("/:id/payment", can(identity.PermPurchaseWrite, h.Purchase.UpdatePayment)...)
	purchases.POST("/:id/receive", can(identity.PermPurchaseWrite, h.Purchase.Receive)...)
	purchases.PUT("/:id/cancel", can(identity.PermPurchaseWrite, h.Purchase.Cancel)...)
	purchases.GET("/:id/print", can(identity.PermPurchaseRead, h.Print.PrintPurchase)...)

	parties := NewDomainGroup("partner", "/parties")
	parties.POST("", can(identity.PermPartnerWrite, h.Party.Create)...)
	parties.GET("", can(identity.PermPartnerRead, h.Party.List)...)
	parties.GET("/:id", can(identity.PermPartnerRead, h.Party.Get)...)
	parties.PUT("/:id", can(identity.PermPartnerWrite, h.Party.Update)...)
	parties.DELETE("/:id", can(identity.PermPartnerWrite, h.Party.Delete)...)
	parties.GET("/:id/points", can(identity.PermPartnerRead, h.Party.ListPoints)...)
	parties.POST("/:id/points/redeem", can(identity.PermPartnerWrite, h.Party.RedeemPoints)...)

	coupons := NewDomainGroup("partner", "/coupons")
	coupons.POST("", can(identity.PermPartnerWrite, h.Coupon.Create)...)
	coupons.GET("", can(identity.PermPartnerRead, h.Coupon.List)...)
	// cashiers check codes while billing
	coupons.POST("/validate", can(identity.PermSaleWrite, h.Coupon.Validate)...)
	coupons.GET("/:id", can(identity.PermPartnerRead, h.Coupon.Get)...)
	coupons.PUT("/:id", can(identity.PermPartnerWrite, h.Coupon.Update)...)
	coupons.DELETE("/:id", can(identity.PermPartnerWrite, h.Coupon.Delete)...)

	reports := NewDomainGroup("report", "/reports").Use(middleware.RequirePermission(identity.PermReportRead))
	reports.GET("/sales-summary", h.Report.SalesSummary)
	reports.GET("/daily-sales", h.Report.DailySales)
	reports.GET("/top-items", h.Report.TopItems)
	reports.GET("/gst", h.Report.GST)
	reports.GET("/profit-loss", h.Report.ProfitLoss)
	reports.GET("/cash-book", h.Report.CashBook)
	reports.GET("/kot-summary", h.Report.KOTSummary)
	reports.GET("/stock-valuation", h.Report.StockValuation)
	reports.GET("/dashboard", h.Report.Dashboard)

	return append(registrars, sales, purchases, parties, coupons, reports)
}

func classificationRoutes(prefix string, h *handler.ClassificationHandler) *DomainGroup {
	g := NewDomainGroup("catalog", prefix)
	g.POST("", can(identity.PermCatalogWrite, h.Create)...)
	g.GET("", can(identity.PermCatalogRead, h.List)...)
	g.GET("/:id", can(identity.PermCatalogRead, h.Get)...)
	g.PUT("/:id", can(identity.PermCatalogWrite, h.Update)...)
	g.DELETE("/:id", can(identity.PermCatalogWrite, h.Delete)...)
	g.POST("/:id/items", can(identity.PermCatalogWrite, h.AssignItems)...)
	g.DELETE("/:id/items", can(identity.PermCatalogWrite, h.RemoveItems)...)
	return g
}
