package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/infrastructure/auth"
	"github.com/foodcourt/pos/internal/interfaces/http/handler"
	"github.com/foodcourt/pos/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var order []string

	group := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
		order = append(order, "group")
		c.Next()
	})
	group.GET("/ping", func(c *gin.Context) {
		order = append(order, "handler")
		c.String(http.StatusOK, "pong")
	})

	api := NewRouter(engine).
		Use(func(c *gin.Context) {
			order = append(order, "api")
			c.Next()
		}).
		Register(group).
		Setup()

	assert.Equal(t, "/api", api.BasePath())
	w := serve(engine, http.MethodGet, "/api/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"api", "group", "handler"}, order)
}

func TestRouterWithPrefix(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test")
	group.GET("", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	NewRouter(engine, WithPrefix("/pos")).Register(group).Setup()

	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/pos/test").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/test").Code)
}

func TestDomainGroup(t *testing.T) {
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

	dg := NewDomainGroup("catalog", "/items")
	dg.GET("", ok).POST("", ok).PUT("/:id", ok).DELETE("/:id", ok)
	dg.Group("images", "/:id/images").POST("", ok)

	assert.Equal(t, "catalog", dg.Name())
	assert.Equal(t, "/items", dg.Prefix())

	engine := gin.New()
	dg.RegisterRoutes(engine.Group("/api"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodPut, "/api/items/42"},
		{http.MethodDelete, "/api/items/42"},
		{http.MethodPost, "/api/items/42/images"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func testHandlers() Handlers {
	return Handlers{
		Auth:        handler.NewAuthHandler(nil),
		KOT:         handler.NewKOTHandler(nil),
		Inventory:   handler.NewInventoryHandler(nil, nil),
		Item:        handler.NewItemHandler(nil),
		Category:    handler.NewClassificationHandler(nil, "Category"),
		SubCategory: handler.NewClassificationHandler(nil, "Subcategory"),
		Brand:       handler.NewClassificationHandler(nil, "Brand"),
		Sale:        handler.NewSaleHandler(nil),
		Purchase:    handler.NewPurchaseHandler(nil),
		Print:       handler.NewPrintHandler(nil),
		Party:       handler.NewPartyHandler(nil),
		Coupon:      handler.NewCouponHandler(nil),
		Report:      handler.NewReportHandler(nil),
		Kitchen:     handler.NewKitchenHandler(nil),
	}
}

// newAPIEngine mounts the API behind a stand-in for the JWT middleware that
// grants the given permissions
func newAPIEngine(permissions ...string) *gin.Engine {
	engine := gin.New()
	r := NewRouter(engine)
	if permissions != nil {
		r.Use(func(c *gin.Context) {
			claims := &auth.Claims{
				TenantID:    uuid.NewString(),
				UserID:      uuid.NewString(),
				Permissions: permissions,
			}
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTTenantIDKey, claims.TenantID)
			c.Set(middleware.JWTUserIDKey, claims.UserID)
			c.Next()
		})
	}
	r.Register(Routes(testHandlers())...).Setup()
	return engine
}

func TestRoutes_Table(t *testing.T) {
	engine := newAPIEngine()
	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/auth/login",
		"POST /api/auth/refresh",
		"GET /api/auth/me",
		"POST /api/kots",
		"GET /api/kots/table/:tableNumber/active",
		"PUT /api/kots/:id/items/:itemId/status",
		"PUT /api/kots/:id/complete",
		"PUT /api/kots/:id/cancel",
		"POST /api/kots/:id/print",
		"DELETE /api/kots/:id",
		"GET /api/kitchen/stream",
		"POST /api/inventory/adjust",
		"POST /api/inventory/transfer",
		"GET /api/inventory/adjustments",
		"GET /api/inventory/low-stock",
		"POST /api/inventory/racks",
		"GET /api/inventory/racks/:id/stock",
		"POST /api/inventory/rack-stock/:id/adjust",
		"PUT /api/items/:id/categories",
		"POST /api/items/:id/images",
		"DELETE /api/items/:id/images/:imageId",
		"POST /api/categories/:id/items",
		"DELETE /api/subcategories/:id/items",
		"GET /api/brands/:id",
		"POST /api/sales/from-kots",
		"PUT /api/sales/:id/payment",
		"PUT /api/sales/:id/cancel",
		"GET /api/sales/:id/qr",
		"GET /api/sales/:id/print",
		"POST /api/purchases/:id/receive",
		"PUT /api/purchases/:id/payment",
		"GET /api/parties/:id/points",
		"POST /api/coupons/validate",
		"GET /api/reports/sales-summary",
		"GET /api/reports/daily-sales",
		"GET /api/reports/top-items",
		"GET /api/reports/gst",
		"GET /api/reports/profit-loss",
		"GET /api/reports/cash-book",
		"GET /api/reports/dashboard",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRoutes_Permissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		method      string
		path        string
		wantStatus  int
	}{
		{"no claims", nil, http.MethodGet, "/api/reports/dashboard", http.StatusUnauthorized},
		{"cashier cannot read reports", identity.DefaultCashierPermissions, http.MethodGet, "/api/reports/dashboard", http.StatusForbidden},
		{"cashier cannot delete tickets", identity.DefaultCashierPermissions, http.MethodDelete, "/api/kots/" + uuid.NewString(), http.StatusForbidden},
		{"cashier cannot adjust stock", identity.DefaultCashierPermissions, http.MethodPost, "/api/inventory/adjust", http.StatusForbidden},
		// a malformed id is rejected by the handler, so the guard let it through
		{"cashier reads tickets", identity.DefaultCashierPermissions, http.MethodGet, "/api/kots/not-a-uuid", http.StatusBadRequest},
		{"resource wildcard", []string{"kot:*"}, http.MethodDelete, "/api/kots/not-a-uuid", http.StatusBadRequest},
		{"admin", []string{identity.PermissionAll}, http.MethodGet, "/api/parties/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newAPIEngine(tt.permissions...)

			w := serve(engine, tt.method, tt.path)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}
