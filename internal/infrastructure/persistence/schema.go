package persistence

import (
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/trade"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order
func Models() []interface{} {
	return []interface{}{
		&identity.User{},
		&catalog.Category{},
		&catalog.SubCategory{},
		&catalog.Brand{},
		&catalog.Item{},
		&catalog.ItemCategory{},
		&catalog.ItemImage{},
		&inventory.StockAdjustment{},
		&inventory.Rack{},
		&inventory.RackStock{},
		&kitchen.KOT{},
		&kitchen.KOTItem{},
		&partner.Party{},
		&partner.ReferrerPointEntry{},
		&partner.Coupon{},
		&trade.Sale{},
		&trade.SaleItem{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&sequenceCounter{},
	}
}

// AutoMigrate creates or alters the tables from the model definitions. Postgres
// deployments use the versioned SQL in migrations/ instead; this path serves sqlite
// and mysql, and the tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
