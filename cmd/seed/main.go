// Command seed fills a database with a demo menu, parties and a day of tickets
// and bills, going through the application services so every ledger entry and
// number sequence is real.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	catalogapp "github.com/foodcourt/pos/internal/application/catalog"
	identityapp "github.com/foodcourt/pos/internal/application/identity"
	kitchenapp "github.com/foodcourt/pos/internal/application/kitchen"
	partnerapp "github.com/foodcourt/pos/internal/application/partner"
	tradeapp "github.com/foodcourt/pos/internal/application/trade"
	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/foodcourt/pos/internal/infrastructure/logger"
	"github.com/foodcourt/pos/internal/infrastructure/persistence"
	"github.com/foodcourt/pos/internal/infrastructure/storage"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	categoryNames = []string{"Starters", "Main Course", "Breads", "Desserts", "Beverages"}
	taxSlabs      = []string{"0", "5", "12", "18"}
	paymentModes  = []trade.PaymentMethod{trade.PaymentMethodCash, trade.PaymentMethodCard, trade.PaymentMethodUPI}
)

type seeder struct {
	faker    *gofakeit.Faker
	log      *zap.Logger
	tenantID uuid.UUID
	userID   uuid.UUID

	items      *catalogapp.ItemService
	categories *catalogapp.CategoryService
	brands     *catalogapp.BrandService
	parties    *partnerapp.PartyService
	coupons    *partnerapp.CouponService
	kots       *kitchenapp.KOTService
	sales      *tradeapp.SaleService
}

func main() {
	var (
		tenant  string
		items   int
		tickets int
		seed    uint64
	)
	flag.StringVar(&tenant, "tenant", "", "Tenant to seed (default: the administrator's tenant)")
	flag.IntVar(&items, "items", 30, "Number of menu items")
	flag.IntVar(&tickets, "kots", 20, "Number of kitchen tickets, two thirds of them billed")
	flag.Uint64Var(&seed, "seed", 0, "Random seed, 0 picks one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if cfg.Database.Driver != persistence.DriverPostgres {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	ctx := context.Background()
	admin, err := seedAdmin(ctx, persistence.NewGormUserRepository(db.DB), cfg, log)
	if err != nil {
		log.Fatal("Failed to resolve administrator", zap.Error(err))
	}
	tenantID := admin.TenantID
	if tenant != "" {
		if tenantID, err = uuid.Parse(tenant); err != nil {
			log.Fatal("Invalid -tenant", zap.String("tenant", tenant), zap.Error(err))
		}
	}

	imageStorage, err := storage.NewImageStorage(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	itemRepo := persistence.NewGormItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	kotRepo := persistence.NewGormKOTRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	numbers := sequence.NewGenerator(persistence.NewGormSequenceCounter(db.DB), cfg.Shop.Location())

	s := &seeder{
		faker:    gofakeit.New(seed),
		log:      log,
		tenantID: tenantID,
		userID:   admin.ID,
		items: catalogapp.NewItemService(txScope, itemRepo, categoryRepo, brandRepo,
			persistence.NewGormSubCategoryRepository(db.DB), imageStorage, log),
		categories: catalogapp.NewCategoryService(categoryRepo, itemRepo),
		brands:     catalogapp.NewBrandService(brandRepo, itemRepo),
		parties:    partnerapp.NewPartyService(txScope, partyRepo, persistence.NewGormPointLedgerRepository(db.DB)),
		coupons:    partnerapp.NewCouponService(persistence.NewGormCouponRepository(db.DB)),
		kots:       kitchenapp.NewKOTService(txScope, kotRepo, itemRepo, numbers, nil),
		sales: tradeapp.NewSaleService(txScope, persistence.NewGormSaleRepository(db.DB),
			itemRepo, kotRepo, partyRepo, numbers),
	}

	if err := s.run(ctx, items, tickets); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete", zap.String("tenant_id", tenantID.String()))
}

// seedAdmin creates the configured administrator on an empty database and
// returns it; its id is recorded as the creator of the seeded rows.
func seedAdmin(ctx context.Context, users identity.UserRepository, cfg *config.Config, log *zap.Logger) (*identity.User, error) {
	if _, err := identityapp.EnsureAdmin(ctx, users, cfg.Admin, log); err != nil {
		return nil, err
	}
	return users.FindByUsernameAnyTenant(ctx, cfg.Admin.Username)
}

func (s *seeder) run(ctx context.Context, itemCount, ticketCount int) error {
	menu, err := s.seedMenu(ctx, itemCount)
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	customers, referrers, err := s.seedParties(ctx)
	if err != nil {
		return fmt.Errorf("parties: %w", err)
	}
	if err := s.seedCoupons(ctx); err != nil {
		return fmt.Errorf("coupons: %w", err)
	}
	return s.seedTickets(ctx, menu, customers, referrers, ticketCount)
}

func (s *seeder) seedMenu(ctx context.Context, count int) ([]catalogapp.ItemResponse, error) {
	categoryIDs := make([]uuid.UUID, 0, len(categoryNames))
	for i, name := range categoryNames {
		c, err := s.categories.Create(ctx, s.tenantID, s.userID, catalogapp.ClassificationRequest{Name: name, SortOrder: i})
		if err != nil {
			return nil, err
		}
		categoryIDs = append(categoryIDs, c.ID)
	}
	brand, err := s.brands.Create(ctx, s.tenantID, s.userID, catalogapp.ClassificationRequest{Name: s.faker.Company()})
	if err != nil {
		return nil, err
	}

	dishes := []func() string{s.faker.Lunch, s.faker.Dinner, s.faker.Snack, s.faker.Dessert, s.faker.Drink}
	menu := make([]catalogapp.ItemResponse, 0, count)
	seen := make(map[string]bool, count)
	for len(menu) < count {
		slot := len(menu) % len(dishes)
		name := dishes[slot]()
		if seen[name] {
			name = fmt.Sprintf("%s %d", name, len(menu)+1)
		}
		seen[name] = true

		cost := decimal.NewFromFloat(s.faker.Price(20, 250)).Round(0)
		req := catalogapp.CreateItemRequest{
			Name: name,
			Code: fmt.Sprintf("ITM%03d", len(menu)+1),
			Unit: "plate",
			Price: catalogapp.PriceDTO{
				CostPrice:    cost,
				SellingPrice: cost.Mul(decimal.NewFromFloat(1.6)).Round(0),
				MRP:          cost.Mul(decimal.NewFromInt(2)).Round(0),
				TaxRate:      decimal.RequireFromString(s.faker.RandomString(taxSlabs)),
			},
			OpeningStock: decimal.NewFromInt(int64(s.faker.Number(40, 120))),
			MinimumStock: decimal.NewFromInt(10),
			CategoryIDs:  []uuid.UUID{categoryIDs[slot]},
		}
		if s.faker.Bool() {
			req.BrandID = &brand.ID
		}
		item, err := s.items.Create(ctx, s.tenantID, s.userID, req)
		if err != nil {
			return nil, err
		}
		menu = append(menu, *item)
	}
	s.log.Info("Seeded menu", zap.Int("items", len(menu)), zap.Int("categories", len(categoryIDs)))
	return menu, nil
}

func (s *seeder) seedParties(ctx context.Context) (customers, referrers []uuid.UUID, err error) {
	commission := decimal.NewFromInt(2)
	for i := 0; i < 8; i++ {
		req := partnerapp.CreatePartyRequest{
			Name:    s.faker.Name(),
			Type:    "customer",
			Mobile:  s.faker.Phone(),
			Email:   s.faker.Email(),
			Address: s.faker.Street() + ", " + s.faker.City(),
		}
		switch {
		case i < 2:
			req.Type = "referrer"
			req.CommissionRate = &commission
		case i == 7:
			req.Type = "vendor"
			req.Name = s.faker.Company()
		}
		party, err := s.parties.Create(ctx, s.tenantID, s.userID, req)
		if err != nil {
			return nil, nil, err
		}
		switch req.Type {
		case "referrer":
			referrers = append(referrers, party.ID)
		case "customer":
			customers = append(customers, party.ID)
		}
	}
	return customers, referrers, nil
}

func (s *seeder) seedCoupons(ctx context.Context) error {
	coupons := []partnerapp.CouponRequest{
		{Code: "WELCOME10", Description: "10% off the first bill", DiscountType: "percentage",
			Value: decimal.NewFromInt(10), MaxDiscount: decimal.NewFromInt(100)},
		{Code: "FLAT50", Description: "50 off bills above 500", DiscountType: "flat",
			Value: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(500), UsageLimit: 100},
	}
	for _, req := range coupons {
		if _, err := s.coupons.Create(ctx, s.tenantID, s.userID, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedTickets(ctx context.Context, menu []catalogapp.ItemResponse, customers, referrers []uuid.UUID, count int) error {
	billed := 0
	for i := 0; i < count; i++ {
		lines := make([]kitchenapp.KOTLineRequest, 0, 4)
		for n := s.faker.Number(1, 4); n > 0; n-- {
			item := menu[s.faker.Number(0, len(menu)-1)]
			lines = append(lines, kitchenapp.KOTLineRequest{ItemID: item.ID, Quantity: s.faker.Number(1, 3)})
		}
		kot, err := s.kots.Create(ctx, s.tenantID, s.userID, kitchenapp.CreateKOTRequest{
			TableNumber: fmt.Sprintf("T%d", s.faker.Number(1, 12)),
			KOTType:     "dine_in",
			Items:       lines,
		})
		if err != nil {
			return err
		}

		// leave a third of the tickets open for the kitchen display
		if i%3 == 2 {
			continue
		}
		if _, err := s.kots.Complete(ctx, s.tenantID, kot.ID); err != nil {
			return err
		}
		req := tradeapp.CreateSaleFromKOTsRequest{
			KOTIDs:        []uuid.UUID{kot.ID},
			BillType:      trade.BillTypeGST,
			PaymentMethod: paymentModes[i%len(paymentModes)],
		}
		if i%4 == 0 && len(customers) > 0 {
			req.CustomerID = &customers[s.faker.Number(0, len(customers)-1)]
		}
		if i%5 == 0 && len(referrers) > 0 {
			req.ReferrerID = &referrers[0]
		}
		if _, err := s.sales.CreateFromKOTs(ctx, s.tenantID, s.userID, req); err != nil {
			return err
		}
		billed++
	}
	s.log.Info("Seeded tickets", zap.Int("kots", count), zap.Int("bills", billed))
	return nil
}
