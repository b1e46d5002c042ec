package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockImageStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

type itemFixture struct {
	items       *testutil.MockItemRepository
	categories  *testutil.MockClassificationRepository[catalog.Category]
	brands      *testutil.MockClassificationRepository[catalog.Brand]
	subs        *testutil.MockClassificationRepository[catalog.SubCategory]
	adjustments *testutil.MockAdjustmentRepository
	storage     *MockImageStorage
	publisher   *testutil.RecordingPublisher
	service     *ItemService
}

func newItemFixture() *itemFixture {
	f := &itemFixture{
		items:       new(testutil.MockItemRepository),
		categories:  new(testutil.MockClassificationRepository[catalog.Category]),
		brands:      new(testutil.MockClassificationRepository[catalog.Brand]),
		subs:        new(testutil.MockClassificationRepository[catalog.SubCategory]),
		adjustments: new(testutil.MockAdjustmentRepository),
		storage:     new(MockImageStorage),
		publisher:   &testutil.RecordingPublisher{},
	}
	scope := appshared.NewNoOpTransactionScope(&appshared.Repositories{
		ItemRepo:       f.items,
		AdjustmentRepo: f.adjustments,
	})
	f.service = NewItemService(scope, f.items, f.categories, f.brands, f.subs, f.storage, nil)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func createTestItem(t *testing.T, tenantID uuid.UUID, name string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(tenantID, name, "pcs", catalog.ItemPrice{SellingPrice: decimal.NewFromInt(80)})
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func createTestCategory(t *testing.T, tenantID uuid.UUID, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(tenantID, name, "")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("writes opening stock through the ledger", func(t *testing.T) {
		f := newItemFixture()
		snacks := createTestCategory(t, tenantID, "Snacks")
		f.items.On("ExistsByName", ctx, tenantID, "Samosa", (*uuid.UUID)(nil)).Return(false, nil)
		f.categories.On("FindByIDs", ctx, tenantID, []uuid.UUID{snacks.ID}).Return([]catalog.Category{*snacks}, nil)
		f.items.On("Save", ctx, mock.AnythingOfType("*catalog.Item")).Return(nil)
		var ledger []*inventory.StockAdjustment
		f.adjustments.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
			ledger = args.Get(1).([]*inventory.StockAdjustment)
		}).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, userID, CreateItemRequest{
			Name:         " Samosa ",
			Price:        PriceDTO{SellingPrice: decimal.NewFromInt(20), TaxRate: decimal.NewFromInt(5)},
			OpeningStock: decimal.NewFromInt(50),
			MinimumStock: decimal.NewFromInt(10),
			CategoryIDs:  []uuid.UUID{snacks.ID},
		})

		require.NoError(t, err)
		assert.Equal(t, "Samosa", resp.Name)
		assert.True(t, resp.Stock.CurrentQuantity.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, inventory.StockStatusWellStocked, resp.Stock.Status)
		assert.Equal(t, []CategoryRef{{ID: snacks.ID, Name: "Snacks"}}, resp.Categories)
		require.Len(t, ledger, 1)
		assert.Equal(t, inventory.AdjustmentOpeningStock, ledger[0].Type)
		assert.Equal(t, OpeningStockReason, ledger[0].Reason)
		assert.True(t, ledger[0].BalanceBefore.IsZero())
		assert.Equal(t, []string{catalog.EventTypeItemCreated, inventory.EventTypeStockAdjusted}, f.publisher.Types())
	})

	t.Run("no ledger row without opening stock", func(t *testing.T) {
		f := newItemFixture()
		f.items.On("ExistsByName", ctx, tenantID, "Tea", (*uuid.UUID)(nil)).Return(false, nil)
		f.items.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.service.Create(ctx, tenantID, userID, CreateItemRequest{Name: "Tea"})

		require.NoError(t, err)
		f.adjustments.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newItemFixture()
		f.items.On("ExistsByName", ctx, tenantID, "Tea", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := f.service.Create(ctx, tenantID, userID, CreateItemRequest{Name: "Tea"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newItemFixture()
		missing := uuid.New()
		f.items.On("ExistsByName", ctx, tenantID, "Tea", (*uuid.UUID)(nil)).Return(false, nil)
		f.categories.On("FindByIDs", ctx, tenantID, []uuid.UUID{missing}).Return([]catalog.Category{}, nil)

		_, err := f.service.Create(ctx, tenantID, userID, CreateItemRequest{Name: "Tea", CategoryIDs: []uuid.UUID{missing}})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	req := UpdateItemRequest{Name: "Filter Coffee", Unit: "cup", Price: PriceDTO{SellingPrice: decimal.NewFromInt(35)}}

	t.Run("saves against the version that was read", func(t *testing.T) {
		f := newItemFixture()
		item := createTestItem(t, tenantID, "Coffee")
		item.Version = 7
		f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
		f.items.On("ExistsByName", ctx, tenantID, "Filter Coffee", &item.ID).Return(false, nil)
		f.items.On("SaveWithLock", ctx, item, 7).Return(nil)

		resp, err := f.service.Update(ctx, tenantID, item.ID, req)

		require.NoError(t, err)
		assert.Equal(t, "Filter Coffee", resp.Name)
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a concurrent write surfaces as a conflict", func(t *testing.T) {
		f := newItemFixture()
		item := createTestItem(t, tenantID, "Coffee")
		f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
		f.items.On("ExistsByName", ctx, tenantID, "Filter Coffee", &item.ID).Return(false, nil)
		f.items.On("SaveWithLock", ctx, item, 1).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.Update(ctx, tenantID, item.ID, req)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Empty(t, f.publisher.Events())
	})
}

func TestItemService_AssignCategories(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newItemFixture()
	item := createTestItem(t, tenantID, "Cold Coffee")
	item.AssignCategories(*createTestCategory(t, tenantID, "Hot Drinks"))
	cold := createTestCategory(t, tenantID, "Cold Drinks")
	f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
	f.categories.On("FindByIDs", ctx, tenantID, []uuid.UUID{cold.ID}).Return([]catalog.Category{*cold}, nil)
	f.items.On("SaveWithLock", ctx, item, 1).Return(nil)

	resp, err := f.service.AssignCategories(ctx, tenantID, item.ID, AssignCategoriesRequest{CategoryIDs: []uuid.UUID{cold.ID}})

	require.NoError(t, err)
	assert.Equal(t, []CategoryRef{{ID: cold.ID, Name: "Cold Drinks"}}, resp.Categories)
	assert.Equal(t, []uuid.UUID{cold.ID}, item.CategoryIDs())
}

func TestItemService_Images(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("uploads under the item prefix", func(t *testing.T) {
		f := newItemFixture()
		item := createTestItem(t, tenantID, "Samosa")
		data := []byte("\x89PNG fake")
		prefix := "items/" + tenantID.String() + "/" + item.ID.String() + "/"
		f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
		f.storage.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".png")
		}), data, "image/png").Return(nil)
		f.items.On("SaveWithLock", ctx, item, 1).Return(nil)
		f.storage.On("GenerateDownloadURL", ctx, mock.Anything, time.Hour).Return("https://cdn/x.png", time.Now(), nil)

		resp, err := f.service.UploadImage(ctx, tenantID, item.ID, "photos/samosa.PNG", "image/png", data)

		require.NoError(t, err)
		assert.Equal(t, "samosa.PNG", resp.FileName)
		assert.Equal(t, "https://cdn/x.png", resp.URL)
		require.Len(t, item.Images, 1)
	})

	t.Run("rejects svg", func(t *testing.T) {
		f := newItemFixture()
		_, err := f.service.UploadImage(ctx, tenantID, uuid.New(), "logo.svg", "image/svg+xml", []byte("<svg/>"))
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes the stored object when the row cannot be saved", func(t *testing.T) {
		f := newItemFixture()
		item := createTestItem(t, tenantID, "Samosa")
		f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
		f.storage.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(nil)
		f.items.On("SaveWithLock", ctx, item, 1).Return(errors.New("db down"))
		f.storage.On("DeleteObject", ctx, mock.Anything).Return(nil)

		_, err := f.service.UploadImage(ctx, tenantID, item.ID, "a.jpg", "image/jpeg", []byte("jpeg"))

		require.Error(t, err)
		f.storage.AssertCalled(t, "DeleteObject", ctx, mock.Anything)
	})

	t.Run("delete image removes the object", func(t *testing.T) {
		f := newItemFixture()
		item := createTestItem(t, tenantID, "Samosa")
		img, err := item.AddImage("items/k.png", "k.png", "image/png", 10)
		require.NoError(t, err)
		imageID := img.ID
		f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
		f.items.On("SaveWithLock", ctx, item, 1).Return(nil)
		f.storage.On("DeleteObject", ctx, "items/k.png").Return(nil)

		require.NoError(t, f.service.DeleteImage(ctx, tenantID, item.ID, imageID))
		assert.Empty(t, item.Images)
		f.storage.AssertExpectations(t)
	})
}

func TestItemService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newItemFixture()
	item := createTestItem(t, tenantID, "Samosa")
	_, err := item.AddImage("items/a.png", "a.png", "image/png", 1)
	require.NoError(t, err)
	_, err = item.AddImage("items/b.png", "b.png", "image/png", 1)
	require.NoError(t, err)
	f.items.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
	f.items.On("DeleteForTenant", ctx, tenantID, item.ID).Return(nil)
	f.storage.On("DeleteObject", ctx, "items/a.png").Return(nil)
	f.storage.On("DeleteObject", ctx, "items/b.png").Return(errors.New("gone"))

	require.NoError(t, f.service.Delete(ctx, tenantID, item.ID))
	f.storage.AssertExpectations(t)
	assert.Equal(t, []string{catalog.EventTypeItemDeleted}, f.publisher.Types())
}

func TestItemService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newItemFixture()
	categoryID := uuid.New()
	matches := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["category_id"] == categoryID &&
			filter.Filters["low_stock"] == true &&
			filter.OrderBy == "name" && filter.Search == "tea"
	})
	item := createTestItem(t, tenantID, "Tea")
	f.items.On("FindAllForTenant", ctx, tenantID, matches).Return([]catalog.Item{*item}, nil)
	f.items.On("CountForTenant", ctx, tenantID, matches).Return(int64(1), nil)

	items, total, err := f.service.List(ctx, tenantID, ItemListFilter{Search: " tea ", CategoryID: &categoryID, LowStock: true})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, inventory.StockStatusOutOfStock, items[0].Stock.Status)
}
