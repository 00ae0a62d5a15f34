package catalog_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/service/catalog"
	"github.com/JesVite28/products-front/internal/session"
)

const (
	hexID      = "64a1f0b2c3d4e5f60718293a"
	otherHexID = "ffffffffffffffffffffffff"
)

type fakeInventory struct {
	mu          sync.Mutex
	listFn      func(ctx context.Context) ([]models.Product, error)
	getFn       func(ctx context.Context, id string) (*models.Product, error)
	createFn    func(ctx context.Context, p models.Product) (*models.Product, error)
	updateFn    func(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	deleteFn    func(ctx context.Context, id string) error
	listCalls   int
	getCalls    int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeInventory) List(ctx context.Context) ([]models.Product, error) {
	f.count(&f.listCalls)
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeInventory) Get(ctx context.Context, id string) (*models.Product, error) {
	f.count(&f.getCalls)
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeInventory) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	f.count(&f.createCalls)
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return &p, nil
}

func (f *fakeInventory) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	f.count(&f.updateCalls)
	if f.updateFn != nil {
		return f.updateFn(ctx, id, patch)
	}
	return nil, nil
}

func (f *fakeInventory) Delete(ctx context.Context, id string) error {
	f.count(&f.deleteCalls)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeInventory) count(n *int) {
	f.mu.Lock()
	*n++
	f.mu.Unlock()
}

func newCatalog(t *testing.T, fake *fakeInventory, role string) *catalog.Service {
	t.Helper()

	sess := session.New(filepath.Join(t.TempDir(), "app_token"), nil)
	sess.SetUser(&models.User{ID: "me", Email: "me@shop.test", Roles: models.RoleList{role}})

	return catalog.NewService(fake, sess, alerts.NewStore(), nil)
}

func validForm() models.ProductForm {
	return models.ProductForm{
		Name:          "Widget",
		Price:         "25",
		Description:   "A widget",
		Stock:         "10",
		ExpiryDate:    "2027-01-01",
		PurchaseDate:  "2026-01-01",
		Provider:      "Acme",
		PurchasePrice: "12",
	}
}

func TestListAllAppliesOverrides(t *testing.T) {
	fake := &fakeInventory{
		createFn: func(_ context.Context, p models.Product) (*models.Product, error) {
			p.ID = hexID
			return &p, nil
		},
		listFn: func(context.Context) ([]models.Product, error) {
			// Field-trimmed echo: the server "forgot" most of the record.
			return []models.Product{{ID: hexID, Name: "Widget"}}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleAdmin)

	_, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)

	require.NoError(t, svc.ListAll(context.Background()))

	displayed := svc.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, 10, displayed[0].Stock)
	assert.Equal(t, "Acme", displayed[0].Provider)
	assert.Equal(t, 25.0, displayed[0].Price)
}

func TestCreateWithNegativeStockSendsNothing(t *testing.T) {
	fake := &fakeInventory{}
	svc := newCatalog(t, fake, models.RoleAdmin)

	form := validForm()
	form.Stock = "-1"

	_, err := svc.Create(context.Background(), form)
	assert.ErrorIs(t, err, models.ErrNegativeStock)
	assert.Equal(t, 0, fake.createCalls)
	assert.Empty(t, svc.Displayed())
}

func TestCreateWithNonNumericPriceSendsNothing(t *testing.T) {
	fake := &fakeInventory{}
	svc := newCatalog(t, fake, models.RoleAdmin)

	form := validForm()
	form.Price = "abc"

	_, err := svc.Create(context.Background(), form)
	assert.ErrorIs(t, err, models.ErrInvalidNumber)
	assert.Equal(t, 0, fake.createCalls)
}

func TestUpdatePreservesUnsubmittedFields(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{{ID: hexID, Name: "Widget", Stock: 10, Price: 25, Provider: "Acme"}}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleManager)
	require.NoError(t, svc.ListAll(context.Background()))

	updated, err := svc.Update(context.Background(), hexID, models.ProductForm{Price: "50"})
	require.NoError(t, err)

	assert.Equal(t, 50.0, updated.Price)
	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 1, fake.updateCalls)

	displayed := svc.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, 50.0, displayed[0].Price)
	assert.Equal(t, 10, displayed[0].Stock)
}

func TestUpdateRefreshesOpenDetail(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{{ID: hexID, Name: "Widget", Stock: 10}}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleAdmin)
	require.NoError(t, svc.ListAll(context.Background()))

	_, ok := svc.OpenDetail(hexID)
	require.True(t, ok)

	_, err := svc.Update(context.Background(), hexID, models.ProductForm{Stock: "0"})
	require.NoError(t, err)

	detail := svc.Detail()
	require.NotNil(t, detail)
	assert.Equal(t, 0, detail.Stock)
}

func TestDeleteRemovesFromListsOverridesAndDetail(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{{ID: hexID, Name: "Widget"}, {ID: otherHexID, Name: "Gadget"}}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleAdmin)
	require.NoError(t, svc.ListAll(context.Background()))

	_, err := svc.Update(context.Background(), hexID, models.ProductForm{Stock: "3"})
	require.NoError(t, err)
	_, ok := svc.OpenDetail(hexID)
	require.True(t, ok)

	require.NoError(t, svc.Delete(context.Background(), hexID))

	assert.Nil(t, svc.Detail())
	for _, p := range svc.Displayed() {
		assert.NotEqual(t, hexID, p.ID)
	}
	for _, p := range svc.All() {
		assert.NotEqual(t, hexID, p.ID)
	}

	// Known gap: with the override gone, a stale full list still
	// containing the row brings it back with the server's values.
	require.NoError(t, svc.ListAll(context.Background()))
	displayed := svc.Displayed()
	require.Len(t, displayed, 2)
	assert.Equal(t, "Widget", displayed[0].Name)
	assert.Equal(t, 0, displayed[0].Stock)
}

func TestSearchEmptyQueryRestoresFullList(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{
				{ID: hexID, Name: "Coffee", Provider: "Acme"},
				{ID: otherHexID, Name: "Tea", Provider: "Beta"},
			}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleCashier)
	require.NoError(t, svc.ListAll(context.Background()))

	require.NoError(t, svc.Search(context.Background(), "coffee"))
	require.Len(t, svc.Displayed(), 1)

	require.NoError(t, svc.Search(context.Background(), "   "))
	assert.Len(t, svc.Displayed(), 2)
}

func TestSearchMatchesNameDescriptionAndProvider(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{
				{ID: hexID, Name: "Coffee", Description: "dark roast", Provider: "Acme"},
				{ID: otherHexID, Name: "Tea", Description: "green", Provider: "ACME Imports"},
			}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleCashier)
	require.NoError(t, svc.ListAll(context.Background()))

	require.NoError(t, svc.Search(context.Background(), "acme"))
	assert.Len(t, svc.Displayed(), 2)

	require.NoError(t, svc.Search(context.Background(), "roast"))
	require.Len(t, svc.Displayed(), 1)
	assert.Equal(t, "Coffee", svc.Displayed()[0].Name)

	// No lookup was attempted: neither query is identifier-shaped.
	assert.Equal(t, 0, fake.getCalls)
}

func TestSearchTextFilterSupersedesDirectMatch(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{{ID: hexID, Name: "Widget", Provider: "Acme"}}, nil
		},
		getFn: func(_ context.Context, id string) (*models.Product, error) {
			return &models.Product{ID: id, Name: "Widget"}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleCashier)
	require.NoError(t, svc.ListAll(context.Background()))

	// The direct lookup succeeds, but no text field contains the raw
	// identifier, so the unconditional text filter that runs afterwards
	// replaces the result with an empty list.
	require.NoError(t, svc.Search(context.Background(), hexID))
	assert.Equal(t, 1, fake.getCalls)
	assert.Empty(t, svc.Displayed())
}

func TestSearchDirectLookupMissDegradesSilently(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{{ID: hexID, Name: "Widget"}}, nil
		},
		getFn: func(context.Context, string) (*models.Product, error) {
			return nil, assert.AnError
		},
	}
	svc := newCatalog(t, fake, models.RoleCashier)
	require.NoError(t, svc.ListAll(context.Background()))

	err := svc.Search(context.Background(), otherHexID)
	require.NoError(t, err)
	assert.Empty(t, svc.Displayed())
}

func TestCashierWritesAreRefusedLocally(t *testing.T) {
	fake := &fakeInventory{}
	svc := newCatalog(t, fake, models.RoleCashier)

	err := svc.Delete(context.Background(), hexID)
	assert.ErrorIs(t, err, catalog.ErrReadOnly)

	_, err = svc.Create(context.Background(), validForm())
	assert.ErrorIs(t, err, catalog.ErrReadOnly)

	_, err = svc.Update(context.Background(), hexID, validForm())
	assert.ErrorIs(t, err, catalog.ErrReadOnly)

	assert.Equal(t, 0, fake.createCalls)
	assert.Equal(t, 0, fake.updateCalls)
	assert.Equal(t, 0, fake.deleteCalls)
}

func TestStaleListResultIsDiscardedAfterWrite(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	fake := &fakeInventory{
		createFn: func(_ context.Context, p models.Product) (*models.Product, error) {
			p.ID = hexID
			return &p, nil
		},
	}
	fake.listFn = func(context.Context) ([]models.Product, error) {
		close(entered)
		<-release
		return []models.Product{}, nil
	}

	svc := newCatalog(t, fake, models.RoleAdmin)

	done := make(chan error, 1)
	go func() { done <- svc.ListAll(context.Background()) }()
	<-entered

	_, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	// The slow, empty list response must not wipe the newer create.
	displayed := svc.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, hexID, displayed[0].ID)
}

func TestResetDiscardsAllState(t *testing.T) {
	fake := &fakeInventory{
		listFn: func(context.Context) ([]models.Product, error) {
			return []models.Product{{ID: hexID, Name: "Widget"}}, nil
		},
	}
	svc := newCatalog(t, fake, models.RoleAdmin)
	require.NoError(t, svc.ListAll(context.Background()))
	_, ok := svc.OpenDetail(hexID)
	require.True(t, ok)

	svc.Reset()

	assert.Empty(t, svc.Displayed())
	assert.Empty(t, svc.All())
	assert.Nil(t, svc.Detail())
}
