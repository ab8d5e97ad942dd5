package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

func newCatalogFixture() (CatalogService, *fakeProductRepo) {
	products := &fakeProductRepo{}
	shops := &fakeShopRepo{shops: map[string]models.Shop{"shop_42": {ID: "shop_42"}}}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewCatalogService(products, shops, validate, zerolog.Nop())
	return svc, products
}

func TestCreateProductAssignsIDAndAttributes(t *testing.T) {
	svc, products := newCatalogFixture()

	response, err := svc.CreateProduct(context.Background(), "shop_42", dto.ProductCreateRequest{
		Name:       "  Linen Shirt  ",
		Category:   "shirts",
		PriceCents: 4999,
		Attributes: map[string]string{"size": "M", "color": "sand"},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(response.ID, "prod_"))
	require.Equal(t, "Linen Shirt", response.Name)
	require.Equal(t, "shop_42", response.ShopID)
	require.Equal(t, "M", response.Attributes["size"])

	require.Len(t, products.products, 1)
}

func TestCreateProductRejectsUnknownShop(t *testing.T) {
	svc, products := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), "shop_ghost", dto.ProductCreateRequest{
		Name:       "Linen Shirt",
		PriceCents: 4999,
	})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.Empty(t, products.products)
}

func TestCreateProductRejectsInvalidPayload(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), "shop_42", dto.ProductCreateRequest{Name: "Linen Shirt"})
	require.Error(t, err)

	_, err = svc.CreateProduct(context.Background(), "shop_42", dto.ProductCreateRequest{Name: "x", PriceCents: 100})
	require.Error(t, err)
}

func TestListProductsFiltersByShopAndCategory(t *testing.T) {
	svc, products := newCatalogFixture()
	products.products = map[string]models.Product{
		"prod_a": {ID: "prod_a", ShopID: "shop_42", Category: "shirts"},
		"prod_b": {ID: "prod_b", ShopID: "shop_42", Category: "hats"},
		"prod_c": {ID: "prod_c", ShopID: "shop_99", Category: "shirts"},
	}

	listed, err := svc.ListProducts(context.Background(), dto.ProductListQuery{ShopID: "shop_42", Category: "shirts"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "prod_a", listed[0].ID)
}

func TestGetProductReturnsNotFound(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.GetProduct(context.Background(), "prod_ghost")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
