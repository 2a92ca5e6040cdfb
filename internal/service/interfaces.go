//go:generate mockgen -destination=gomock/product_service_mock.go -package=servicegomock github.com/sandeepkv93/product-inventory-admin/internal/service ProductService

package service

import (
	"context"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
)

// ProductService accepts raw decoded payloads on writes so that validation
// reports every offending field at once.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id uint) (*domain.Product, error)
	Create(ctx context.Context, input map[string]any) (*domain.Product, error)
	Update(ctx context.Context, id uint, input map[string]any) (*domain.Product, error)
	DeleteByID(ctx context.Context, id uint) error
}
