package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Replace(ctx context.Context, id uint, fields domain.ProductFields) (*domain.Product, error)
	DeleteByID(ctx context.Context, id uint) error
}

type GormProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// List returns every product ordered by name under the database collation,
// with id as a tiebreaker so equal names keep insertion order.
func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	items := make([]domain.Product, 0)
	if err := r.db.WithContext(ctx).Order("product_name asc").Order("id asc").Find(&items).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "product", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "product", "list", "success")
	return items, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "not_found")
			return nil, ErrProductNotFound
		}
		observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "success")
	return &product, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "product", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "product", "create", "success")
	return nil
}

// Replace overwrites every client-settable column, NULLing optional ones that
// are absent from fields.
func (r *GormProductRepository) Replace(ctx context.Context, id uint, fields domain.ProductFields) (*domain.Product, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]any{
		"product_name": fields.ProductName,
		"description":  fields.Description,
		"price":        fields.Price,
		"quantity":     fields.Quantity,
		"category":     fields.Category,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "product", "replace", "error")
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "product", "replace", "not_found")
		return nil, ErrProductNotFound
	}
	observability.RecordRepositoryOperation(ctx, "product", "replace", "success")
	return r.FindByID(ctx, id)
}

func (r *GormProductRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "product", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "product", "delete_by_id", "not_found")
		return ErrProductNotFound
	}
	observability.RecordRepositoryOperation(ctx, "product", "delete_by_id", "success")
	return nil
}
