package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
	"github.com/sandeepkv93/product-inventory-admin/internal/repository"
	"github.com/sandeepkv93/product-inventory-admin/internal/validation"
)

type ProductServiceImpl struct {
	repo  repository.ProductRepository
	rules []validation.Rule
}

func NewProductService(repo repository.ProductRepository) *ProductServiceImpl {
	return &ProductServiceImpl{repo: repo, rules: validation.ProductRules}
}

func (s *ProductServiceImpl) List(ctx context.Context) ([]domain.Product, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordProductOperation(ctx, "list", outcome, time.Since(start)) }()

	items, err := s.repo.List(ctx)
	if err != nil {
		outcome = "error"
		slog.ErrorContext(ctx, "list products failed", "error", err)
		return nil, err
	}
	return items, nil
}

func (s *ProductServiceImpl) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordProductOperation(ctx, "get", outcome, time.Since(start)) }()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = classifyProductError(err)
		return nil, err
	}
	return product, nil
}

func (s *ProductServiceImpl) Create(ctx context.Context, input map[string]any) (*domain.Product, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordProductOperation(ctx, "create", outcome, time.Since(start)) }()

	fields, err := s.validate(input)
	if err != nil {
		outcome = "validation_error"
		return nil, err
	}

	product := &domain.Product{}
	product.Apply(fields)
	if err := s.repo.Create(ctx, product); err != nil {
		outcome = "error"
		slog.ErrorContext(ctx, "create product failed", "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "product created", "product_id", product.ID)
	return product, nil
}

// Update replaces every settable field. A missing product wins over an
// invalid payload.
func (s *ProductServiceImpl) Update(ctx context.Context, id uint, input map[string]any) (*domain.Product, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordProductOperation(ctx, "update", outcome, time.Since(start)) }()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		outcome = classifyProductError(err)
		return nil, err
	}
	fields, err := s.validate(input)
	if err != nil {
		outcome = "validation_error"
		return nil, err
	}

	product, err := s.repo.Replace(ctx, id, fields)
	if err != nil {
		outcome = classifyProductError(err)
		if outcome == "error" {
			slog.ErrorContext(ctx, "update product failed", "product_id", id, "error", err)
		}
		return nil, err
	}
	slog.InfoContext(ctx, "product updated", "product_id", id)
	return product, nil
}

func (s *ProductServiceImpl) DeleteByID(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordProductOperation(ctx, "delete", outcome, time.Since(start)) }()

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		outcome = classifyProductError(err)
		if outcome == "error" {
			slog.ErrorContext(ctx, "delete product failed", "product_id", id, "error", err)
		}
		return err
	}
	slog.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *ProductServiceImpl) validate(input map[string]any) (domain.ProductFields, error) {
	values, err := validation.Validate(s.rules, input)
	if err != nil {
		return domain.ProductFields{}, err
	}
	return domain.ProductFields{
		ProductName: values.String("product_name"),
		Description: values.OptionalString("description"),
		Price:       values.Decimal("price").Round(2),
		Quantity:    int(values.Int("quantity")),
		Category:    values.OptionalString("category"),
	}, nil
}

func classifyProductError(err error) string {
	if errors.Is(err, repository.ErrProductNotFound) {
		return "not_found"
	}
	return "error"
}
