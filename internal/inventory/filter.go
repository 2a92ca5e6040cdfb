package inventory

import (
	"strings"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
)

// FilterProducts keeps products whose name contains search (case-insensitive)
// and whose category equals category. Empty arguments match everything.
func FilterProducts(products []domain.Product, search, category string) []domain.Product {
	needle := strings.ToLower(search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.ProductName), needle) {
			continue
		}
		if category != "" && (p.Category == nil || *p.Category != category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns distinct non-empty categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if p.Category == nil || *p.Category == "" {
			continue
		}
		if _, ok := seen[*p.Category]; ok {
			continue
		}
		seen[*p.Category] = struct{}{}
		out = append(out, *p.Category)
	}
	return out
}
