package inventory

import (
	"strconv"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
)

const (
	FieldProductName = "product_name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldCategory    = "category"
)

// DraftFields lists the form inputs in display order.
var DraftFields = []string{FieldProductName, FieldCategory, FieldDescription, FieldPrice, FieldQuantity}

// Draft holds raw form input. Values are sent verbatim; the server coerces
// numeric strings.
type Draft struct {
	ProductName string
	Description string
	Price       string
	Quantity    string
	Category    string
}

func DraftFromProduct(p domain.Product) Draft {
	d := Draft{
		ProductName: p.ProductName,
		Price:       p.Price.String(),
		Quantity:    strconv.Itoa(p.Quantity),
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	return d
}

func (d Draft) Get(field string) string {
	switch field {
	case FieldProductName:
		return d.ProductName
	case FieldDescription:
		return d.Description
	case FieldPrice:
		return d.Price
	case FieldQuantity:
		return d.Quantity
	case FieldCategory:
		return d.Category
	}
	return ""
}

// With returns a copy of d with field set. Unknown fields leave d unchanged.
func (d Draft) With(field, value string) Draft {
	switch field {
	case FieldProductName:
		d.ProductName = value
	case FieldDescription:
		d.Description = value
	case FieldPrice:
		d.Price = value
	case FieldQuantity:
		d.Quantity = value
	case FieldCategory:
		d.Category = value
	}
	return d
}

func (d Draft) Payload() map[string]any {
	return map[string]any{
		FieldProductName: d.ProductName,
		FieldDescription: d.Description,
		FieldPrice:       d.Price,
		FieldQuantity:    d.Quantity,
		FieldCategory:    d.Category,
	}
}
