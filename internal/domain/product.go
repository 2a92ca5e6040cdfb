package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductName string          `gorm:"size:255;not null;index" json:"product_name"`
	Description *string         `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Category    *string         `gorm:"size:255" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductFields is the client-settable part of a Product. Updates replace
// all of it at once.
type ProductFields struct {
	ProductName string
	Description *string
	Price       decimal.Decimal
	Quantity    int
	Category    *string
}

func (p *Product) Apply(f ProductFields) {
	p.ProductName = f.ProductName
	p.Description = f.Description
	p.Price = f.Price
	p.Quantity = f.Quantity
	p.Category = f.Category
}

func (p Product) Fields() ProductFields {
	return ProductFields{
		ProductName: p.ProductName,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
	}
}
