package validation

import "github.com/shopspring/decimal"

var (
	zero     = decimal.Zero
	maxPrice = decimal.RequireFromString("9999999999.99")
	maxQty   = decimal.NewFromInt(2147483647)
)

// ProductRules mirrors the products table: numeric(12,2) price and a 32-bit
// quantity column.
var ProductRules = []Rule{
	{Field: "product_name", Kind: KindString, Required: true, MaxLen: 255},
	{Field: "description", Kind: KindString},
	{Field: "price", Kind: KindNumeric, Required: true, Min: &zero, Max: &maxPrice},
	{Field: "quantity", Kind: KindInteger, Required: true, Min: &zero, Max: &maxQty},
	{Field: "category", Kind: KindString, MaxLen: 255},
}
