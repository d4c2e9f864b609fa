package domain

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCodeLength and ProductCodeAlphabet define the human-readable product code.
const (
	ProductCodeLength   = 7
	ProductCodeAlphabet = "1234567890abcdefghijklmnopqrstuvwxyz"
)

// ProductCategory classifies a product.
type ProductCategory string

const (
	CategoryGadgets        ProductCategory = "Gadgets"
	CategoryClothing       ProductCategory = "Clothing"
	CategoryAccessories    ProductCategory = "Accessories"
	CategoryFashion        ProductCategory = "Fashion"
	CategoryHomeAppliances ProductCategory = "HomeAppliances"
	CategoryFurniture      ProductCategory = "Furniture"
	CategoryOthers         ProductCategory = "Others"
)

// IsValid checks if the ProductCategory is one of the defined constants.
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryGadgets, CategoryClothing, CategoryAccessories, CategoryFashion,
		CategoryHomeAppliances, CategoryFurniture, CategoryOthers:
		return true
	}
	return false
}

// Currency is an ISO 4217 code accepted for prices.
type Currency string

const (
	CurrencyRWF Currency = "RWF"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyKES Currency = "KES"
	CurrencyUGX Currency = "UGX"
	CurrencyTZS Currency = "TZS"
	CurrencyNGN Currency = "NGN"
	CurrencyGHS Currency = "GHS"
	CurrencyZAR Currency = "ZAR"
)

// FallbackCurrency is used whenever a currency cannot be inferred.
const FallbackCurrency = CurrencyRWF

// IsValid checks if the Currency is one of the defined constants.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyRWF, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyKES,
		CurrencyUGX, CurrencyTZS, CurrencyNGN, CurrencyGHS, CurrencyZAR:
		return true
	}
	return false
}

var countryCurrencies = map[string]Currency{
	"RW": CurrencyRWF,
	"US": CurrencyUSD,
	"GB": CurrencyGBP,
	"KE": CurrencyKES,
	"UG": CurrencyUGX,
	"TZ": CurrencyTZS,
	"NG": CurrencyNGN,
	"GH": CurrencyGHS,
	"ZA": CurrencyZAR,
	"DE": CurrencyEUR,
	"FR": CurrencyEUR,
	"IT": CurrencyEUR,
	"ES": CurrencyEUR,
	"NL": CurrencyEUR,
	"BE": CurrencyEUR,
	"PT": CurrencyEUR,
	"IE": CurrencyEUR,
	"AT": CurrencyEUR,
	"FI": CurrencyEUR,
}

// CurrencyForCountry maps an ISO 3166 alpha-2 code to its currency.
func CurrencyForCountry(country string) (Currency, bool) {
	c, ok := countryCurrencies[strings.ToUpper(strings.TrimSpace(country))]
	return c, ok
}

// Product is a listing owned by a vendor. It is only ever soft-deleted.
type Product struct {
	ID          primitive.ObjectID
	Name        string
	Description string
	Code        string
	Category    ProductCategory
	Images      []string
	Price       float64
	PriceMax    *float64
	Currency    Currency
	IsDeleted   bool
	VendorID    primitive.ObjectID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductView is a product as returned to callers, with derived fields.
type ProductView struct {
	Product   *Product
	Vendor    *PublicProfile
	LikeCount int64
	IsLiked   *bool
}

// FileInput is a client-submitted image. URI is either a stored URL (kept)
// or base64 content (uploaded).
type FileInput struct {
	FileName string
	URI      string
}

// IsReference reports whether the input points at an already stored file.
func (f FileInput) IsReference() bool {
	return strings.HasPrefix(f.URI, "http://") || strings.HasPrefix(f.URI, "https://")
}

// CreateProductInput carries a vendor's new product.
type CreateProductInput struct {
	Name        string
	Description string
	Images      []FileInput
	Price       float64
	PriceMax    *float64
	Currency    Currency
	Category    ProductCategory
}

// Validate checks the input and fills in the default category.
func (in *CreateProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return Invalidf("product name and description are required")
	}
	if in.Category == "" {
		in.Category = CategoryOthers
	}
	if !in.Category.IsValid() {
		return Invalidf("please provide a valid product category")
	}
	if in.Currency != "" && !in.Currency.IsValid() {
		return Invalidf("please provide a valid currency")
	}
	return validatePrice(in.Price, in.PriceMax)
}

// UpdateProductInput carries optional product edits. Code and vendor are never editable.
type UpdateProductInput struct {
	ID          primitive.ObjectID
	Name        *string
	Description *string
	Images      []FileInput
	Price       *float64
	PriceMax    *float64
	Currency    *Currency
	Category    *ProductCategory
}

// Apply copies the present fields onto p, leaving images to the caller.
func (in UpdateProductInput) Apply(p *Product) error {
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Invalidf("product name cannot be empty")
		}
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		if !in.Category.IsValid() {
			return Invalidf("please provide a valid product category")
		}
		p.Category = *in.Category
	}
	if in.Currency != nil {
		if !in.Currency.IsValid() {
			return Invalidf("please provide a valid currency")
		}
		p.Currency = *in.Currency
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.PriceMax != nil {
		p.PriceMax = in.PriceMax
	}
	return validatePrice(p.Price, p.PriceMax)
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	PageRequest
	Categories []ProductCategory
}

// Validate rejects unknown categories.
func (f ProductFilter) Validate() error {
	for _, c := range f.Categories {
		if !c.IsValid() {
			return Invalidf("please provide a valid product category array")
		}
	}
	return nil
}

func validatePrice(price float64, priceMax *float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Invalidf("please provide a valid price")
	}
	if priceMax != nil {
		if math.IsNaN(*priceMax) || math.IsInf(*priceMax, 0) || *priceMax < price {
			return Invalidf("please provide a valid maximum price")
		}
	}
	return nil
}

// ProductFolder is the storage prefix holding every object of a product.
func ProductFolder(id primitive.ObjectID) string {
	return "products/" + id.Hex()
}

// UserFolder is the storage prefix holding every object of a user.
func UserFolder(id primitive.ObjectID) string {
	return "users/" + id.Hex()
}

// AvatarKey is the storage key of a user's avatar.
func AvatarKey(id primitive.ObjectID) string {
	return UserFolder(id) + "/avatar"
}
