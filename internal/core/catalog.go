package core

// CatalogKind 目錄資源種類
type CatalogKind string

const (
	CatalogHotel   CatalogKind = "hotel"
	CatalogResort  CatalogKind = "resort"
	CatalogTour    CatalogKind = "tour"
	CatalogPackage CatalogKind = "package"
	CatalogRental  CatalogKind = "rental"
	CatalogService CatalogKind = "service"
)

const DefaultCurrency = "INR"

// CatalogQuery 列表查詢條件，所有欄位皆可省略
type CatalogQuery struct {
	Kind     string   `form:"type"`
	Category string   `form:"category"`
	Search   string   `form:"q"`
	City     string   `form:"city"`
	State    string   `form:"state"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	MinDays  *int     `form:"minDays" validate:"omitempty,gte=0"`
	MaxDays  *int     `form:"maxDays" validate:"omitempty,gte=0"`
	Active   *bool    `form:"active"`
}
