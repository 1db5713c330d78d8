package category

// Category is a product category with how many products carry it.
type Category struct {
	Name         string `json:"name"`
	ProductCount int64  `json:"productCount"`
	InStock      int64  `json:"inStock"`
}
