package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProductRequest struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	Category     string  `json:"category,omitempty"`
	DisplayPrice string  `json:"display_price"`
	ImageURL     string  `json:"image_url,omitempty"`
	PurchaseURL  string  `json:"purchase_url,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	ReviewCount  int     `json:"review_count,omitempty"`
}

type ResolveShareURLRequest struct {
	URL string `json:"url"`
}

type ProductResponse struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	Category     string  `json:"category,omitempty"`
	UnitPrice    int64   `json:"unit_price"`
	DisplayPrice string  `json:"display_price"`
	ImageURL     string  `json:"image_url,omitempty"`
	PurchaseURL  string  `json:"purchase_url,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	ReviewCount  int     `json:"review_count,omitempty"`
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
