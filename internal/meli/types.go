package meli

// Item represents a single result from the /sites/{site}/search endpoint.
type Item struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Subtitle   string      `json:"subtitle,omitempty"`
	Price      float64     `json:"price"`
	CurrencyID string      `json:"currency_id"`
	Thumbnail  string      `json:"thumbnail"`
	Permalink  string      `json:"permalink"`
	Condition  string      `json:"condition"`
	CategoryID string      `json:"category_id"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute holds a MercadoLibre item or product attribute.
type Attribute struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ValueName string `json:"value_name"`
}

// CategorySuggestion is one entry of the domain discovery response.
type CategorySuggestion struct {
	DomainID     string `json:"domain_id"`
	DomainName   string `json:"domain_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// CatalogProduct is a catalog product from /products/{id} or /products/search.
type CatalogProduct struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	DomainID   string      `json:"domain_id,omitempty"`
	Permalink  string      `json:"permalink"`
	Pictures   []Picture   `json:"pictures,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Picture holds a catalog product picture.
type Picture struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProductItem is an active listing of a catalog product.
type ProductItem struct {
	ItemID     string  `json:"item_id"`
	Price      float64 `json:"price"`
	CurrencyID string  `json:"currency_id"`
	Condition  string  `json:"condition,omitempty"`
}

// User is the account that owns the current access token.
type User struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	SiteID    string `json:"site_id"`
	Permalink string `json:"permalink,omitempty"`
}

type apiPaging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type searchAPIResponse struct {
	SiteID  string     `json:"site_id"`
	Results []Item     `json:"results"`
	Paging  *apiPaging `json:"paging"`
}

type catalogSearchResponse struct {
	Results []CatalogProduct `json:"results"`
}

type productItemsResponse struct {
	Results []ProductItem `json:"results"`
}
