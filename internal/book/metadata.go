package book

// SeriesInfo names an optional series and the book's position in it.
type SeriesInfo struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Contributor is a co-author or other credited contributor.
type Contributor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// BISACCategory is a subject classification with its standard code.
type BISACCategory struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CoverSpecs carries the portal's cover requirements, echoed back by the
// metadata stage so the operator can verify them.
type CoverSpecs struct {
	Outer string `json:"outer"`
	Inner string `json:"inner"`
}

// DistMetadata is the Record reshaped into the publishing portal's field
// set. It is generated independently by the metadata stage and is not
// guaranteed consistent with the Record unless regenerated from it.
type DistMetadata struct {
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle"`
	Series          SeriesInfo      `json:"series"`
	Author          string          `json:"author"`
	Contributors    []Contributor   `json:"contributors"`
	PublicationYear int             `json:"publication_year"`
	Language        string          `json:"language"`
	AgeRating       string          `json:"age_rating"`
	Synopsis        string          `json:"synopsis"`
	Keywords        string          `json:"keywords"`
	BISACCategories []BISACCategory `json:"bisac_categories"`
	ThemaCategory   string          `json:"thema_category,omitempty"`
	CoverSpecs      CoverSpecs      `json:"cover_specs"`
	PriceUSD        float64         `json:"suggested_price_usd"`
	PriceEUR        float64         `json:"suggested_price_eur"`
	UserRights      string          `json:"user_rights"`
	PublicDomain    string          `json:"public_domain"`
	AdultContent    string          `json:"adult_content"`
}
