package publish

// Field identifies one element of the portal publishing form.
type Field string

const (
	FieldAddBook     Field = "add_book"
	FieldEmail       Field = "email"
	FieldPassword    Field = "password"
	FieldLoginSubmit Field = "login_submit"

	FieldTitle           Field = "title"
	FieldSubtitle        Field = "subtitle"
	FieldAuthor          Field = "author"
	FieldLanguage        Field = "language"
	FieldPublicationYear Field = "publication_year"
	FieldAgeRating       Field = "age_rating"
	FieldSynopsis        Field = "synopsis"
	FieldKeywords        Field = "keywords"
	FieldCategory        Field = "category"
	FieldCoverUpload     Field = "cover_upload"
	FieldBookUpload      Field = "book_upload"
	FieldPriceUSD        Field = "price_usd"
	FieldPriceEUR        Field = "price_eur"
	FieldSubmit          Field = "submit"
)

// fieldSelectors lists candidate selectors per field, tried in order
// until one matches. Portal markup drifts between releases, so each
// field carries the variants seen so far. Entries starting with "//"
// are XPath, the rest are CSS.
var fieldSelectors = map[Field][]string{
	FieldAddBook: {
		`a[href*="add"]`,
		`//button[contains(., "Add New Book")]`,
		`//a[contains(., "Add New Book")]`,
		`//button[contains(., "New Book")]`,
		`//a[contains(., "New Book")]`,
		`[data-testid="add-book"]`,
	},
	FieldEmail:       {`input[name="email"]`},
	FieldPassword:    {`input[name="password"]`},
	FieldLoginSubmit: {`button[type="submit"]`},

	FieldTitle:           {`input[name="title"]`},
	FieldSubtitle:        {`input[name="subtitle"]`},
	FieldAuthor:          {`input[name="author"]`},
	FieldLanguage:        {`select[name="language"]`},
	FieldPublicationYear: {`input[name="publication_year"]`},
	FieldAgeRating:       {`select[name="age_rating"]`},
	FieldSynopsis: {
		`textarea[name="description"]`,
		`textarea[name="synopsis"]`,
		`textarea[name="summary"]`,
		`[data-testid="description"]`,
		`textarea[placeholder*="description"]`,
		`textarea[placeholder*="synopsis"]`,
	},
	FieldKeywords: {
		`input[name="keywords"]`,
		`textarea[name="keywords"]`,
		`[data-testid="keywords"]`,
		`input[placeholder*="keyword"]`,
	},
	FieldCategory: {
		`select[name="category"]`,
		`select[name="primary_category"]`,
		`select[name="bisac_category"]`,
		`[data-testid="category-select"]`,
	},
	FieldCoverUpload: {
		`input[name="cover"]`,
		`input[name="cover_image"]`,
		`[data-testid="cover-upload"]`,
		`input[accept*="image"]`,
		`input[type="file"]`,
	},
	FieldBookUpload: {
		`input[name="epub"]`,
		`input[name="epub_file"]`,
		`input[accept*="epub"]`,
		`[data-testid="book-upload"]`,
		`input[type="file"]`,
	},
	FieldPriceUSD: {
		`input[name="price_usd"]`,
		`input[name="usd_price"]`,
		`input[placeholder*="USD"]`,
		`[data-testid="usd-price"]`,
	},
	FieldPriceEUR: {
		`input[name="price_eur"]`,
		`input[name="eur_price"]`,
		`input[placeholder*="EUR"]`,
		`[data-testid="eur-price"]`,
	},
	FieldSubmit: {
		`//button[contains(., "Publish")]`,
		`//button[contains(., "Submit")]`,
		`[data-testid="publish-button"]`,
		`button[type="submit"]`,
	},
}

// Selectors returns the candidate selectors for a field.
func Selectors(f Field) []string {
	return fieldSelectors[f]
}
