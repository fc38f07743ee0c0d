// Package catalog holds the static storefront content: the product collection
// and the editorial journal. Content is loaded once at startup and never mutated.
package catalog

// Provenance is the supply-chain record shown in a product's digital passport.
type Provenance struct {
	Origin          string   `yaml:"origin" json:"origin"`
	Materials       []string `yaml:"materials" json:"materials"`
	CarbonFootprint string   `yaml:"carbon_footprint" json:"carbon_footprint"`
	Artisan         string   `yaml:"artisan" json:"artisan"`
}

// Product is a single archive piece. Price is in whole currency units.
type Product struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Designer    string     `yaml:"designer" json:"designer"`
	Year        string     `yaml:"year" json:"year"`
	Price       int64      `yaml:"price" json:"price"`
	Description string     `yaml:"description" json:"description"`
	Image       string     `yaml:"image" json:"image"`
	Details     []string   `yaml:"details" json:"details"`
	Provenance  Provenance `yaml:"provenance" json:"provenance"`
}

// Collection is an ordered group of products.
type Collection struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Products    []Product `yaml:"products"`
}

// BlockKind identifies how an article block is rendered.
type BlockKind string

const (
	BlockHeader    BlockKind = "header"
	BlockParagraph BlockKind = "paragraph"
	BlockQuote     BlockKind = "quote"
	BlockImage     BlockKind = "image"
	BlockProduct   BlockKind = "product"
)

// Valid reports whether k is a known block kind.
func (k BlockKind) Valid() bool {
	switch k {
	case BlockHeader, BlockParagraph, BlockQuote, BlockImage, BlockProduct:
		return true
	}
	return false
}

// Block is one unit of article content. ProductID is set for product blocks,
// Alt optionally for image blocks.
type Block struct {
	Kind      BlockKind `yaml:"type"`
	Content   string    `yaml:"content"`
	ProductID string    `yaml:"product_id,omitempty"`
	Alt       string    `yaml:"alt,omitempty"`
}

// Article is a journal issue.
type Article struct {
	ID          string  `yaml:"id"`
	IssueNumber string  `yaml:"issue_number"`
	Title       string  `yaml:"title"`
	Subtitle    string  `yaml:"subtitle"`
	Date        string  `yaml:"date"`
	CoverImage  string  `yaml:"cover_image"`
	Blocks      []Block `yaml:"blocks"`
}

// PassportScore is one axis of the digital product passport chart.
type PassportScore struct {
	Subject string
	Score   int
	Max     int
}

// PassportScores returns the fixed passport axes shown beside every product.
func PassportScores() []PassportScore {
	return []PassportScore{
		{Subject: "Sustainability", Score: 90, Max: 100},
		{Subject: "Durability", Score: 98, Max: 100},
		{Subject: "Craft", Score: 95, Max: 100},
		{Subject: "Recyclability", Score: 85, Max: 100},
		{Subject: "Material", Score: 92, Max: 100},
	}
}
