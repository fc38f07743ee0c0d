package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidPrice     = errors.New("invalid product price")
	ErrUnknownBlock     = errors.New("unknown block type")
	ErrDanglingProduct  = errors.New("block references unknown product")
	ErrEmptyCollection  = errors.New("collection has no products")
)

// document is the on-disk shape of the catalog file.
type document struct {
	Collection Collection `yaml:"collection"`
	Journal    []Article  `yaml:"journal"`
}

// Catalog is the immutable content set. All accessors return copies or values.
type Catalog struct {
	collection Collection
	journal    []Article
	products   map[string]int
	articles   map[string]int
}

// Default parses the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Load reads a catalog file. An empty path selects the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		collection: doc.Collection,
		journal:    doc.Journal,
		products:   make(map[string]int, len(doc.Collection.Products)),
		articles:   make(map[string]int, len(doc.Journal)),
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	if len(c.collection.Products) == 0 {
		return ErrEmptyCollection
	}
	for i, p := range c.collection.Products {
		if _, dup := c.products[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: %s has price %d", ErrInvalidPrice, p.ID, p.Price)
		}
		c.products[p.ID] = i
	}
	for i, a := range c.journal {
		c.articles[a.ID] = i
		for _, b := range a.Blocks {
			if !b.Kind.Valid() {
				return fmt.Errorf("%w: %q in article %s", ErrUnknownBlock, b.Kind, a.ID)
			}
			if b.Kind == BlockProduct {
				if _, ok := c.products[b.ProductID]; !ok {
					return fmt.Errorf("%w: %q in article %s", ErrDanglingProduct, b.ProductID, a.ID)
				}
			}
		}
	}
	return nil
}

// Title returns the collection title.
func (c *Catalog) Title() string { return c.collection.Title }

// Description returns the collection description.
func (c *Catalog) Description() string { return c.collection.Description }

// Products returns the collection in display order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.collection.Products))
	copy(out, c.collection.Products)
	return out
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.products[id]
	if !ok {
		return Product{}, false
	}
	return c.collection.Products[i], true
}

// Articles returns the journal in issue order.
func (c *Catalog) Articles() []Article {
	out := make([]Article, len(c.journal))
	copy(out, c.journal)
	return out
}

// Article looks up a journal article by id.
func (c *Catalog) Article(id string) (Article, bool) {
	i, ok := c.articles[id]
	if !ok {
		return Article{}, false
	}
	return c.journal[i], true
}

// ProductRefs returns the products referenced by an article, in block order.
func (c *Catalog) ProductRefs(a Article) []Product {
	var refs []Product
	for _, b := range a.Blocks {
		if b.Kind != BlockProduct {
			continue
		}
		if p, ok := c.Product(b.ProductID); ok {
			refs = append(refs, p)
		}
	}
	return refs
}

// Markdown renders an article as Markdown for the journal reader.
func (c *Catalog) Markdown(a Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Issue %s · %s*\n\n", a.IssueNumber, a.Date)
	fmt.Fprintf(&sb, "# %s\n\n", a.Title)
	if a.Subtitle != "" {
		fmt.Fprintf(&sb, "%s\n\n", a.Subtitle)
	}
	for _, b := range a.Blocks {
		switch b.Kind {
		case BlockHeader:
			fmt.Fprintf(&sb, "## %s\n\n", b.Content)
		case BlockParagraph:
			fmt.Fprintf(&sb, "%s\n\n", b.Content)
		case BlockQuote:
			fmt.Fprintf(&sb, "> %s\n\n", b.Content)
		case BlockImage:
			alt := b.Alt
			if alt == "" {
				alt = "image"
			}
			fmt.Fprintf(&sb, "![%s](%s)\n\n", alt, b.Content)
		case BlockProduct:
			p, ok := c.Product(b.ProductID)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "---\n\n**%s** — %s, %s · %s\n\n_%s_\n\n---\n\n",
				p.Name, p.Designer, p.Year, FormatPrice(p.Price), b.Content)
		}
	}
	return sb.String()
}

// FormatPrice renders whole currency units with thousands separators, e.g. $6,495.
func FormatPrice(units int64) string {
	if units < 0 {
		return "-$" + humanize.Comma(-units)
	}
	return "$" + humanize.Comma(units)
}
