package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Product is a catalog entry.
type Product struct {
	ProductID  ID
	GroupID    ID
	CategoryID ID
	Name       string
	ImageURL   string
	URL        string
}

// Key returns the identity of the product.
func (p Product) Key() ProductKey {
	return ProductKey{Category: p.CategoryID, Group: p.GroupID, Product: p.ProductID}
}

// MarshalJSON implements the json.Marshaler interface for Product.
func (p Product) MarshalJSON() ([]byte, error) {
	var w orderedObject
	w.Set("product_id", p.ProductID)
	w.Set("name", p.Name)
	w.Set("group_id", p.GroupID)
	w.SetNonZero("imageUrl", p.ImageURL)
	w.Set("categoryId", p.CategoryID)
	w.SetNonZero("url", p.URL)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Product.
func (p *Product) UnmarshalJSON(data []byte) error {
	var temp struct {
		ProductID  ID     `json:"product_id"`
		GroupID    ID     `json:"group_id"`
		CategoryID ID     `json:"categoryId"`
		Name       string `json:"name"`
		ImageURL   string `json:"imageUrl"`
		URL        string `json:"url"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*p = Product(temp)
	return nil
}

// NewProduct creates the catalog entry for an item seen for the first time.
func NewProduct(item Item) Product {
	name := item.Name
	if name == "" {
		name = fmt.Sprintf("Product %s", item.ProductID)
	}
	return Product{
		ProductID:  item.ProductID,
		GroupID:    item.GroupID,
		CategoryID: item.CategoryID,
		Name:       name,
		ImageURL:   fmt.Sprintf("https://tcgplayer-cdn.tcgplayer.com/product/%s_200w.jpg", item.ProductID),
		URL:        fmt.Sprintf("https://www.tcgplayer.com/product/%s", item.ProductID),
	}
}

// catalogKey is the catalog identity of a product, the category is not part of it.
type catalogKey struct{ group, product ID }

// Catalog is the product directory. Entries are never removed.
type Catalog struct {
	products []Product
	index    map[catalogKey]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[catalogKey]int)}
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	return &Catalog{products: slices.Clone(c.products), index: maps.Clone(c.index)}
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Products returns the entries in file order.
func (c *Catalog) Products() []Product { return slices.Clone(c.products) }

// Lookup returns the product identified by group and product.
func (c *Catalog) Lookup(group, product ID) (Product, bool) {
	i, ok := c.index[catalogKey{group, product}]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Name returns the product name, or its key when it is not in the catalog.
func (c *Catalog) Name(k ProductKey) string {
	if p, ok := c.Lookup(k.Group, k.Product); ok && p.Name != "" {
		return p.Name
	}
	return k.String()
}

// Add appends p unless a product with the same identity exists. It reports
// whether p was added.
func (c *Catalog) Add(p Product) bool {
	k := catalogKey{p.GroupID, p.ProductID}
	if _, ok := c.index[k]; ok {
		return false
	}
	c.index[k] = len(c.products)
	c.products = append(c.products, p)
	return true
}

// Ensure creates the catalog entries missing for the items of tx and returns
// them.
func (c *Catalog) Ensure(tx Transaction) []Product {
	var added []Product
	for _, item := range tx.Lines() {
		p := NewProduct(item)
		if c.Add(p) {
			added = append(added, p)
		}
	}
	return added
}

// Check returns an error wrapping ErrUnknownProduct for the first item of
// txs that is not in the catalog.
func (c *Catalog) Check(txs []Transaction) error {
	for _, tx := range txs {
		for _, item := range tx.Lines() {
			if _, ok := c.Lookup(item.GroupID, item.ProductID); !ok {
				return fmt.Errorf("transaction %s: %w %s", tx.Identifier(), ErrUnknownProduct, item.Key())
			}
		}
	}
	return nil
}

// DecodeCatalog decodes a JSON array of products. Products without category
// get defaultCategory.
func DecodeCatalog(r io.Reader, defaultCategory ID) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := NewCatalog()
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog is not a JSON array of products: %w", err)
	}
	for _, p := range products {
		if p.CategoryID == "" {
			p.CategoryID = defaultCategory
		}
		c.Add(p)
	}
	return c, nil
}

// EncodeCatalog writes the catalog as an indented JSON array.
func EncodeCatalog(w io.Writer, c *Catalog) error {
	products := c.products
	if products == nil {
		products = []Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode catalog: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
