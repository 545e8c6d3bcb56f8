package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"pos-terminal/models"
)

// defaultProducts is the built-in menu, used when no menu file is configured.
var defaultProducts = []models.Product{
	{ID: 1, Name: "Hamburguesa", Price: 10500, Desc: "Hamburguesa", Image: "/images/burguer_pic.jpg"},
	{ID: 2, Name: "Papas fritas", Price: 12000, Desc: "Papas", Image: "/images/fries_pic.jpg"},
	{ID: 3, Name: "Perro caliente", Price: 8000, Desc: "Perro", Image: "/images/hotdog_pic.jpg"},
	{ID: 4, Name: "Refresco", Price: 7000, Desc: "Refresco", Image: "/images/drink_pic.jpg"},
}

// Catalog is the immutable product menu, loaded once at startup.
type Catalog struct {
	products []models.Product
	byID     map[int]models.Product
}

// Load builds the catalog from a JSON menu file, or from the built-in menu
// when path is empty.
func Load(path string) (*Catalog, error) {
	products := defaultProducts
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read menu file: %w", err)
		}
		products = nil
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("parse menu file: %w", err)
		}
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("menu has no products")
	}

	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product %q has invalid id %d", p.Name, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q has negative price", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{products: products, byID: byID}, nil
}

// Products returns the menu in display order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id.
func (c *Catalog) Get(id int) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
