package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultMenu(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	products := c.Products()
	require.Len(t, products, 4)
	assert.Equal(t, "Hamburguesa", products[0].Name)
	assert.Equal(t, 10500, products[0].Price)

	p, ok := c.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Refresco", p.Name)

	_, ok = c.Get(99)
	assert.False(t, ok)
}

func TestLoadMenuFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	menu := `[
		{"id": 1, "name": "Arepa", "price": 6000, "desc": "Arepa", "image": "/images/arepa.jpg"},
		{"id": 2, "name": "Jugo", "price": 4500, "desc": "Jugo", "image": "/images/jugo.jpg"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(menu), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Products(), 2)

	p, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, 4500, p.Price)
}

func TestLoadRejectsBadMenus(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = Load(write("garbage.json", `{not json`))
	assert.Error(t, err)

	_, err = Load(write("empty.json", `[]`))
	assert.Error(t, err)

	_, err = Load(write("dup.json", `[
		{"id": 1, "name": "A", "price": 100},
		{"id": 1, "name": "B", "price": 200}
	]`))
	assert.Error(t, err)

	_, err = Load(write("badid.json", `[{"id": 0, "name": "A", "price": 100}]`))
	assert.Error(t, err)

	_, err = Load(write("negative.json", `[{"id": 1, "name": "A", "price": -5}]`))
	assert.Error(t, err)
}

func TestProductsReturnsCopy(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	products := c.Products()
	products[0].Name = "mutated"

	assert.Equal(t, "Hamburguesa", c.Products()[0].Name)
}
