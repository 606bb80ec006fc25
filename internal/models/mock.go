package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed mockdata/catalog.yaml
var mockCatalogYAML []byte

// ParseCatalogYAML decodes a catalog document and sorts its movies.
func ParseCatalogYAML(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if c.Settings == (Settings{}) {
		c.Settings = DefaultSettings()
	}
	c.SortMovies()
	return c, nil
}

// MockCatalog returns the bundled demo catalog.
func MockCatalog() Catalog {
	c, err := ParseCatalogYAML(mockCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}
