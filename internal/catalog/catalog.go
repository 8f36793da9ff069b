// Package catalog opens data catalogs from local paths and remote URLs.
//
// A catalog is a YAML document listing named data sources:
//
//	name: optional
//	description: optional
//	metadata: {...}
//	sources:
//	  trips:
//	    driver: csv
//	    args: {urlpath: trips.csv}
//
// When the document carries no name, the catalog is named after the stem of
// the location's last path segment.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"catadder/internal/errors"

	"gopkg.in/yaml.v3"
)

// Source describes one data source entry of a catalog
type Source struct {
	Name        string                 `yaml:"-"`
	Driver      string                 `yaml:"driver"`
	Description string                 `yaml:"description"`
	Args        map[string]interface{} `yaml:"args"`
	Metadata    map[string]interface{} `yaml:"metadata"`
}

// Catalog is a named collection of data source descriptions
type Catalog struct {
	Name        string
	Description string
	Version     int
	Location    string
	Metadata    map[string]interface{}
	Sources     []Source
}

// Source returns the source with the given name
func (c *Catalog) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// OpenFunc opens the catalog at location
type OpenFunc func(ctx context.Context, location string) (*Catalog, error)

type document struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Version     int                    `yaml:"version"`
	Metadata    map[string]interface{} `yaml:"metadata"`
	Sources     map[string]Source      `yaml:"sources"`
}

// Parse decodes a catalog document read from location
func Parse(data []byte, location string) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewCatalogError("invalid catalog", location, errors.InvalidCatalog, err)
	}

	cat := &Catalog{
		Name:        doc.Name,
		Description: doc.Description,
		Version:     doc.Version,
		Location:    location,
		Metadata:    doc.Metadata,
		Sources:     make([]Source, 0, len(doc.Sources)),
	}
	if cat.Name == "" {
		cat.Name = NameFromLocation(location)
	}

	for name, src := range doc.Sources {
		if strings.TrimSpace(src.Driver) == "" {
			return nil, errors.NewCatalogError("invalid catalog", location, errors.InvalidCatalog,
				fmt.Errorf("source %q has no driver", name))
		}
		src.Name = name
		cat.Sources = append(cat.Sources, src)
	}
	sort.Slice(cat.Sources, func(i, j int) bool {
		return cat.Sources[i].Name < cat.Sources[j].Name
	})

	return cat, nil
}

// NameFromLocation derives a catalog name from the stem of the last path
// segment of a file path or URL. It returns "" when the location ends in a
// separator or has no usable segment.
func NameFromLocation(location string) string {
	p := location
	if u, err := url.Parse(location); err == nil && isURLScheme(u.Scheme) {
		p = u.Path
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// isURLScheme reports whether scheme looks like a URL scheme rather than a
// Windows drive letter.
func isURLScheme(scheme string) bool {
	return len(scheme) > 1
}
