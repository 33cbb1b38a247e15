// Package catalog loads the predefined prompt category list from a YAML
// file. The full category set exposed by the API is the union of this
// catalog and the categories present in the requester's own prompts.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultCategories is used when no catalog file is configured or present.
var DefaultCategories = []string{
	"analysis",
	"coding",
	"education",
	"marketing",
	"productivity",
	"writing",
	"other",
}

// catalogFile is the on-disk YAML shape.
type catalogFile struct {
	Categories []string `yaml:"categories"`
}

// Load reads the category catalog from path. A missing file is not an
// error; the defaults are returned. An empty or malformed file is an error
// since it indicates a broken deployment rather than an absent one.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), DefaultCategories...), nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("catalog %s lists no categories", path)
	}

	return f.Categories, nil
}

// Merge returns the sorted, de-duplicated union of the predefined catalog
// and the given user categories. Empty strings are dropped.
func Merge(predefined, userCategories []string) []string {
	seen := make(map[string]struct{}, len(predefined)+len(userCategories))
	var merged []string
	for _, lists := range [][]string{predefined, userCategories} {
		for _, c := range lists {
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			merged = append(merged, c)
		}
	}
	sort.Strings(merged)
	return merged
}
