package schema

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Load returns the default schema, optionally extended by a YAML override
// file. Overrides add aliases and category spellings to existing columns (and
// may append whole new columns) without rebuilding the binary; they cannot
// remove canonical columns.
func Load(path string) (Schema, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, eris.Wrapf(err, "schema: read override %s", path)
	}

	var override Schema
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Schema{}, eris.Wrapf(err, "schema: parse override %s", path)
	}

	return merge(s, override), nil
}

func merge(base, override Schema) Schema {
	for _, oc := range override.Columns {
		idx := -1
		for i, c := range base.Columns {
			if FoldKey(c.Name) == FoldKey(oc.Name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			base.Columns = append(base.Columns, foldCategories(oc))
			continue
		}

		c := base.Columns[idx]
		c.Aliases = append(c.Aliases, oc.Aliases...)
		if len(oc.Categories) > 0 {
			if c.Categories == nil {
				c.Categories = make(map[string]string)
			}
			for k, v := range oc.Categories {
				c.Categories[FoldKey(k)] = v
			}
		}
		base.Columns[idx] = c
	}
	return base
}

// foldCategories normalizes the category keys of a user-supplied column so
// lookup uses the same folding as built-in maps.
func foldCategories(c Column) Column {
	if len(c.Categories) == 0 {
		return c
	}
	folded := make(map[string]string, len(c.Categories))
	for k, v := range c.Categories {
		folded[FoldKey(k)] = v
	}
	c.Categories = folded
	return c
}
