// Package catalog maps furniture type names to nominal box sizes. The
// lifecycle driver asks for a size here before running the placement search
// for a newly added item. Built-in sizes cover the common types; a YAML file
// can add or replace entries.
package catalog

import (
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// FurnitureDef is the YAML definition for one furniture type
// (e.g. assets/furniture/catalog.yaml).
type FurnitureDef struct {
	Type string     `yaml:"type"`
	Size [3]float32 `yaml:"size"`
}

// builtins are nominal sizes in meters (width, height, depth).
var builtins = map[string][3]float32{
	"chair": {0.5, 0.9, 0.5},
	"table": {1.2, 0.75, 0.8},
	"sofa":  {2.0, 0.8, 0.9},
	"bed":   {1.6, 0.5, 2.0},
	"lamp":  {0.3, 1.5, 0.3},
	"shelf": {0.8, 1.8, 0.3},
}

// Catalog resolves furniture type names to nominal sizes.
type Catalog struct {
	sizes map[string][3]float32
}

// New returns a catalog with only the built-in types.
func New() *Catalog {
	sizes := make(map[string][3]float32, len(builtins))
	for k, v := range builtins {
		sizes[k] = v
	}
	return &Catalog{sizes: sizes}
}

// Load returns a catalog of the built-ins merged with the defs in the YAML
// file at path. A missing or invalid file yields the built-ins alone, same
// as the engine config loader.
func Load(path string) (*Catalog, error) {
	c := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, nil
	}
	var defs []FurnitureDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return c, nil
	}
	for _, def := range defs {
		if def.Type == "" {
			continue
		}
		c.sizes[def.Type] = def.Size
	}
	return c, nil
}

// NominalSize returns the box size for a furniture type. Unknown types get a
// unit cube so the placement search still has a positive size to work with.
func (c *Catalog) NominalSize(typ string) rl.Vector3 {
	if s, ok := c.sizes[typ]; ok {
		return rl.NewVector3(s[0], s[1], s[2])
	}
	return rl.NewVector3(1, 1, 1)
}

// Types returns the known type names in no particular order.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.sizes))
	for t := range c.sizes {
		out = append(out, t)
	}
	return out
}
