package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"rigid3d/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Material defines the surface and bulk properties of a body.
type Material struct {
	Name        string
	Color       rl.Color
	Friction    float32
	Restitution float32
	Density     float32 // mass per unit volume
}

// materialDef is the JSON format for material files
type materialDef struct {
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Friction    *float32 `json:"friction"`
	Restitution *float32 `json:"restitution"`
	Density     *float32 `json:"density"`
}

// Color name mapping for materials
var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
}

// LookupColor returns a raylib color from a name string
func LookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return rl.White
}

// DefaultMaterial matches the Rigidbody defaults at unit density.
func DefaultMaterial() *Material {
	return &Material{Name: "default", Color: rl.Orange, Friction: 0.5, Restitution: 0.3, Density: 1}
}

// Library holds materials by name. It starts with a few built-ins.
type Library struct {
	materials map[string]*Material
}

func NewLibrary() *Library {
	l := &Library{materials: make(map[string]*Material)}
	for _, m := range []*Material{
		DefaultMaterial(),
		{Name: "rubber", Color: rl.Red, Friction: 0.9, Restitution: 0.8, Density: 1.1},
		{Name: "ice", Color: rl.SkyBlue, Friction: 0.02, Restitution: 0.1, Density: 0.9},
		{Name: "wood", Color: rl.Brown, Friction: 0.6, Restitution: 0.25, Density: 0.7},
		{Name: "steel", Color: rl.LightGray, Friction: 0.4, Restitution: 0.15, Density: 7.8},
	} {
		l.materials[m.Name] = m
	}
	return l
}

func (l *Library) Get(name string) (*Material, bool) {
	m, ok := l.materials[name]
	return m, ok
}

// Names returns the material names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.materials))
	for name := range l.materials {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LoadMaterial reads one material file and adds it to the library, replacing
// any material of the same name. Missing fields take the default material's
// values.
func (l *Library) LoadMaterial(path string) (*Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material: %w", err)
	}

	var def materialDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse material %s: %w", path, err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("material %s has no name", path)
	}

	material := DefaultMaterial()
	material.Name = def.Name
	if def.Color != "" {
		material.Color = LookupColor(def.Color)
	}
	if def.Friction != nil {
		material.Friction = *def.Friction
	}
	if def.Restitution != nil {
		material.Restitution = *def.Restitution
	}
	if def.Density != nil {
		material.Density = *def.Density
	}
	if material.Friction < 0 || material.Restitution < 0 || material.Restitution > 1 || material.Density <= 0 {
		return nil, fmt.Errorf("material %s: out of range values", def.Name)
	}

	l.materials[material.Name] = material
	return material, nil
}

// LoadDir loads every *.json file in dir. Files that fail are reported
// together; the others are still loaded.
func (l *Library) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("list materials: %w", err)
	}
	var errs []error
	for _, path := range paths {
		if _, err := l.LoadMaterial(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Apply copies the surface properties to rb and sets its mass from the
// density and the collider volume.
func (m *Material) Apply(rb *components.Rigidbody, volume float32) {
	rb.Friction = m.Friction
	rb.Restitution = m.Restitution
	if volume > 0 {
		rb.Mass = m.Density * volume
	}
}
