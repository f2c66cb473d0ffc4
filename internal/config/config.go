package config

import (
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-cs-gamestate/internal/geometry"
	"github.com/pable/go-cs-gamestate/internal/source"
	"github.com/pable/go-cs-gamestate/internal/weapon"
)

// Analysis holds everything the CLI needs to build a table and run queries.
type Analysis struct {
	TickRate    float64 `yaml:"tick_rate"`
	SampleEvery int     `yaml:"sample_every"`

	Chokepoint RegionConfig `yaml:"chokepoint"`

	// Query defaults.
	Team        string `yaml:"team"`
	TargetPlace string `yaml:"target_place"`
	MinArmed    int    `yaml:"min_armed"`

	// Source layout.
	Columns source.Columns `yaml:"columns"`
	Table   string         `yaml:"table"`

	// Weapons overrides the default classification table when non-empty.
	Weapons []WeaponRule `yaml:"weapons"`

	Heatmap HeatmapConfig `yaml:"heatmap"`
}

// RegionConfig describes a polygon and height band.
type RegionConfig struct {
	Name     string       `yaml:"name"`
	Vertices [][2]float64 `yaml:"vertices"`
	ZMin     float64      `yaml:"z_min"`
	ZMax     float64      `yaml:"z_max"`
}

// WeaponRule maps an item-name substring to a class label.
type WeaponRule struct {
	Match string `yaml:"match"`
	Class string `yaml:"class"`
}

// HeatmapConfig controls density rendering.
type HeatmapConfig struct {
	Grid   int     `yaml:"grid"`
	Width  float64 `yaml:"width"`  // inches
	Height float64 `yaml:"height"` // inches
	Title  string  `yaml:"title"`
}

// Default returns the configuration used when no file is given: the
// light-blue chokepoint on de_overpass and Team2's B-site questions.
func Default() Analysis {
	return Analysis{
		TickRate:    64,
		SampleEvery: source.DefaultSampleEvery,
		Chokepoint: RegionConfig{
			Name: "chokepoint",
			Vertices: [][2]float64{
				{-1735, 250}, {-2024, 398}, {-2806, 742}, {-2472, 1233}, {-1565, 580},
			},
			ZMin: 285,
			ZMax: 421,
		},
		Team:        "Team2",
		TargetPlace: "BombsiteB",
		MinArmed:    2,
		Columns:     source.DefaultColumns(),
		Heatmap: HeatmapConfig{
			Grid:   100,
			Width:  7,
			Height: 7,
			Title:  "KDE heatmap of BombsiteB",
		},
	}
}

// Load loads configuration from a YAML file over the defaults.
// If path is empty or the file doesn't exist, returns defaults.
func Load(path string) (Analysis, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Region validates and builds the configured region.
func (r RegionConfig) Region() (geometry.Region, error) {
	vs := make([]r2.Point, len(r.Vertices))
	for i, v := range r.Vertices {
		vs[i] = r2.Point{X: v[0], Y: v[1]}
	}
	return geometry.NewRegion(r.Name, vs, r.ZMin, r.ZMax)
}

// Classifier builds the weapon classifier, rejecting unknown class labels.
func (a Analysis) Classifier() (*weapon.Classifier, error) {
	if len(a.Weapons) == 0 {
		return weapon.NewClassifier(nil), nil
	}
	rules := make([]weapon.Rule, 0, len(a.Weapons))
	for _, w := range a.Weapons {
		cl, ok := weapon.ParseClass(w.Class)
		if !ok {
			return nil, fmt.Errorf("weapon rule %q: unknown class %q", w.Match, w.Class)
		}
		rules = append(rules, weapon.Rule{Substring: w.Match, Class: cl})
	}
	return weapon.NewClassifier(rules), nil
}

// SourceOptions returns the options for source.Open.
func (a Analysis) SourceOptions() source.Options {
	return source.Options{Columns: a.Columns, Table: a.Table, SampleEvery: a.SampleEvery}
}
