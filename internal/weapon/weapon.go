// Package weapon classifies CS2 inventory items into coarse weapon classes.
package weapon

import (
	"strings"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// Class is a coarse weapon category. Higher values are more relevant when an
// inventory holds several classes.
type Class int

const (
	Other Class = iota
	Grenade
	Pistol
	Heavy
	SMG
	Rifle
)

func (c Class) String() string {
	switch c {
	case Rifle:
		return "rifle"
	case SMG:
		return "SMG"
	case Heavy:
		return "heavy"
	case Pistol:
		return "pistol"
	case Grenade:
		return "grenade"
	default:
		return "other"
	}
}

// ParseClass maps a class label to a Class. It accepts the labels used by
// awpy frame exports ("Rifle", "SMG", "Pistols", "Heavy", "Grenade",
// "Equipment") as well as the String forms above.
func ParseClass(s string) (Class, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rifle", "rifles", "sniper", "sniper rifle":
		return Rifle, true
	case "smg", "smgs":
		return SMG, true
	case "heavy", "shotgun", "machine gun", "machinegun":
		return Heavy, true
	case "pistol", "pistols":
		return Pistol, true
	case "grenade", "grenades":
		return Grenade, true
	case "other", "equipment", "gear":
		return Other, true
	default:
		return Other, false
	}
}

// Rule maps an item-name substring to a class.
type Rule struct {
	Substring string
	Class     Class
}

// DefaultRules covers the CS2 item names as written by demoinfocs and awpy.
var DefaultRules = []Rule{
	{"AK-47", Rifle}, {"M4A4", Rifle}, {"M4A1", Rifle}, {"AUG", Rifle},
	{"SG 553", Rifle}, {"SG 556", Rifle}, {"FAMAS", Rifle}, {"Galil", Rifle},
	{"AWP", Rifle}, {"SSG 08", Rifle}, {"SCAR-20", Rifle}, {"G3SG1", Rifle},

	{"MP9", SMG}, {"MAC-10", SMG}, {"MP7", SMG}, {"MP5", SMG},
	{"UMP-45", SMG}, {"P90", SMG}, {"PP-Bizon", SMG},

	{"Nova", Heavy}, {"XM1014", Heavy}, {"MAG-7", Heavy}, {"Sawed-Off", Heavy},
	{"M249", Heavy}, {"Negev", Heavy},

	{"Glock", Pistol}, {"USP", Pistol}, {"P2000", Pistol}, {"P250", Pistol},
	{"Five-SeveN", Pistol}, {"Tec-9", Pistol}, {"CZ75", Pistol},
	{"Desert Eagle", Pistol}, {"R8", Pistol}, {"Dual Berettas", Pistol},

	{"Flashbang", Grenade}, {"Smoke", Grenade}, {"HE Grenade", Grenade},
	{"Molotov", Grenade}, {"Incendiary", Grenade}, {"Decoy", Grenade},
}

// Classifier assigns classes to items and inventories. It is immutable and
// safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier using rules in order; the first rule
// whose substring occurs in an item name (case-insensitively) wins.
// A nil or empty rule set falls back to DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	c := &Classifier{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if r.Substring == "" {
			continue
		}
		c.rules = append(c.rules, Rule{Substring: strings.ToLower(r.Substring), Class: r.Class})
	}
	return c
}

// Item classifies a single inventory item. An explicit class recorded by the
// source takes precedence over the name lookup.
func (c *Classifier) Item(it model.Item) Class {
	if it.Class != "" {
		if cl, ok := ParseClass(it.Class); ok {
			return cl
		}
	}
	name := strings.ToLower(it.Name)
	for _, r := range c.rules {
		if strings.Contains(name, r.Substring) {
			return r.Class
		}
	}
	return Other
}

// Inventory returns the most relevant class held and whether any item is a
// rifle or SMG.
func (c *Classifier) Inventory(items []model.Item) (best Class, rifleOrSMG bool) {
	best = Other
	for _, it := range items {
		cl := c.Item(it)
		if cl > best {
			best = cl
		}
		if cl == Rifle || cl == SMG {
			rifleOrSMG = true
		}
	}
	return best, rifleOrSMG
}

// Names wraps plain item names as inventory items.
func Names(names ...string) []model.Item {
	out := make([]model.Item, len(names))
	for i, n := range names {
		out[i] = model.Item{Name: n}
	}
	return out
}
