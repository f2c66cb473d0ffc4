package weapon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-cs-gamestate/internal/model"
)

func TestInventoryClass(t *testing.T) {
	c := NewClassifier(nil)
	cases := []struct {
		items      []model.Item
		want       Class
		rifleOrSMG bool
	}{
		{Names("AK-47", "Flashbang"), Rifle, true},
		{Names("MP9"), SMG, true},
		{Names("Knife"), Other, false},
		{Names("Glock-18", "Smoke Grenade"), Pistol, false},
		{Names("MP9", "AWP"), Rifle, true},
		{Names("C4 Explosive", "Kevlar Vest"), Other, false},
		{Names("XM1014"), Heavy, false},
		{nil, Other, false},
	}
	for _, tc := range cases {
		got, armed := c.Inventory(tc.items)
		assert.Equal(t, tc.want, got, "inventory %v", tc.items)
		assert.Equal(t, tc.rifleOrSMG, armed, "inventory %v", tc.items)
	}
}

func TestClassStrings(t *testing.T) {
	assert.Equal(t, "rifle", Rifle.String())
	assert.Equal(t, "SMG", SMG.String())
	assert.Equal(t, "other", Other.String())
}

func TestItemNameMatchIsCaseInsensitive(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, Rifle, c.Item(model.Item{Name: "ak-47"}))
	assert.Equal(t, SMG, c.Item(model.Item{Name: "weapon_mp9"}))
}

func TestExplicitClassWins(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, SMG, c.Item(model.Item{Name: "Knife", Class: "SMG"}))
	assert.Equal(t, Pistol, c.Item(model.Item{Name: "AK-47", Class: "Pistols"}))
	// Unknown labels fall back to the name lookup.
	assert.Equal(t, Rifle, c.Item(model.Item{Name: "AK-47", Class: "mystery"}))
}

func TestCustomRules(t *testing.T) {
	c := NewClassifier([]Rule{{Substring: "zeus", Class: SMG}})
	assert.Equal(t, SMG, c.Item(model.Item{Name: "Zeus x27"}))
	assert.Equal(t, Other, c.Item(model.Item{Name: "AK-47"}))
}

func TestParseClass(t *testing.T) {
	for label, want := range map[string]Class{
		"Rifle": Rifle, "SMG": SMG, "Pistols": Pistol, "Heavy": Heavy, "Grenade": Grenade, "Equipment": Other,
	} {
		got, ok := ParseClass(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}
	_, ok := ParseClass("banana")
	assert.False(t, ok)
}
