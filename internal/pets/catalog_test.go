// ABOUTME: Tests for the static catalog tables and random pet generation
// ABOUTME: Guards the cross-table invariants the generator depends on

package pets

import "testing"

func TestValidRarity(t *testing.T) {
	for _, r := range []string{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic, RarityUniversal} {
		if !ValidRarity(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if ValidRarity("Inventado") {
		t.Error("unknown rarity should be invalid")
	}
	if ValidRarity("") {
		t.Error("empty rarity should be invalid")
	}
}

func TestEveryRarityHasNamePool(t *testing.T) {
	for r := range Rarities {
		if len(NamesByRarity[r]) == 0 {
			t.Errorf("rarity %q has no adoption name pool", r)
		}
	}
}

func TestLookupItem(t *testing.T) {
	if _, ok := LookupItem("Poción de Energía"); !ok {
		t.Error("shop item should be found")
	}
	if _, ok := LookupItem("Caja Misteriosa"); !ok {
		t.Error("rare item should be found")
	}
	if _, ok := LookupItem("Cosa Inexistente"); ok {
		t.Error("unknown item should not be found")
	}
}

func TestAllItemsHaveCooldowns(t *testing.T) {
	for name, it := range ShopItems {
		if it.Cooldown <= 0 {
			t.Errorf("shop item %q has no cooldown", name)
		}
	}
	for name, it := range RareItems {
		if it.Cooldown <= 0 {
			t.Errorf("rare item %q has no cooldown", name)
		}
	}
}

func TestNewRandom(t *testing.T) {
	name, p := NewRandom(RarityRare)
	if name == "" {
		t.Fatal("expected a generated name")
	}
	if p.Rarity != RarityRare {
		t.Errorf("expected rarity %q, got %q", RarityRare, p.Rarity)
	}
	if p.Level != 1 {
		t.Errorf("new pets start at level 1, got %d", p.Level)
	}
	if _, ok := Species[p.Species]; !ok {
		t.Errorf("generated unknown species %q", p.Species)
	}
	if p.Energy != p.MaxEnergy || p.Health != p.MaxHealth {
		t.Errorf("new pets start at full vitals: %+v", p)
	}
	if p.Status != "activo" {
		t.Errorf("expected status activo, got %q", p.Status)
	}

	found := false
	for _, candidate := range NamesByRarity[RarityRare] {
		if candidate == name {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("name %q not drawn from the rare pool", name)
	}
}

func TestNewRandom_AppliesRarityMultiplier(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, p := NewRandom(RarityEpic)
		base := Species[p.Species]
		if want := int(float64(base.BaseHealth) * 1.3); p.Health != want {
			t.Errorf("épico %s health: got %d, want %d (1.3x base %d)", p.Species, p.Health, want, base.BaseHealth)
		}
		if want := int(float64(base.BaseEnergy) * 1.3); p.Energy != want {
			t.Errorf("épico %s energy: got %d, want %d", p.Species, p.Energy, want)
		}
		if want := int(float64(base.BaseHunger) * 1.3); p.Hunger != want {
			t.Errorf("épico %s hunger: got %d, want %d", p.Species, p.Hunger, want)
		}
		if want := int(float64(base.BaseHappiness) * 1.3); p.Happiness != want {
			t.Errorf("épico %s happiness: got %d, want %d", p.Species, p.Happiness, want)
		}
		if p.MaxEnergy != p.Energy || p.MaxHealth != p.Health {
			t.Errorf("maximums must scale with the vitals: %+v", p)
		}
	}
}

func TestNewRandom_CommonKeepsBaseStats(t *testing.T) {
	_, p := NewRandom(RarityCommon)
	base := Species[p.Species]
	if p.Health != base.BaseHealth || p.Energy != base.BaseEnergy {
		t.Errorf("común multiplier is 1.0, stats must equal base: got %+v", p)
	}
}

func TestNewRandom_UniversalRarityForcesUniversalSpecies(t *testing.T) {
	for i := 0; i < 10; i++ {
		_, p := NewRandom(RarityUniversal)
		if p.Species != "universal" {
			t.Fatalf("universal rarity must yield the universal species, got %q", p.Species)
		}
		if p.Element != "universal" {
			t.Errorf("expected universal element, got %q", p.Element)
		}
		// 2.0x the universal base health of 150.
		if p.Health != 300 {
			t.Errorf("expected health 300, got %d", p.Health)
		}
	}
}

func TestNewRandom_ElementComesFromSpecies(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, p := NewRandom(RarityRare)
		if p.Element != Species[p.Species].Element {
			t.Errorf("element %q does not match species %q table entry %q",
				p.Element, p.Species, Species[p.Species].Element)
		}
	}
}

func TestNewRandom_UnknownRarityFallsBackToCommon(t *testing.T) {
	_, p := NewRandom("Inventado")
	if p.Rarity != RarityCommon {
		t.Errorf("expected fallback to %q, got %q", RarityCommon, p.Rarity)
	}
}

func TestRandomElementIsKnown(t *testing.T) {
	e := RandomElement()
	for _, known := range Elements {
		if e == known {
			return
		}
	}
	t.Errorf("RandomElement returned unknown element %q", e)
}
