// ABOUTME: Static pet catalog: rarities, species, elements, shop items
// ABOUTME: Values match the live game balance; names stay in Spanish on the wire

package pets

import (
	"math/rand/v2"
	"time"
)

// Rarity classes in ascending order of value.
const (
	RarityCommon    = "Común"
	RarityUncommon  = "Poco Común"
	RarityRare      = "Raro"
	RarityEpic      = "Épico"
	RarityLegendary = "Legendario"
	RarityMythic    = "Mítico"
	RarityUniversal = "Universal"
)

// RarityInfo describes the game balance of one rarity class.
type RarityInfo struct {
	Probability    float64
	StatMultiplier float64
	XPNeeded       int
	Emoji          string
}

// Rarities holds the balance table for every rarity class.
var Rarities = map[string]RarityInfo{
	RarityCommon:    {Probability: 0.40, StatMultiplier: 1.0, XPNeeded: 100, Emoji: "🔵"},
	RarityUncommon:  {Probability: 0.25, StatMultiplier: 1.1, XPNeeded: 110, Emoji: "🟢"},
	RarityRare:      {Probability: 0.15, StatMultiplier: 1.2, XPNeeded: 120, Emoji: "🔵"},
	RarityEpic:      {Probability: 0.10, StatMultiplier: 1.3, XPNeeded: 130, Emoji: "🟣"},
	RarityLegendary: {Probability: 0.05, StatMultiplier: 1.5, XPNeeded: 140, Emoji: "🟠"},
	RarityMythic:    {Probability: 0.04, StatMultiplier: 1.8, XPNeeded: 150, Emoji: "🔴"},
	RarityUniversal: {Probability: 0.01, StatMultiplier: 2.0, XPNeeded: 200, Emoji: "⚫"},
}

// ValidRarity reports whether the rarity class is part of the fixed
// enumeration.
func ValidRarity(class string) bool {
	_, ok := Rarities[class]
	return ok
}

// NamesByRarity are the adoption name pools per rarity class.
var NamesByRarity = map[string][]string{
	RarityCommon:    {"Bolita", "Chispa", "Pelusín", "Nubi", "Tico", "Moti", "Lilo", "Coco", "Pufi", "Rulo"},
	RarityUncommon:  {"Zippy", "Bruma", "Tinta", "Glim", "Nekozo", "Floppi", "Quibi", "Sombrax", "Lixie", "Vento"},
	RarityRare:      {"Drakko", "Lumora", "Hexin", "Zoriel", "Pyxie", "Orbix", "Vayla", "Kuroko", "Nimbra", "Tundrix"},
	RarityEpic:      {"Ignarok", "Sylphora", "Thundrax", "Cryonix", "Velkyr", "Arkanis", "Zephira", "Umbros", "Solvane", "Glacior"},
	RarityLegendary: {"Fenrion", "Aetherion", "Drakzeth", "Lunaris", "Obscurion", "Valtor", "Nyxara", "Chronox", "Seraphyx", "Eldrath"},
	RarityMythic:    {"Xelvyr", "Omnira", "Kaelith", "Zenthros", "Myrrhax", "Ecliptor", "Veylun", "Thalmyra", "Orakion", "Quorvex"},
	RarityUniversal: {"Infinyx", "Cosmiral", "Nexora", "Eternyx", "Solithar", "Beethoven"},
}

// SpeciesInfo describes one species and its base vitals.
type SpeciesInfo struct {
	Emoji         string
	BaseHunger    int
	BaseEnergy    int
	BaseHappiness int
	BaseHealth    int
	Element       string
}

// Species holds the species table.
var Species = map[string]SpeciesInfo{
	"canino":    {Emoji: "🐶", BaseHunger: 50, BaseEnergy: 80, BaseHappiness: 70, BaseHealth: 100, Element: "tierra"},
	"felino":    {Emoji: "🐱", BaseHunger: 60, BaseEnergy: 70, BaseHappiness: 80, BaseHealth: 90, Element: "psíquico"},
	"dragón":    {Emoji: "🐲", BaseHunger: 40, BaseEnergy: 90, BaseHappiness: 60, BaseHealth: 120, Element: "dragón"},
	"ave":       {Emoji: "🦜", BaseHunger: 70, BaseEnergy: 60, BaseHappiness: 90, BaseHealth: 80, Element: "planta"},
	"conejo":    {Emoji: "🐰", BaseHunger: 55, BaseEnergy: 85, BaseHappiness: 85, BaseHealth: 95, Element: "eléctrico"},
	"universal": {Emoji: "🌈", BaseHunger: 30, BaseEnergy: 100, BaseHappiness: 100, BaseHealth: 150, Element: "universal"},
}

// Elements lists every element a pet can carry.
var Elements = []string{
	"fuego", "agua", "planta", "eléctrico", "hielo",
	"tierra", "psíquico", "oscuridad", "luz", "dragón", "universal",
}

// EffectKind identifies the fixed effect an item applies when used.
type EffectKind int

const (
	EffectRestoreEnergy EffectKind = iota
	EffectBoostHappiness
	EffectRestoreHealth
	EffectGrantXP
	EffectGrantCoins
	EffectRarePet
	EffectRerollElement
	EffectRareTicket
)

// Item is a purchasable shop item with a fixed effect.
type Item struct {
	Cost     int
	Emoji    string
	Effect   EffectKind
	Amount   int
	Cooldown time.Duration
}

const defaultItemCooldown = 30 * time.Minute

// ShopItems are the standard consumables.
var ShopItems = map[string]Item{
	"Poción de Energía": {Cost: 50, Emoji: "⚗️", Effect: EffectRestoreEnergy, Amount: 50, Cooldown: defaultItemCooldown},
	"Juguete Mágico":    {Cost: 30, Emoji: "🧸", Effect: EffectBoostHappiness, Amount: 20, Cooldown: defaultItemCooldown},
	"Medicina Especial": {Cost: 60, Emoji: "💊", Effect: EffectRestoreHealth, Amount: 50, Cooldown: defaultItemCooldown},
	"Impulso de XP":     {Cost: 80, Emoji: "📈", Effect: EffectGrantXP, Amount: 100, Cooldown: defaultItemCooldown},
	"Moneda Dorada":     {Cost: 100, Emoji: "💰", Effect: EffectGrantCoins, Amount: 50, Cooldown: defaultItemCooldown},
}

// RareItems are the special high-value items.
var RareItems = map[string]Item{
	"Caja Misteriosa":  {Cost: 200, Emoji: "🎁", Effect: EffectRarePet, Cooldown: defaultItemCooldown},
	"Piedra Elemental": {Cost: 150, Emoji: "💎", Effect: EffectRerollElement, Cooldown: defaultItemCooldown},
	"Ticket Raro":      {Cost: 120, Emoji: "🎟️", Effect: EffectRareTicket, Cooldown: defaultItemCooldown},
}

// LookupItem finds an item in either the shop or rare tables.
func LookupItem(name string) (Item, bool) {
	if it, ok := ShopItems[name]; ok {
		return it, true
	}
	it, ok := RareItems[name]
	return it, ok
}

// RandomElement picks a uniformly random element.
func RandomElement() string {
	return Elements[rand.IntN(len(Elements))]
}

// NewRandom creates a fresh level-1 pet of the given rarity and returns its
// name drawn from the rarity pool. The species is random except for Universal
// rarity, which always yields the universal species. Vitals are the species
// base stats scaled by the rarity's stat multiplier; the element comes from
// the species table.
func NewRandom(rarity string) (string, *Pet) {
	names := NamesByRarity[rarity]
	if len(names) == 0 {
		rarity = RarityCommon
		names = NamesByRarity[rarity]
	}
	name := names[rand.IntN(len(names))]

	kind := "universal"
	if rarity != RarityUniversal {
		kinds := make([]string, 0, len(Species))
		for k := range Species {
			kinds = append(kinds, k)
		}
		kind = kinds[rand.IntN(len(kinds))]
	}
	info := Species[kind]

	mult := Rarities[rarity].StatMultiplier
	scaled := func(base int) int { return int(float64(base) * mult) }

	return name, &Pet{
		SchemaVersion:   SchemaVersion,
		Species:         kind,
		Rarity:          rarity,
		Element:         info.Element,
		Emoji:           info.Emoji,
		Level:           1,
		Experience:      0,
		Hunger:          scaled(info.BaseHunger),
		Energy:          scaled(info.BaseEnergy),
		Happiness:       scaled(info.BaseHappiness),
		Health:          scaled(info.BaseHealth),
		MaxEnergy:       scaled(info.BaseEnergy),
		MaxHealth:       scaled(info.BaseHealth),
		Status:          "activo",
		LastInteraction: time.Now().UTC(),
		Skills:          []Skill{},
		Inventory:       []InventoryItem{},
	}
}
