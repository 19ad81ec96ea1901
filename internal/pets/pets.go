// ABOUTME: Pet document model with versioned JSON storage codec
// ABOUTME: Wire format keeps the original Spanish field names for compatibility

package pets

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion is the current version tag written into every stored pet
// document. FromStorage upgrades older payloads lazily on read.
const SchemaVersion = 1

// Skill is an ability a pet unlocks as it levels.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Element     string `json:"element,omitempty"`
	UnlockedAt  int    `json:"unlocked_at"`
}

// InventoryItem is a single owned item inside a pet's inventory.
type InventoryItem struct {
	Name string `json:"name"`
}

// Pet is one collectible creature owned by a user. The JSON tags are the
// persisted wire format shared with the mirror store.
type Pet struct {
	SchemaVersion   int             `json:"schema_version"`
	Species         string          `json:"tipo"`
	Rarity          string          `json:"clase"`
	Element         string          `json:"elemento"`
	Emoji           string          `json:"emoji"`
	Level           int             `json:"nivel"`
	Experience      int             `json:"experiencia"`
	Hunger          int             `json:"hambre"`
	Energy          int             `json:"energía"`
	Happiness       int             `json:"felicidad"`
	Health          int             `json:"salud"`
	MaxEnergy       int             `json:"max_energía"`
	MaxHealth       int             `json:"max_salud"`
	Status          string          `json:"estado"`
	LastInteraction time.Time       `json:"última_interacción"`
	Skills          []Skill         `json:"habilidades"`
	Inventory       []InventoryItem `json:"inventario"`
	RareTicket      bool            `json:"ticket_raro,omitempty"`
}

// Collection maps pet name to pet document for a single owner.
type Collection map[string]*Pet

// Clamp enforces the vital bounds: health and energy never exceed their
// maximums, and no vital drops below zero.
func (p *Pet) Clamp() {
	if p.Energy > p.MaxEnergy {
		p.Energy = p.MaxEnergy
	}
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	if p.Happiness > 100 {
		p.Happiness = 100
	}
	for _, v := range []*int{&p.Hunger, &p.Energy, &p.Happiness, &p.Health} {
		if *v < 0 {
			*v = 0
		}
	}
}

// HasItem reports whether the pet's inventory contains the named item.
func (p *Pet) HasItem(name string) bool {
	for _, it := range p.Inventory {
		if it.Name == name {
			return true
		}
	}
	return false
}

// RemoveItem removes one unit of the named item from the inventory.
// It reports whether an item was removed.
func (p *Pet) RemoveItem(name string) bool {
	for i, it := range p.Inventory {
		if it.Name == name {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// ToStorage serializes the pet with the current schema version tag.
func (p *Pet) ToStorage() ([]byte, error) {
	p.SchemaVersion = SchemaVersion
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling pet document: %w", err)
	}
	return data, nil
}

// FromStorage deserializes a stored pet document, upgrading older payload
// versions in place.
func FromStorage(data []byte) (*Pet, error) {
	var p Pet
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling pet document: %w", err)
	}
	if p.SchemaVersion < SchemaVersion {
		upgrade(&p)
	}
	return &p, nil
}

// upgrade brings a version-0 document (written before the version tag
// existed) up to the current shape.
func upgrade(p *Pet) {
	if p.MaxEnergy == 0 {
		p.MaxEnergy = p.Energy
		if p.MaxEnergy == 0 {
			p.MaxEnergy = 80
		}
	}
	if p.MaxHealth == 0 {
		p.MaxHealth = 100
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Status == "" {
		p.Status = "activo"
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Inventory == nil {
		p.Inventory = []InventoryItem{}
	}
	p.SchemaVersion = SchemaVersion
}
