// Package pets defines the pet domain model, the species/rarity/item
// catalogs, and the versioned JSON codec used for storage.
package pets
