// ABOUTME: Mission progress document nested inside the user account row
// ABOUTME: Progress accrues additively; reward claiming stays with the caller

package hybrid

import (
	"encoding/json"
	"fmt"
)

// Mission categories. Daily missions reset when the day key changes, weekly
// missions when the ISO week key changes.
const (
	MissionCategoryDaily  = "diarias"
	MissionCategoryWeekly = "semanales"
)

// MissionProgress tracks one mission. Claimed is one-way: once a reward is
// granted it never flips back.
type MissionProgress struct {
	Progress int  `json:"progreso"`
	Claimed  bool `json:"reclamada"`
}

// Missions nests progress as category → mission key → progress.
type Missions map[string]map[string]*MissionProgress

func missionsFromStorage(data []byte) (Missions, error) {
	if len(data) == 0 {
		return Missions{}, nil
	}
	var m Missions
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling mission document: %w", err)
	}
	return m, nil
}

func (m Missions) toStorage() ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling mission document: %w", err)
	}
	return data, nil
}

// increment adds amount to a mission's progress, creating the nested
// structure as needed. It grants no rewards; that policy lives with callers.
func (m Missions) increment(category, key string, amount int) {
	cat, ok := m[category]
	if !ok {
		cat = make(map[string]*MissionProgress)
		m[category] = cat
	}
	mp, ok := cat[key]
	if !ok {
		mp = &MissionProgress{}
		cat[key] = mp
	}
	mp.Progress += amount
}

// markClaimed sets the one-way claimed flag on a mission if it exists.
func (m Missions) markClaimed(category, key string) bool {
	if mp, ok := m[category][key]; ok {
		mp.Claimed = true
		return true
	}
	return false
}
