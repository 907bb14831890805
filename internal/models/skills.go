package models

import (
	"fmt"
	"strings"
	"time"
)

// OtherSkillPrefix marks selections typed in free-text mode rather than
// picked from the catalog. The accounts service recognizes the prefix
// and routes such entries through moderation.
const OtherSkillPrefix = "other_"

// SkillEntry is a single selected skill. Catalog picks carry the
// catalog id; free-text entries carry a synthetic "other_<timestamp>"
// id and keep the typed name verbatim.
type SkillEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsOther reports whether the entry came from free-text input.
func (e SkillEntry) IsOther() bool {
	return strings.HasPrefix(e.ID, OtherSkillPrefix)
}

// SkillSelection is an ordered, duplicate-free list of selected skills.
// Catalog entries deduplicate by id; free-text entries deduplicate by
// exact name against every existing entry, since their synthetic ids
// never collide.
type SkillSelection struct {
	entries []SkillEntry
}

// Add appends a catalog skill. It returns false without modifying the
// selection when a skill with the same id is already present.
func (s *SkillSelection) Add(id, name string) bool {
	for _, e := range s.entries {
		if e.ID == id {
			return false
		}
	}
	s.entries = append(s.entries, SkillEntry{ID: id, Name: name})
	return true
}

// AddOther appends a free-text skill under a synthetic id. The name
// comparison is case sensitive: "SQL" and "sql" are distinct entries.
// It returns false when the exact name is already selected, whether as
// a catalog entry or as a free-text one.
func (s *SkillSelection) AddOther(name string) bool {
	for _, e := range s.entries {
		if e.Name == name {
			return false
		}
	}
	// Millisecond timestamps can collide on fast consecutive adds, so
	// bump until the id is unique within this selection.
	ts := time.Now().UnixMilli()
	id := fmt.Sprintf("%s%d", OtherSkillPrefix, ts)
	for s.containsID(id) {
		ts++
		id = fmt.Sprintf("%s%d", OtherSkillPrefix, ts)
	}
	s.entries = append(s.entries, SkillEntry{ID: id, Name: name})
	return true
}

func (s *SkillSelection) containsID(id string) bool {
	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Remove drops the entry with the given id. It returns false when no
// such entry exists.
func (s *SkillSelection) Remove(id string) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the selection.
func (s *SkillSelection) Clear() {
	s.entries = nil
}

// Entries returns a copy of the selection in insertion order.
func (s *SkillSelection) Entries() []SkillEntry {
	out := make([]SkillEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IDs returns the selected ids in insertion order. This is the shape
// the submission payload carries.
func (s *SkillSelection) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// Len returns the number of selected skills.
func (s *SkillSelection) Len() int {
	return len(s.entries)
}
