package dock

// Slot is one icon position in the dock.
type Slot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Index int    `json:"index"`
}

// Reindex returns a copy of slots with Index set to each slot's position.
func Reindex(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		s.Index = i
		out[i] = s
	}
	return out
}

// IndexOf returns the index of the slot with the given id, or -1.
func IndexOf(slots []Slot, id string) int {
	for i, s := range slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}
