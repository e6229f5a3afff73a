package entities

// Tracked property keys shared by all auditable entities.
const (
	PropertyID        = "id"
	PropertyCreatedAt = "createdAt"
)

// Property is one tracked column rendered as a string.
type Property struct {
	Key   string
	Value string
}

// Diff returns one changeset entry per property of current. When original is
// nil (a newly added entity) every old value is empty.
func Diff(original, current Auditable) []ChangesetEntry {
	var before map[string]string
	if original != nil {
		props := original.Properties()
		before = make(map[string]string, len(props))
		for _, p := range props {
			before[p.Key] = p.Value
		}
	}

	props := current.Properties()
	entries := make([]ChangesetEntry, 0, len(props))
	for _, p := range props {
		entries = append(entries, ChangesetEntry{
			Key:      p.Key,
			OldValue: before[p.Key],
			NewValue: p.Value,
		})
	}
	return entries
}
