package models

// Selection is the change-set produced when the current branch changes.
// Deactivated is empty when nothing was selected before.
type Selection struct {
	Deactivated string `json:"deactivated,omitempty"`
	Activated   string `json:"activated"`
}

// Changed returns true if a different branch became current
func (s Selection) Changed() bool {
	return s.Deactivated != s.Activated
}
