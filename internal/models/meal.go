package models

// Meal groups recipes eaten together
type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Recipes     []Recipe `json:"recipes,omitempty"`
}

// Instructions returns the meal's combined instruction list in recipe order.
// Every instruction appears once: a recipe listed twice contributes its steps
// only the first time, so step numbers match the schedulable set.
func (m Meal) Instructions() []InstructionRef {
	var refs []InstructionRef
	seen := make(map[string]bool)
	for _, r := range m.Recipes {
		for _, in := range r.Instructions {
			ref := InstructionRef{
				ID:       in.ID,
				RecipeID: r.ID,
				Step:     in.Step,
				Text:     in.Text,
			}
			if seen[ref.Key()] {
				continue
			}
			seen[ref.Key()] = true
			refs = append(refs, ref)
		}
	}
	return refs
}
