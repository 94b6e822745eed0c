package entities

// Question is a single multiple-choice question of a quiz level.
type Question struct {
	Prompt       string   `json:"q" yaml:"q" validate:"required"`
	Options      []string `json:"options" yaml:"options" validate:"min=2,max=6,dive,required"`
	CorrectIndex int      `json:"answer" yaml:"answer" validate:"gte=0"`
}

// IsCorrect reports whether the selected option index is the correct one.
func (q Question) IsCorrect(selected int) bool {
	return selected == q.CorrectIndex
}

// HasOption reports whether index points at one of the question options.
func (q Question) HasOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}
