package submission

import (
	"fmt"
	"strings"
)

// ValidationError names the required fields a submission is missing.
type ValidationError struct {
	Category Category
	Missing  []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate checks that every field the category requires is present. A field is
// present when its value is non-empty after trimming whitespace; nothing else about
// the value is checked. It returns nil or a *ValidationError.
func Validate(category Category, fields map[string]string) error {
	k, ok := kinds[category]
	if !ok {
		return fmt.Errorf("unknown submission category %q", category)
	}

	var missing []string
	for _, name := range k.required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Category: category, Missing: missing}
	}
	return nil
}
