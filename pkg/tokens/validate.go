package tokens

import "fmt"

// Validate reports every structural problem of a decoded token document:
// categories and tokens that are not objects, and tokens without a value.
// It never stops at the first problem and never modifies raw.
// Messages are ordered by category, then token name.
func Validate(raw map[string]any) []string {
	var errs []string

	for _, category := range sortedKeys(raw) {
		toks, ok := raw[category].(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Category '%s' must be a dictionary", category))
			continue
		}

		for _, name := range sortedKeys(toks) {
			tok, ok := toks[name].(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("Token '%s' in '%s' must be a dictionary", name, category))
				continue
			}

			if _, ok := tok["value"]; !ok {
				errs = append(errs, fmt.Sprintf("Token '%s' in '%s' missing 'value' field", name, category))
			}
		}
	}

	return errs
}
