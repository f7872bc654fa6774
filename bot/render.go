package bot

import "strings"

// Render substitutes $name tokens in a message template. Longer token
// names are replaced first so e.g. $prevBet is not clobbered by a shorter
// prefix token.
func Render(template string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if len(keys[j]) > len(keys[i]) {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for _, k := range keys {
		template = strings.ReplaceAll(template, "$"+k, vars[k])
	}
	return template
}
