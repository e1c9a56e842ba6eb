package platform

import (
	"fmt"
	"strings"
)

// modifierAliases maps accepted modifier spellings to their canonical token.
var modifierAliases = map[string]string{
	"cmd":     "cmd",
	"command": "cmd",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"fn":      "fn",
}

// ScrollDirections lists the directions accepted by Inputter.Scroll.
var ScrollDirections = map[string]bool{
	"up":    true,
	"down":  true,
	"left":  true,
	"right": true,
}

// ParseShortcut splits a "+"-joined combo string like "cmd+shift+z" into
// canonical lowercase tokens. Every token except the last must be a known
// modifier; the final token is the key and is passed through as-is.
func ParseShortcut(combo string) ([]string, error) {
	combo = strings.TrimSpace(strings.ToLower(combo))
	if combo == "" {
		return nil, fmt.Errorf("empty shortcut")
	}
	parts := strings.Split(combo, "+")
	tokens := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("invalid shortcut %q: empty token", combo)
		}
		if i < len(parts)-1 {
			mod, ok := modifierAliases[p]
			if !ok {
				return nil, fmt.Errorf("invalid shortcut %q: unknown modifier %q", combo, p)
			}
			tokens = append(tokens, mod)
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens, nil
}
