package filter

import (
	"fmt"
	"strings"
)

// Parse builds a filter from a compact expression.
//
// Supported terms, separated by whitespace:
//   - "tier:1000,750" - tier tokens
//   - "city:Tokyo,Paris" - location substrings
//   - "name:Open" - name substrings
//   - "upcoming" - drop finished events
//   - "all" - no tier filtering
//
// An empty expression returns the default tier filter. Tier terms replace the
// default tiers; other terms narrow it.
func Parse(expr string) (*Filter, error) {
	f := Default()
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return f, nil
	}

	tiersSet := false
	for _, term := range strings.Fields(expr) {
		key, value, hasValue := strings.Cut(term, ":")
		key = strings.ToLower(key)

		switch {
		case key == "all" && !hasValue:
			f.Tiers = []string{}
			tiersSet = true
		case key == "upcoming" && !hasValue:
			f.UpcomingOnly = true
		case !hasValue:
			return nil, fmt.Errorf("invalid filter term %q (expected key:value)", term)
		case key == "tier" || key == "tiers":
			list, err := splitList(term, value)
			if err != nil {
				return nil, err
			}
			if !tiersSet {
				f.Tiers = []string{}
				tiersSet = true
			}
			f.Tiers = append(f.Tiers, list...)
		case key == "city" || key == "cities":
			list, err := splitList(term, value)
			if err != nil {
				return nil, err
			}
			f.Cities = append(f.Cities, list...)
		case key == "name" || key == "names":
			list, err := splitList(term, value)
			if err != nil {
				return nil, err
			}
			f.Names = append(f.Names, list...)
		default:
			return nil, fmt.Errorf("unknown filter key %q", key)
		}
	}

	return f, nil
}

func splitList(term, value string) ([]string, error) {
	var out []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("filter term %q has no values", term)
	}
	return out, nil
}
