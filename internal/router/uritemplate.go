// file: internal/router/uritemplate.go
package router

import "strings"

// matchTemplate checks whether uri matches a RFC6570-style single-segment
// template such as "file:///{path}" or "db://{schema}/{table}", returning the
// extracted placeholder values keyed by name. Placeholders match one path
// segment (no "/") except the final placeholder, which also accepts "/" so a
// trailing {path} can capture the remainder of the URI.
func matchTemplate(template, uri string) (map[string]string, bool) {
	tParts := splitTemplate(template)
	uParts := strings.Split(uri, "/")

	params := make(map[string]string)
	ti, ui := 0, 0
	for ti < len(tParts) {
		isLast := ti == len(tParts)-1
		part := tParts[ti]

		name, isVar := placeholderName(part)
		if !isVar {
			if ui >= len(uParts) || uParts[ui] != part {
				return nil, false
			}
			ti++
			ui++
			continue
		}

		if isLast {
			if ui >= len(uParts) {
				return nil, false
			}
			params[name] = strings.Join(uParts[ui:], "/")
			ti++
			ui = len(uParts)
			continue
		}

		if ui >= len(uParts) || uParts[ui] == "" {
			return nil, false
		}
		params[name] = uParts[ui]
		ti++
		ui++
	}

	if ui != len(uParts) {
		return nil, false
	}
	return params, true
}

func splitTemplate(template string) []string {
	return strings.Split(template, "/")
}

func placeholderName(part string) (string, bool) {
	if len(part) >= 2 && strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
		return part[1 : len(part)-1], true
	}
	return "", false
}

// isTemplate reports whether uri contains at least one "{name}" placeholder.
func isTemplate(uri string) bool {
	return strings.Contains(uri, "{") && strings.Contains(uri, "}")
}
