package claims

import (
	"path"
	"strings"
)

// Normalize canonicalizes a resource identifier so the same logical
// resource is recognized across representations. Backslashes become
// forward slashes, duplicate separators collapse, and ./ prefixes and
// trailing slashes are stripped. An identifier that reduces to nothing
// returns the empty string.
func Normalize(resource string) string {
	r := strings.TrimSpace(resource)
	if r == "" {
		return ""
	}
	r = strings.ReplaceAll(r, "\\", "/")
	r = path.Clean(r)
	if r == "." {
		return ""
	}
	return r
}

// NormalizeAll normalizes every identifier, dropping empties and
// duplicates while preserving request order.
func NormalizeAll(resources []string) []string {
	out := make([]string, 0, len(resources))
	seen := make(map[string]bool, len(resources))
	for _, r := range resources {
		n := Normalize(r)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
