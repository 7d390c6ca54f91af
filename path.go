package zipstream

import "strings"

// maxNameLen bounds member paths and comments; both travel in 16-bit
// length fields.
const maxNameLen = 0xFFFF

// validatePath checks that p is an acceptable archive member path.
//
// Rejected paths:
//   - empty
//   - 0xFFFF bytes or longer
//   - absolute (leading "/") or ending in "/"
//   - containing "//", a backslash, or a ".." element (a leading
//     ".." counts even without a following slash)
//
// Accepted paths are used in headers byte-for-byte; no normalization
// or case-folding is applied.
func validatePath(p string) error {
	switch {
	case p == "":
		return &PathError{Path: p, Reason: "empty"}
	case len(p) >= maxNameLen:
		return &PathError{Path: p, Reason: "longer than 65534 bytes"}
	case strings.HasPrefix(p, "/"):
		return &PathError{Path: p, Reason: "leading slash"}
	case strings.Contains(p, "//"):
		return &PathError{Path: p, Reason: "consecutive slashes"}
	case strings.ContainsRune(p, '\\'):
		return &PathError{Path: p, Reason: "backslash"}
	case hasDotDot(p):
		return &PathError{Path: p, Reason: "parent directory element"}
	case strings.HasSuffix(p, "/"):
		return &PathError{Path: p, Reason: "trailing slash"}
	}
	return nil
}

// hasDotDot reports whether p begins with "..", ends with a "/.."
// element, or contains one in the middle.
func hasDotDot(p string) bool {
	return strings.HasPrefix(p, "..") ||
		strings.Contains(p, "/../") ||
		strings.HasSuffix(p, "/..")
}
