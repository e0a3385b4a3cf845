package reference

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileScheme marks an explicit file source ("file:customers.csv")
const FileScheme = "file"

// SplitScheme splits "scheme:target" sources. Single-letter schemes are
// rejected so Windows drive letters stay file paths.
func SplitScheme(source string) (scheme, target string, ok bool) {
	idx := strings.Index(source, ":")
	if idx < 2 {
		return "", source, false
	}

	scheme = source[:idx]
	for i, r := range scheme {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !(isLetter || (i > 0 && (isDigit || r == '+' || r == '-' || r == '.'))) {
			return "", source, false
		}
	}

	return strings.ToLower(scheme), strings.TrimSpace(source[idx+1:]), true
}

// NormalizeSource returns the canonical form of a reference source used for
// cache keys. File sources become absolute, cleaned paths with symlinks
// resolved when the file exists; scheme-qualified sources keep a lower-cased
// scheme and a trimmed target.
func NormalizeSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("%w: empty source", ErrSourceNotFound)
	}

	path := source
	if scheme, target, ok := SplitScheme(source); ok {
		if scheme != FileScheme {
			if target == "" {
				return "", fmt.Errorf("%w: empty target for scheme %q", ErrSourceNotFound, scheme)
			}
			return scheme + ":" + target, nil
		}
		path = target
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	if _, err := os.Lstat(abs); err == nil {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
	}

	return filepath.Clean(abs), nil
}

// cacheKey identifies one pool: normalized source plus column
func cacheKey(normalizedSource, column string) string {
	return normalizedSource + "\x00" + column
}
