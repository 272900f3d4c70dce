package dialect

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CompareVersion compares two dotted server versions such as "0.199" or
// "350". Suffixes like "-SNAPSHOT" are ignored. ok is false when either
// version cannot be parsed.
func CompareVersion(a, b string) (cmp int, ok bool) {
	va, vb := canonicalVersion(a), canonicalVersion(b)
	if va == "" || vb == "" {
		return 0, false
	}
	return semver.Compare(va, vb), true
}

// VersionAtLeast reports whether version >= minimum. Unparsable versions
// report false.
func VersionAtLeast(version, minimum string) bool {
	c, ok := CompareVersion(version, minimum)
	return ok && c >= 0
}

func canonicalVersion(version string) string {
	v := strings.TrimSpace(version)
	if i := strings.IndexAny(v, "-+ "); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return ""
	}
	v = "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
