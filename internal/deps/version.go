package deps

import (
	"regexp"
	"strconv"
	"strings"
)

// MinimumMKVToolNix is the oldest MKVToolNix release whose JSON
// identification output and extraction syntax vx understands.
var MinimumMKVToolNix = Version{9, 2, 0}

var versionToken = regexp.MustCompile(`v\d+(?:\.\d+)*`)

// Version is a dotted numeric version; missing trailing components compare as 0.
type Version []int

// ParseVersion extracts the first "v<digits>(.<digits>)*" token from the
// output of a version report. ok is false when no token exists.
func ParseVersion(output string) (Version, bool) {
	token := versionToken.FindString(output)
	if token == "" {
		return nil, false
	}
	parts := strings.Split(strings.TrimPrefix(token, "v"), ".")
	version := make(Version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, false
		}
		version = append(version, n)
	}
	return version, true
}

// MustParseVersion parses a literal version such as "9.2.0" or "v9.2.0".
func MustParseVersion(s string) Version {
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	v, ok := ParseVersion(s)
	if !ok {
		panic("deps: invalid version literal " + strconv.Quote(s))
	}
	return v
}

// Compare returns -1, 0, or 1 as v is lower than, equal to, or higher than other.
func (v Version) Compare(other Version) int {
	n := max(len(v), len(other))
	for i := 0; i < n; i++ {
		a, b := v.component(i), other.component(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is greater than or equal to minimum.
func (v Version) AtLeast(minimum Version) bool {
	return v.Compare(minimum) >= 0
}

func (v Version) component(i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}

func (v Version) String() string {
	if len(v) == 0 {
		return "unknown"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return "v" + strings.Join(parts, ".")
}
