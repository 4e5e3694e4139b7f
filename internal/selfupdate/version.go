package selfupdate

import (
	"strconv"
	"strings"
)

// version is a semantic version. Builds made from a checkout, whose
// version ends in "dev", sort after the release they were built from.
type version struct {
	core [3]int
	pre  []string
	dev  bool
}

// parseVersion accepts "1.2.3", "v1.2.3-rc.1", "1.2.3+meta" and the
// git-describe style "v1.2.3-4-gabc123-dev".
func parseVersion(s string) (version, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, _, _ = strings.Cut(s, "+")
	core, pre, hasPre := strings.Cut(s, "-")

	var v version
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return version{}, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return version{}, false
		}
		v.core[i] = n
	}
	if !hasPre {
		return v, true
	}
	if pre == "" {
		return version{}, false
	}
	if pre == "dev" || strings.HasSuffix(pre, "-dev") {
		v.dev = true
		return v, true
	}
	v.pre = strings.Split(pre, ".")
	return v, true
}

// after reports whether v has higher precedence than o.
func (v version) after(o version) bool {
	return v.compare(o) > 0
}

func (v version) compare(o version) int {
	for i := range v.core {
		if v.core[i] != o.core[i] {
			return sign(v.core[i] - o.core[i])
		}
	}
	switch {
	case v.dev || o.dev:
		// A dev build of x.y.z is not older than x.y.z itself.
		if v.dev && o.dev {
			return 0
		}
		if v.dev {
			if len(o.pre) == 0 {
				return 0
			}
			return 1
		}
		if len(v.pre) == 0 {
			return 0
		}
		return -1
	case len(v.pre) == 0 && len(o.pre) == 0:
		return 0
	case len(v.pre) == 0:
		return 1
	case len(o.pre) == 0:
		return -1
	}
	for i := 0; i < len(v.pre) && i < len(o.pre); i++ {
		if c := compareIdent(v.pre[i], o.pre[i]); c != 0 {
			return c
		}
	}
	return sign(len(v.pre) - len(o.pre))
}

// compareIdent orders pre-release identifiers: numbers numerically and
// below any alphanumeric identifier, which compare as strings.
func compareIdent(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return sign(an - bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
