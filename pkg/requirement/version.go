package requirement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// pep440RE accepts the public PEP 440 version forms seen in marker
// comparisons. Epochs and local labels are accepted and ignored.
var pep440RE = regexp.MustCompile(`(?i)^v?(?:\d+!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|alpha|b|beta|c|rc|pre|preview)[-_.]?(\d*))?` +
	`(?:[-_.]?(?:post|rev|r)[-_.]?\d*|-\d+)?` +
	`(?:[-_.]?(dev)[-_.]?(\d*))?` +
	`(?:\+[a-z0-9.]+)?$`)

// version is a PEP 440 version coerced to semver. The first three release
// components feed the semver triple; the rest are compared separately.
type version struct {
	release []int
	sv      *semver.Version
}

func parseVersion(s string) (*version, error) {
	m := pep440RE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("not a version: %q", s)
	}
	parts := strings.Split(m[1], ".")
	release := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("not a version: %q", s)
		}
		release[i] = n
	}

	triple := make([]string, 3)
	for i := range triple {
		triple[i] = "0"
		if i < len(release) {
			triple[i] = strconv.Itoa(release[i])
		}
	}
	coerced := strings.Join(triple, ".")
	if pre := prerelease(strings.ToLower(m[2]), m[3], m[4] != "", m[5]); pre != "" {
		coerced += "-" + pre
	}
	sv, err := semver.NewVersion(coerced)
	if err != nil {
		return nil, err
	}
	return &version{release: release, sv: sv}, nil
}

// prerelease maps PEP 440 pre and dev segments to semver prerelease
// identifiers that keep their relative order: dev < a < b < rc.
func prerelease(label, num string, dev bool, devNum string) string {
	if num == "" {
		num = "0"
	}
	if devNum == "" {
		devNum = "0"
	}
	var ids []string
	switch label {
	case "a", "alpha":
		ids = append(ids, "a", num)
	case "b", "beta":
		ids = append(ids, "b", num)
	case "c", "rc", "pre", "preview":
		ids = append(ids, "rc", num)
	}
	if dev {
		if len(ids) == 0 {
			ids = append(ids, "0")
		}
		ids = append(ids, "dev", devNum)
	}
	return strings.Join(ids, ".")
}

func (v *version) compare(o *version) int {
	if c := v.sv.Compare(o.sv); c != 0 {
		return c
	}
	n := max(len(v.release), len(o.release))
	for i := 3; i < n; i++ {
		a, b := component(v.release, i), component(o.release, i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// hasPrefix reports whether v's release, zero padded, starts with prefix.
func (v *version) hasPrefix(prefix []int) bool {
	for i, p := range prefix {
		if component(v.release, i) != p {
			return false
		}
	}
	return true
}

func component(release []int, i int) int {
	if i < len(release) {
		return release[i]
	}
	return 0
}

// matchVersion applies a single version comparison "candidate op spec".
// The second result is false when either side is not a version, in which
// case the caller decides how to fall back.
func matchVersion(candidate, op, spec string) (bool, bool) {
	c, err := parseVersion(candidate)
	if err != nil {
		return false, false
	}

	if (op == "==" || op == "!=") && strings.HasSuffix(spec, ".*") {
		p, err := parseVersion(strings.TrimSuffix(spec, ".*"))
		if err != nil {
			return false, false
		}
		return c.hasPrefix(p.release) == (op == "=="), true
	}

	s, err := parseVersion(spec)
	if err != nil {
		return false, false
	}
	cmp := c.compare(s)
	switch op {
	case "==":
		return cmp == 0, true
	case "!=":
		return cmp != 0, true
	case "<":
		return cmp < 0, true
	case "<=":
		return cmp <= 0, true
	case ">":
		return cmp > 0, true
	case ">=":
		return cmp >= 0, true
	case "~=":
		if len(s.release) < 2 {
			return false, false
		}
		return cmp >= 0 && c.hasPrefix(s.release[:len(s.release)-1]), true
	}
	return false, false
}
