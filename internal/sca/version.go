package sca

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsVersionVulnerable reports whether depVersion matches any of the
// knowledge base's vulnerable-version specifiers. An "unknown" or
// unparseable depVersion is always vulnerable, per spec §4.4.
func IsVersionVulnerable(depVersion string, specifiers []string) bool {
	if len(specifiers) == 0 {
		return false
	}
	if strings.EqualFold(depVersion, "unknown") || depVersion == "" {
		return true
	}

	v, err := semver.NewVersion(depVersion)
	if err != nil {
		return true
	}

	for _, spec := range specifiers {
		if matchesSpecifier(v, depVersion, spec) {
			return true
		}
	}
	return false
}

func matchesSpecifier(v *semver.Version, rawVersion, spec string) bool {
	constraint, err := semver.NewConstraint(translateSpecifier(spec))
	if err == nil {
		return constraint.Check(v)
	}
	return manualCompare(rawVersion, spec)
}

// translateSpecifier rewrites the spec's "==" operator into Masterminds
// semver's "=" and leaves every other accepted operator (<, <=, >, >=)
// untouched.
func translateSpecifier(spec string) string {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "==") {
		return "=" + strings.TrimPrefix(spec, "==")
	}
	return spec
}

var specifierRe = regexp.MustCompile(`^(<=|>=|==|<|>)\s*(.+)$`)

// manualCompare falls back to dotted-integer comparison, zero-padding
// missing components, for a specifier that the semver constraint parser
// rejects. Dependency versions are parsed leniently by semver.NewVersion
// ("1.2" reads as 1.2.0); one it cannot parse never reaches this function
// but is reported vulnerable by IsVersionVulnerable.
func manualCompare(rawVersion, spec string) bool {
	m := specifierRe.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return false
	}
	op, target := m[1], m[2]

	cmp := compareDotted(rawVersion, target)
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "==":
		return cmp == 0
	}
	return false
}

func compareDotted(a, b string) int {
	aParts := splitDotted(a)
	bParts := splitDotted(b)
	n := len(aParts)
	if len(bParts) > n {
		n = len(bParts)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(aParts) {
			av = aParts[i]
		}
		if i < len(bParts) {
			bv = bParts[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func splitDotted(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	fields := strings.Split(v, ".")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		digits := strings.TrimFunc(f, func(r rune) bool { return r < '0' || r > '9' })
		n, err := strconv.Atoi(digits)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
