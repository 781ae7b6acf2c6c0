package grocy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Grocy releases this server has been checked against.
const (
	MinSupportedVersion   = "3.3.0"
	MaxTestedVersion      = "4.5.0"
	DataTypeChangeVersion = "4.0.0"
)

var leadingVersion = regexp.MustCompile(`^(\d+\.\d+\.\d+)`)

// Compatibility is the outcome of CheckVersion.
type Compatibility struct {
	Version        string   `json:"version,omitempty"`
	IsCompatible   bool     `json:"isCompatible"`
	Warnings       []string `json:"warnings"`
	CriticalIssues []string `json:"criticalIssues"`
}

// CompareVersions compares dotted versions part by part and returns -1, 0 or 1.
// Missing parts count as 0; parts that are not numbers are skipped.
func CompareVersions(v1, v2 string) int {
	p1 := strings.Split(v1, ".")
	p2 := strings.Split(v2, ".")
	n := max(len(p1), len(p2))
	for i := 0; i < n; i++ {
		a, okA := versionPart(p1, i)
		b, okB := versionPart(p2, i)
		if !okA || !okB {
			continue
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

func versionPart(parts []string, i int) (float64, bool) {
	if i >= len(parts) {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CheckVersion reports whether a Grocy release is supported. Anything after
// the leading X.Y.Z is ignored.
func CheckVersion(version string) Compatibility {
	result := Compatibility{
		Version:        version,
		Warnings:       []string{},
		CriticalIssues: []string{},
	}

	if strings.TrimSpace(version) == "" {
		result.CriticalIssues = append(result.CriticalIssues, "Could not determine Grocy version")
		return result
	}

	clean := version
	if m := leadingVersion.FindStringSubmatch(version); m != nil {
		clean = m[1]
	}

	if CompareVersions(clean, MinSupportedVersion) < 0 {
		result.CriticalIssues = append(result.CriticalIssues,
			fmt.Sprintf("Grocy version %s is older than minimum supported version %s", clean, MinSupportedVersion))
	}
	if CompareVersions(clean, MaxTestedVersion) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Grocy version %s is newer than the highest tested version %s. Some features may not work correctly.", clean, MaxTestedVersion))
	}
	if CompareVersions(clean, DataTypeChangeVersion) >= 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Grocy version %s uses numeric values without quotes in API responses. Ensure data type handling is implemented.", clean))
	}

	result.IsCompatible = len(result.CriticalIssues) == 0
	return result
}
