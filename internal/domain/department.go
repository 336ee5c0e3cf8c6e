package domain

import "strings"

// hrDepartmentKeys are the normalized department names that carry centralized HR
// authority. The classifier and the store's HR-class filter both read this list.
var hrDepartmentKeys = []string{"general", "administration", "hr"}

var hrDepartments = func() map[string]struct{} {
	set := make(map[string]struct{}, len(hrDepartmentKeys))
	for _, key := range hrDepartmentKeys {
		set[key] = struct{}{}
	}
	return set
}()

// HRDepartmentKeys lists the normalized HR-class department names.
func HRDepartmentKeys() []string {
	return append([]string(nil), hrDepartmentKeys...)
}

// NormalizeDepartment returns the comparison key for a department name.
func NormalizeDepartment(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsHRDepartment reports whether name belongs to the HR-class departments.
// Matching is exact after normalization, so "HR" matches but "HRx" does not.
func IsHRDepartment(name string) bool {
	_, ok := hrDepartments[NormalizeDepartment(name)]
	return ok
}

// SameDepartment compares two department names case-insensitively.
func SameDepartment(a, b string) bool {
	key := NormalizeDepartment(a)
	return key != "" && key == NormalizeDepartment(b)
}
