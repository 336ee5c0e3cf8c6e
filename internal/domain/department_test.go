package domain

import "testing"

func TestIsHRDepartment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"HR", true},
		{"Hr", true},
		{"hr", true},
		{"General", true},
		{"ADMINISTRATION", true},
		{" administration ", true},
		{"HRx", false},
		{"human resources", false},
		{"Sanitation", false},
		{"gen", false},
		{"", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsHRDepartment(tt.name); got != tt.want {
				t.Errorf("IsHRDepartment(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSameDepartment(t *testing.T) {
	t.Parallel()

	if !SameDepartment("Sanitation", "sanitation") {
		t.Error("expected case-insensitive match")
	}
	if SameDepartment("Sanitation", "Roads") {
		t.Error("expected different departments not to match")
	}
	if SameDepartment("", "") {
		t.Error("empty departments must not match each other")
	}
}

func TestHRDepartmentKeysAreClassified(t *testing.T) {
	t.Parallel()

	keys := HRDepartmentKeys()
	if len(keys) != len(hrDepartments) {
		t.Fatalf("HRDepartmentKeys() has %d keys, classifier has %d", len(keys), len(hrDepartments))
	}
	keys[0] = "mutated"
	if HRDepartmentKeys()[0] == "mutated" {
		t.Fatal("HRDepartmentKeys exposes the shared slice")
	}

	for _, key := range HRDepartmentKeys() {
		if !IsHRDepartment(key) {
			t.Errorf("key %q not classified as HR", key)
		}
		if NormalizeDepartment(key) != key {
			t.Errorf("key %q is not normalized", key)
		}
	}
}
