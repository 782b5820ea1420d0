package claims

import (
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "src/auth.py", "src/auth.py"},
		{"backslashes", `src\auth.py`, "src/auth.py"},
		{"mixed separators", `src\pkg/auth.py`, "src/pkg/auth.py"},
		{"leading dot slash", "./src/auth.py", "src/auth.py"},
		{"doubled separators", "src//pkg///auth.py", "src/pkg/auth.py"},
		{"trailing slash", "src/pkg/", "src/pkg"},
		{"surrounding whitespace", "  src/auth.py\t", "src/auth.py"},
		{"dot only", ".", ""},
		{"dot slash only", "./", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"inner dot segments", "src/./auth.py", "src/auth.py"},
		{"parent segments collapse", "src/pkg/../auth.py", "src/auth.py"},
		{"non-path token", "database-migrations", "database-migrations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentFormsCollide(t *testing.T) {
	forms := []string{
		"src/auth.py",
		`src\auth.py`,
		"./src/auth.py",
		"src//auth.py",
		` src/auth.py `,
		`.\src\auth.py`,
	}

	want := Normalize(forms[0])
	for _, f := range forms[1:] {
		if got := Normalize(f); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", f, got, want)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "dedupes equivalent forms",
			in:   []string{"src/auth.py", `src\auth.py`, "./src/auth.py"},
			want: []string{"src/auth.py"},
		},
		{
			name: "drops empties and keeps order",
			in:   []string{"b.go", "", "a.go", "  ", "b.go"},
			want: []string{"b.go", "a.go"},
		},
		{
			name: "nil input",
			in:   nil,
			want: nil,
		},
		{
			name: "all empty",
			in:   []string{"", ".", "./"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAll(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeAll(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
