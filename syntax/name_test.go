package syntax

import "testing"

func TestIsNameStart(t *testing.T) {
	var tests = []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'_', true},
		{'0', false},
		{' ', false},
		{'é', true},
		{'日', true},
	}
	for _, test := range tests {
		if got := IsNameStart(test.r); got != test.want {
			t.Errorf("IsNameStart(%q) = %v, want %v", test.r, got, test.want)
		}
	}
}

func TestIsNameContinue(t *testing.T) {
	var tests = []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'0', true},
		{'_', true},
		{' ', false},
		{'-', false},
		{'́', true}, // combining acute accent, Mn
	}
	for _, test := range tests {
		if got := IsNameContinue(test.r); got != test.want {
			t.Errorf("IsNameContinue(%q) = %v, want %v", test.r, got, test.want)
		}
	}
}
