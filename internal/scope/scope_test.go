package scope

import "testing"

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
	}{
		{"self", AxisSelf},
		{"descendant-or-self", AxisDescendant},
		{"ancestor-or-self", AxisAncestor},
		{"", AxisSelf},
		{"sideways", AxisSelf},
	}
	for _, tt := range tests {
		if got := ParseAxis(tt.in); got != tt.want {
			t.Errorf("ParseAxis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScopePredicates(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		userScoped bool
		catScoped  bool
	}{
		{"empty", Params{}, false, false},
		{"single user", Params{UserID: 1}, true, false},
		{"user list is not single-scoped", Params{UserID: 1, UserIDs: []int64{1, 2}}, false, false},
		{"single category", Params{CategoryID: 3}, false, true},
		{"category list is not single-scoped", Params{CategoryID: 3, CategoryIDs: []int64{3}}, false, false},
		{"both", Params{UserID: 1, CategoryID: 3}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.UserScoped(); got != tt.userScoped {
				t.Errorf("UserScoped() = %v, want %v", got, tt.userScoped)
			}
			if got := tt.params.CategoryScoped(); got != tt.catScoped {
				t.Errorf("CategoryScoped() = %v, want %v", got, tt.catScoped)
			}
		})
	}
}
