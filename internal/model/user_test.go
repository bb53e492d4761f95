package model

import "testing"

func TestUserEqual(t *testing.T) {
	tests := []struct {
		a, b     User
		expected bool
	}{
		{User{ID: 1, Name: "a"}, User{ID: 1, Name: "b"}, true},
		{User{ID: 1}, User{ID: 2}, false},
		// Unsaved users compare unequal even to themselves.
		{User{}, User{}, false},
		{User{Name: "x", Email: "x@y.z"}, User{Name: "x", Email: "x@y.z"}, false},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.expected {
			t.Errorf("%+v.Equal(%+v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
