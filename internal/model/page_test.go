package model

import "testing"

func TestNewPage(t *testing.T) {
	tests := []struct {
		from, size int
		number     int
		offset     int
		wantErr    bool
	}{
		{0, 10, 0, 0, false},
		{5, 10, 0, 0, false},
		{10, 10, 1, 10, false},
		{25, 10, 2, 20, false},
		{3, 1, 3, 3, false},
		{-1, 10, 0, 0, true},
		{0, 0, 0, 0, true},
		{0, -5, 0, 0, true},
	}

	for _, tt := range tests {
		p, err := NewPage(tt.from, tt.size)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewPage(%d, %d) error = %v, wantErr %v", tt.from, tt.size, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if p.Number != tt.number || p.Offset() != tt.offset {
			t.Errorf("NewPage(%d, %d) = page %d offset %d, want page %d offset %d",
				tt.from, tt.size, p.Number, p.Offset(), tt.number, tt.offset)
		}
	}
}
