package platform

import (
	"reflect"
	"testing"
)

func TestParseShortcut(t *testing.T) {
	tests := []struct {
		combo   string
		want    []string
		wantErr bool
	}{
		{"cmd+s", []string{"cmd", "s"}, false},
		{"cmd+shift+z", []string{"cmd", "shift", "z"}, false},
		{"Command+C", []string{"cmd", "c"}, false},
		{"option+tab", []string{"alt", "tab"}, false},
		{"control+alt+delete", []string{"ctrl", "alt", "delete"}, false},
		{"enter", []string{"enter"}, false},
		{" cmd + s ", []string{"cmd", "s"}, false},

		{"", nil, true},
		{"bogus+s", nil, true}, // unknown modifier
		{"cmd++s", nil, true},  // empty token
		{"cmd+", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseShortcut(tt.combo)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseShortcut(%q) expected error, got %v", tt.combo, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseShortcut(%q): %v", tt.combo, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseShortcut(%q) = %v, want %v", tt.combo, got, tt.want)
		}
	}
}
