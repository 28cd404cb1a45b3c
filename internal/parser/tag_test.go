package parser

import (
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag      string
		wantName string
		wantSkip bool
		wantErr  bool
	}{
		{"-", "", true, false},
		{"dlegal_notice", "dlegal_notice", false, false},
		{"astruct_array", "astruct_array", false, false},
		{" serial ", "serial", false, false},
		{"A", "A", false, false},

		// Error cases
		{"", "", false, true},
		{"1st", "", false, true},
		{"_pad", "", false, true},
		{"name,omitempty", "", false, true},
		{"a.b", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseTag(tt.tag)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTag(%q) expected error, got nil", tt.tag)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.tag, err)
			}

			if got.Name != tt.wantName || got.Skip != tt.wantSkip {
				t.Errorf("ParseTag(%q) = %+v, want {Name:%s Skip:%v}", tt.tag, got, tt.wantName, tt.wantSkip)
			}
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"BootCount", "boot_count"},
		{"NetIP", "net_ip"},
		{"IPAddr", "ip_addr"},
		{"ID", "id"},
		{"SSID", "ssid"},
		{"Array1D", "array1d"},
		{"Scalar16", "scalar16"},
		{"Value2", "value2"},
		{"HTTPServerPort", "http_server_port"},
		{"already_snake", "already_snake"},
		{"Block3", "block3"},
		{"x", "x"},
	}

	for _, tt := range tests {
		if got := SnakeCase(tt.in); got != tt.want {
			t.Errorf("SnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
