package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		origin  string
		wantErr bool
	}{
		{"*", false},
		{"http://example.com", false},
		{"https://api.dev.example.com", false},
		{"http://localhost:3000", false},
		{"http://127.0.0.1:8080", false},
		{"http://[::1]:5001", false},
		{"  https://example.com  ", false},

		{"", true},
		{"https://example.com/", true},
		{"https://example.com/api", true},
		{"https://example.com?a=1", true},
		{"https://example.com#top", true},
		{"https://user:pw@example.com", true},
		{"ftp://example.com", true},
		{"example.com", true},
		{"http://example.com:0", true},
		{"http://example.com:70000", true},
		{"http://-bad.example.com", true},
		{"http://bad_host.com", true},
		{"http://example.123", true},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			t.Parallel()

			err := CORSOrigin(tt.origin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHostname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host    string
		wantErr bool
	}{
		{"localhost", false},
		{"10.0.0.1", false},
		{"control-plane.armonik.local", false},
		{"a" + strings.Repeat(".a", 126), false},

		{"", true},
		{"a..b", true},
		{strings.Repeat("a", 64) + ".com", true},
		{strings.Repeat("a.", 127) + "com", true},
		{"host-.com", true},
	}

	for _, tt := range tests {
		if tt.wantErr {
			assert.Error(t, Hostname(tt.host), tt.host)
		} else {
			assert.NoError(t, Hostname(tt.host), tt.host)
		}
	}
}
