package client

import "testing"

// TestParseResponse verifies state/content splitting and newline
// unescaping, including contents that themselves contain commas.
func TestParseResponse(t *testing.T) {
	tests := []struct {
		line    string
		state   string
		content string
	}{
		{"USER_NOT_LOGGED,Error: unknown command, try help", "USER_NOT_LOGGED", "Error: unknown command, try help"},
		{"USER_LOGGED,Login successful*\\n*Enter the cities", "USER_LOGGED", "Login successful\nEnter the cities"},
		{"EXIT,Closing the session", "EXIT", "Closing the session"},
		{"no comma at all", "", "no comma at all"},
	}

	for _, tt := range tests {
		state, content := parseResponse(tt.line)
		if state != tt.state || content != tt.content {
			t.Errorf("parseResponse(%q) = (%q, %q), expected (%q, %q)",
				tt.line, state, content, tt.state, tt.content)
		}
	}
}
