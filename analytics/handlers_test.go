package analytics

import "testing"

func TestSanitizePath(t *testing.T) {
	long := "/"
	for len(long) <= 512 {
		long += "a"
	}

	tests := []struct {
		input string
		want  string
	}{
		{"/blog/post/", "/blog/post/"},
		{"  /  ", "/"},
		{"", ""},
		{"relative", ""},
		{"//evil.example", ""},
		{"https://example.com/", ""},
		{long, ""},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.input); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
