package pagepress

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Hello", "hello"},
		{"ALL CAPS TITLE", "all-caps-title"},
		// Lenient by design: only spaces are rewritten. Punctuation and
		// repeated whitespace pass through so existing slugs stay stable.
		{"C# Tips & Tricks", "c#-tips-&-tricks"},
		{"double  space", "double--space"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Slugify("Hello World"); got != "hello-world" {
			t.Fatalf("Slugify not deterministic: got %q", got)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{12, 6, 2},
		{13, 6, 3},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestTotalPagesEmptyTable(t *testing.T) {
	// ceiling(0/6) is 0: an empty listing renders no pager at all.
	if got := TotalPages(0, 6); got != 0 {
		t.Fatalf("TotalPages(0, 6) = %d, want 0", got)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"http://example.com", nil, "http://example.com"},
		{"http://example.com", []string{"articles"}, "http://example.com/articles/"},
		{"http://example.com", []string{"articles", "hello-world"}, "http://example.com/articles/hello-world/"},
	}

	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}
