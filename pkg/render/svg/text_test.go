package svg

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		size  float64
		avail float64
		want  string
	}{
		{name: "fits untouched", in: "Standup", size: 11, avail: 100, want: "Standup"},
		{name: "cut with ellipsis", in: "Quarterly planning session", size: 11, avail: 60},
		{name: "no room at all", in: "Retrospective", size: 11, avail: 5, want: ""},
		{name: "empty", in: "", size: 11, avail: 40, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.size, tt.avail)
			if tt.name == "cut with ellipsis" {
				if !strings.HasSuffix(got, "..") {
					t.Fatalf("truncate(%q) = %q, want .. suffix", tt.in, got)
				}
				if textWidth(got, tt.size) > tt.avail {
					t.Errorf("truncate(%q) = %q, still wider than %v", tt.in, got, tt.avail)
				}
				return
			}
			if got != tt.want {
				t.Errorf("truncate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateNeverGrows(t *testing.T) {
	in := "One-on-one with the platform team"
	for avail := 10.0; avail <= 300; avail += 10 {
		got := truncate(in, 11, avail)
		if len(got) > len(in) {
			t.Fatalf("truncate grew the label at avail=%v: %q", avail, got)
		}
		if got != "" && got != in && textWidth(got, 11) > avail {
			t.Errorf("avail=%v: %q overflows", avail, got)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a < b & "c"`)
	if strings.ContainsAny(got, `<"`) {
		t.Errorf("escapeXML left raw markup in %q", got)
	}
	if !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("escapeXML(%q) = %q", `a < b & "c"`, got)
	}
}
