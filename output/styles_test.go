package output

import (
	"bytes"
	"testing"
)

func TestStylesPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", styles.Success("saved"), "saved"},
		{"error", styles.Error("failed"), "failed"},
		{"warning", styles.Warning("careful"), "careful"},
		{"path", styles.FilePath("/tmp/books.sqlite"), "/tmp/books.sqlite"},
		{"account", styles.Account("Checking"), "Checking"},
		{"negative amount", styles.Amount("-1,234.50"), "-1,234.50"},
		{"positive amount", styles.Amount("12.00"), "12.00"},
		{"ahead", styles.Status("+10%"), "+10%"},
		{"behind", styles.Status("-5%"), "-5%"},
		{"no status", styles.Status(""), ""},
		{"keyword", styles.Keyword("Total"), "Total"},
		{"dim", styles.Dim("note"), "note"},
		{"slow timing", styles.Timing("150ms", true), "150ms"},
		{"fast timing", styles.Timing("5ms", false), "5ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
