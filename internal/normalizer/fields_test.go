package normalizer

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace only", input: "   ", want: []string{}},
		{name: "single", input: "Miku", want: []string{"Miku"}},
		{name: "trim and drop empties", input: " Miku , ,Rin,, Len ", want: []string{"Miku", "Rin", "Len"}},
		{name: "duplicates kept", input: "a, b, a", want: []string{"a", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "01/02/2024", want: "2024-01-02", wantOK: true},
		{input: "1/2/2024", want: "2024-01-02", wantOK: true},
		{input: "12-31-2023", want: "2023-12-31", wantOK: true},
		{input: "2024-1-2", want: "2024-01-02", wantOK: true},
		{input: "2024-01-02", want: "2024-01-02", wantOK: true},
		{input: "20240102", want: "2024-01-02", wantOK: true},
		{input: " 20240102 ", want: "2024-01-02", wantOK: true},
		{input: "", want: "", wantOK: true},
		{input: "not-a-date", want: "not-a-date", wantOK: false},
		{input: "2024/01/02", want: "2024/01/02", wantOK: false},
		{input: "January 2, 2024", want: "January 2, 2024", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeDate(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveLink(t *testing.T) {
	if got := ResolveLink(Cell{Text: "watch here", Link: "https://youtu.be/abc"}); got != "https://youtu.be/abc" {
		t.Errorf("hyperlink should win, got %q", got)
	}

	if got := ResolveLink(Cell{Text: " https://youtu.be/xyz "}); got != "https://youtu.be/xyz" {
		t.Errorf("text fallback = %q", got)
	}

	if got := ResolveLink(Cell{}); got != "" {
		t.Errorf("empty cell = %q, want empty", got)
	}
}
