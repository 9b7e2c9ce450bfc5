package encoding

import "testing"

func TestPercentEncode(t *testing.T) {
	reserved := ByteSet("\t\n;=%&,")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "gene00001", "gene00001"},
		{"semicolon", "a;b", "a%3Bb"},
		{"equals", "x=y", "x%3Dy"},
		{"percent", "100%", "100%25"},
		{"tab and newline", "a\tb\nc", "a%09b%0Ac"},
		{"comma list", "a,b,c", "a%2Cb%2Cc"},
		{"unicode untouched", "émoji 🎉", "émoji 🎉"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentEncode(tt.input, reserved)
			if got != tt.want {
				t.Errorf("PercentEncode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPercentEncodeInvertedClass(t *testing.T) {
	allowed := ByteSet("abc")
	got := PercentEncode("abcd é", Not(allowed))
	if want := "abc%64%20%C3%A9"; got != want {
		t.Errorf("PercentEncode() = %q, want %q", got, want)
	}
}

func TestPercentDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no escapes", "plain", "plain"},
		{"upper hex", "a%3Bb", "a;b"},
		{"lower hex", "a%3bb", "a;b"},
		{"utf-8 bytes", "%C3%A9", "é"},
		{"trailing percent", "50%", "50%"},
		{"short escape", "%4", "%4"},
		{"bad hex", "%zz!", "%zz!"},
		{"adjacent escapes", "%25%25", "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentDecode(tt.input)
			if got != tt.want {
				t.Errorf("PercentDecode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPercentRoundTrip(t *testing.T) {
	reserved := ByteSet("\t\n\r\f\v;=%&,")
	inputs := []string{"a;b", "x=y", "%41", "tab\there", "100% & more, really"}
	for _, in := range inputs {
		if got := PercentDecode(PercentEncode(in, reserved)); got != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}
