package deps

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
		ok     bool
	}{
		{"mkvmerge v9.2.0 ('Photograph') 64bit", "v9.2.0", true},
		{"mkvextract v81.0 ('Milliontown') 64-bit\n", "v81.0", true},
		{"mkvmerge v10", "v10", true},
		{"tool 2.0 without prefix", "unknown", false},
		{"", "unknown", false},
		{"mkvmerge v9.1.9 and later v9.2.0", "v9.1.9", true},
	}
	for _, tt := range tests {
		got, ok := ParseVersion(tt.output)
		if ok != tt.ok {
			t.Errorf("ParseVersion(%q) ok = %v, want %v", tt.output, ok, tt.ok)
		}
		if got.String() != tt.want {
			t.Errorf("ParseVersion(%q) = %s, want %s", tt.output, got, tt.want)
		}
	}
}

func TestVersionCompare(t *testing.T) {
	required := MustParseVersion("9.2.0")
	tests := []struct {
		found string
		want  bool
	}{
		{"v9.1.9", false},
		{"v9.2.0", true},
		{"v9.2", true},
		{"v9.2.0.1", true},
		{"v10.0.0", true},
		{"v8.99.99", false},
	}
	for _, tt := range tests {
		if got := MustParseVersion(tt.found).AtLeast(required); got != tt.want {
			t.Errorf("%s AtLeast %s = %v, want %v", tt.found, required, got, tt.want)
		}
	}
	if Version(nil).AtLeast(required) {
		t.Fatal("empty version must be lower than any requirement")
	}
	if MustParseVersion("v1.0").Compare(MustParseVersion("1")) != 0 {
		t.Fatal("missing components should compare as zero")
	}
}

func TestMustParseVersionPanicsOnGarbage(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParseVersion("latest")
}
