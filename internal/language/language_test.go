package language

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"English", "en"},
		{"French", "fr"},
		{"Spanish", "es"},
		{"German", "de"},
		{"Hindi", "hi"},
		{"Chinese", "zh-CN"},
		{"Arabic", "ar"},
		{"Italian", "it"},
		{"Japanese", "ja"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if l.Code != tt.code {
				t.Errorf("Lookup(%q).Code = %q, want %q", tt.name, l.Code, tt.code)
			}
			back, ok := ByCode(tt.code)
			if !ok || back.Name != tt.name {
				t.Errorf("ByCode(%q) = %+v, %v; want %q", tt.code, back, ok, tt.name)
			}
		})
	}

	if got := len(All()); got != len(tests) {
		t.Errorf("len(All()) = %d, want %d", got, len(tests))
	}
}

func TestLookup_Unknown(t *testing.T) {
	for _, name := range []string{"", "french", "fr", "Klingon"} {
		if _, ok := Lookup(name); ok {
			t.Errorf("Lookup(%q) should not resolve", name)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Code = "xx"

	if l, _ := Lookup("English"); l.Code != "en" {
		t.Errorf("mutating All() leaked into the table: English code = %q", l.Code)
	}
}
