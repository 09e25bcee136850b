package models

import "testing"

func TestParseMarketKey(t *testing.T) {
	tests := []struct {
		key  string
		want MarketKey
		ok   bool
	}{
		{"E-1-2-0-0-0", MarketKey{1, 2, 0, 0, 0}, true},
		{"E-5-2-1-2.5-0", MarketKey{5, 2, 1, 2.5, 0}, true},
		{"E-2-3-0-1.75-0", MarketKey{2, 3, 0, 1.75, 0}, true},
		// Trailing characters after a full match are ignored.
		{"E-1-2-0-0-0-extra", MarketKey{1, 2, 0, 0, 0}, true},
		// Not a market key at all.
		{"not-a-key", MarketKey{}, false},
		// Missing group.
		{"E-1-2-0-0", MarketKey{}, false},
		{"", MarketKey{}, false},
		// Must be anchored at the start.
		{"xE-1-2-0-0-0", MarketKey{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseMarketKey(tt.key)
		if ok != tt.ok {
			t.Errorf("ParseMarketKey(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseMarketKey(%q) = %+v, want %+v", tt.key, got, tt.want)
		}
	}
}

func TestParseMarketKeyIdempotent(t *testing.T) {
	first, ok1 := ParseMarketKey("E-5-2-1-2.5-0")
	second, ok2 := ParseMarketKey("E-5-2-1-2.5-0")
	if !ok1 || !ok2 || first != second {
		t.Errorf("parsing the same key twice gave %+v/%v and %+v/%v", first, ok1, second, ok2)
	}
}

func TestMarketKeyString(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"E-1-2-0-0-0", "E-1-2-0-0-0"},
		{"E-5-2-1-2.5-0", "E-5-2-1-2.5-0"},
		{"E-2-2-0-0.25-0", "E-2-2-0-0.25-0"},
	}
	for _, tt := range tests {
		k, ok := ParseMarketKey(tt.key)
		if !ok {
			t.Fatalf("ParseMarketKey(%q) failed", tt.key)
		}
		if got := k.String(); got != tt.want {
			t.Errorf("MarketKey.String() = %q, want %q", got, tt.want)
		}
	}
}
