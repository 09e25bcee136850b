package footystats

import (
	"reflect"
	"testing"
)

func TestCoerceRecord(t *testing.T) {
	specs := []FieldSpec{
		{Name: "id", Kind: KindInt, Required: true},
		{Name: "name", Kind: KindString, Required: true},
		{Name: "xg", Kind: KindFloat},
		{Name: "finished", Kind: KindBool},
		{Name: "season", Kind: KindList},
	}

	raw := map[string]any{
		"id":       float64(42), // json numbers decode as float64
		"name":     "  Premier League  ",
		"xg":       "1.85",
		"finished": "yes",
		"season":   []any{map[string]any{"id": float64(1625)}},
		"ignored":  "dropped silently",
	}

	got, err := CoerceRecord(raw, specs)
	if err != nil {
		t.Fatalf("CoerceRecord() error: %v", err)
	}

	want := map[string]any{
		"id":       42,
		"name":     "Premier League",
		"xg":       1.85,
		"finished": true,
		"season":   []any{map[string]any{"id": float64(1625)}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CoerceRecord() = %v, want %v", got, want)
	}
}

func TestCoerceRecordMissingRequired(t *testing.T) {
	specs := []FieldSpec{{Name: "id", Kind: KindInt, Required: true}}

	for _, raw := range []map[string]any{
		{},
		{"id": nil},
	} {
		if _, err := CoerceRecord(raw, specs); err == nil {
			t.Errorf("CoerceRecord(%v) expected error, got nil", raw)
		}
	}
}

func TestCoerceRecordOptionalFailureOmits(t *testing.T) {
	specs := []FieldSpec{
		{Name: "id", Kind: KindInt, Required: true},
		{Name: "possession", Kind: KindInt},
	}
	raw := map[string]any{"id": float64(1), "possession": "N/A"}

	got, err := CoerceRecord(raw, specs)
	if err != nil {
		t.Fatalf("CoerceRecord() error: %v", err)
	}
	if _, ok := got["possession"]; ok {
		t.Error("uncoercible optional field should be omitted")
	}
}

func TestCoerceRecordRequiredCoercionFailure(t *testing.T) {
	specs := []FieldSpec{{Name: "id", Kind: KindInt, Required: true}}
	raw := map[string]any{"id": "not-a-number"}

	if _, err := CoerceRecord(raw, specs); err == nil {
		t.Error("expected error for uncoercible required field")
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{float64(7), 7, true},
		{"3", 3, true},
		{"3.0", 3, true}, // the API sends both spellings
		{" 12 ", 12, true},
		{"", 0, false},
		{"-", 0, false},
		{"N/A", 0, false},
		{"abc", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, err := coerceInt(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("coerceInt(%v) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("coerceInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
		ok   bool
	}{
		{true, true, true},
		{float64(1), true, true},
		{float64(0), false, true},
		{"yes", true, true},
		{"No", false, true},
		{"1", true, true},
		{"", false, true},
		{"maybe", false, false},
		{[]any{}, false, false},
	}
	for _, tt := range tests {
		got, err := coerceBool(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("coerceBool(%v) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("coerceBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEndpointTables(t *testing.T) {
	for _, name := range AvailableEndpoints() {
		ep, ok := EndpointByName(name)
		if !ok {
			t.Fatalf("EndpointByName(%q) not found", name)
		}
		if ep.Path == "" {
			t.Errorf("endpoint %q has no path", name)
		}
		var required int
		for _, f := range ep.Fields {
			if f.Required {
				required++
			}
		}
		if required == 0 {
			t.Errorf("endpoint %q has no required fields", name)
		}
	}

	if _, ok := EndpointByName("nope"); ok {
		t.Error("unknown endpoint resolved")
	}
}
