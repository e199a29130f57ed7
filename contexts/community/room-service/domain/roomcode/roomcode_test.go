package roomcode

import "testing"

func TestNewProducesValidCodes(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("generated code %q fails its own validation", code)
		}
		seen[code] = true
	}
	// With a 36^6 space, 200 draws colliding would point at a broken source.
	if len(seen) < 190 {
		t.Fatalf("expected near-unique codes, got %d distinct of 200", len(seen))
	}
}

func TestValid(t *testing.T) {
	valid := []string{"ABC123", "ZZZZZZ", "000000"}
	for _, code := range valid {
		if !Valid(code) {
			t.Fatalf("expected %q to be valid", code)
		}
	}
	invalid := []string{"", "abc123", "ABC12", "ABC1234", "ABC 12", "ABC-12"}
	for _, code := range invalid {
		if Valid(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}
