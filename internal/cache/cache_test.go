package cache

import "testing"

func TestKeyIsDeterministic(t *testing.T) {
	a := Key([]byte(`{"skills":["go"]}`), []byte(`{"salary-floor":90000}`))
	b := Key([]byte(`{"skills":["go"]}`), []byte(`{"salary-floor":90000}`))

	if a != b {
		t.Fatalf("same inputs must yield the same key: %q vs %q", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
}

func TestKeyReactsToInputs(t *testing.T) {
	base := Key([]byte(`{"skills":["go"]}`), []byte(`{}`))

	if Key([]byte(`{"skills":["rust"]}`), []byte(`{}`)) == base {
		t.Fatalf("different profile must change the key")
	}
	if Key([]byte(`{"skills":["go"]}`), []byte(`{"salary-floor":1}`)) == base {
		t.Fatalf("different filters must change the key")
	}
}

func TestNoopCacheNeverHits(t *testing.T) {
	if _, ok := (Noop{}).Get(nil, "any"); ok {
		t.Fatalf("noop cache must never hit")
	}
	if err := (Noop{}).Clear(nil); err != nil {
		t.Fatalf("noop clear must not fail: %v", err)
	}
}
