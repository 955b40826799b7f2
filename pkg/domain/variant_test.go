package domain

import "testing"

func TestVariantsResolve(t *testing.T) {
	render := Variants[string]{
		"new":       "draft badge",
		"published": "live badge",
	}

	if got, ok := render.Resolve("published"); !ok || got != "live badge" {
		t.Errorf("expected live badge, got %q (ok=%v)", got, ok)
	}
	if _, ok := render.Resolve("removed"); ok {
		t.Error("expected miss for unregistered state")
	}
	if got := render.ResolveOr("removed", "no badge"); got != "no badge" {
		t.Errorf("expected fallback, got %q", got)
	}
}
