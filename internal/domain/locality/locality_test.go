package locality

import (
	"errors"
	"sort"
	"testing"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
)

func TestNormalize_EnglishToCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"almaty", "Алматы"},
		{"Almaty", "Алматы"},
		{"ALMATY", "Алматы"},
		{"  astana  ", "Астана"},
		{"east kazakhstan region", "Восточно-Казахстанская область"},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_CanonicalPassThrough(t *testing.T) {
	got, err := Normalize("Алматы")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Алматы" {
		t.Errorf("expected pass-through, got %q", got)
	}

	// Case-insensitive on the canonical spelling too.
	got, err = Normalize("алматы")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Алматы" {
		t.Errorf("expected canonical spelling, got %q", got)
	}
}

func TestNormalize_Unknown(t *testing.T) {
	for _, in := range []string{"", "   ", "atlantis", "Лондон"} {
		_, err := Normalize(in)
		if !errors.Is(err, domain.ErrUnknownLocality) {
			t.Errorf("Normalize(%q): expected ErrUnknownLocality, got %v", in, err)
		}
	}
}

func TestSupported_SortedNoDuplicates(t *testing.T) {
	names := Supported()
	if len(names) == 0 {
		t.Fatal("expected supported localities")
	}
	if !sort.StringsAreSorted(names) {
		t.Error("supported localities must be sorted")
	}
	seen := make(map[string]struct{})
	for _, name := range names {
		if _, dup := seen[name]; dup {
			t.Errorf("duplicate canonical name %q", name)
		}
		seen[name] = struct{}{}
	}
}
