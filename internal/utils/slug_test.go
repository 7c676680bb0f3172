package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Classic Manicure", "classic-manicure"},
		{"Маникюр классический", "manikyur-klassicheskiy"},
		{"Покрытие гель-лак", "pokrytie-gel-lak"},
		{"Nails & Care / Spa", "nails-and-care-spa"},
		{"  Trim  ", "trim"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
