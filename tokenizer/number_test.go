package tokenizer

import (
	"reflect"
	"testing"
)

func TestEncodeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"7", []string{"7"}},
		{"10", []string{"1X", "0"}},
		{"99", []string{"9X", "9"}},
		{"1934", []string{"1XXX", "9XX", "3X", "4"}},
	}
	for _, tc := range cases {
		got := EncodeNumber(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("EncodeNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEncodeAmount(t *testing.T) {
	got := EncodeAmount(275)
	want := []string{"2XX", "7X", "5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeAmount(275) = %v, want %v", got, want)
	}

	// Fractional amounts truncate.
	got = EncodeAmount(10.9)
	want = []string{"1X", "0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeAmount(10.9) = %v, want %v", got, want)
	}
}
