package attrcodec

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pairs := []Pair{
		{Key: "Vendor", Value: "McMaster-Carr"},
		{Key: "Unit Cost", Value: "$12.50"},
		{Key: "Link", Value: ""},
	}
	blob := Encode(pairs)
	want := `'Vendor'='McMaster-Carr','Unit Cost'='$12.50','Link'=''`
	if blob != want {
		t.Fatalf("Encode = %q, want %q", blob, want)
	}
	got := Decode(blob)
	if !reflect.DeepEqual(got, pairs) {
		t.Errorf("Decode round trip = %+v, want %+v", got, pairs)
	}
}

func TestEncodeEscapesQuoteInValue(t *testing.T) {
	pairs := []Pair{{Key: "Material", Value: "1/4'' aluminum"}}
	blob := Encode(pairs)
	want := `'Material'='1/4'''' aluminum'`
	if blob != want {
		t.Fatalf("Encode = %q, want %q", blob, want)
	}
	got := Decode(blob)
	if !reflect.DeepEqual(got, pairs) {
		t.Errorf("Decode round trip = %+v, want %+v", got, pairs)
	}
}

func TestDecodePreservesOrder(t *testing.T) {
	blob := `'b'='2','a'='1','c'='3'`
	got := Decode(blob)
	want := []Pair{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}, {Key: "c", Value: "3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode = %+v, want %+v", got, want)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if got := Decode(""); len(got) != 0 {
		t.Errorf("Decode(\"\") = %+v, want empty", got)
	}
}

func TestDecodeTruncatesAtMalformedPair(t *testing.T) {
	cases := []struct {
		name string
		blob string
		want []Pair
	}{
		{"unterminated value quote", `'a'='1','b'='unclosed`, []Pair{{Key: "a", Value: "1"}}},
		{"missing equals", `'a'='1','b''2'`, []Pair{{Key: "a", Value: "1"}}},
		{"missing value quote", `'a'='1','b'=2'`, []Pair{{Key: "a", Value: "1"}}},
		{"missing separator", `'a'='1';'b'='2'`, []Pair{{Key: "a", Value: "1"}}},
		{"no leading quote", `a'='1'`, nil},
		{"unterminated key", `'a`, nil},
		{"bare quote", `'`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.blob)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Decode(%q) = %+v, want %+v", tc.blob, got, tc.want)
			}
		})
	}
}

func TestDecodeValueEndingInEscapedQuote(t *testing.T) {
	// Encode("ends with '") yields exactly this blob: the first two quotes
	// escape, the third closes the value.
	blob := `'a'='ends with '''`
	want := []Pair{{Key: "a", Value: "ends with '"}}
	got := Decode(blob)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode = %+v, want %+v", got, want)
	}
	if enc := Encode(want); enc != blob {
		t.Errorf("Encode = %q, want %q", enc, blob)
	}
}

func TestDecodeMapLaterDuplicateWins(t *testing.T) {
	m := DecodeMap(`'a'='1','a'='2'`)
	if m["a"] != "2" {
		t.Errorf("DecodeMap duplicate = %q, want %q", m["a"], "2")
	}
}
