package textdecode

import (
	"testing"
)

// TestPascalToUnicode_Cafe covers spec.md S2: the Pascal string
// "\x04Caf\x8E" (0x8E is MacRoman e-acute) decodes to the HFS+-decomposed
// Unicode sequence U+0043 U+0061 U+0066 U+0065 U+0301.
func TestPascalToUnicode_Cafe(t *testing.T) {
	input := []byte{0x04, 'C', 'a', 'f', 0x8E}
	got, err := PascalToUnicode(input, MacRoman)
	if err != nil {
		t.Fatalf("PascalToUnicode: %v", err)
	}
	want := string([]rune{0x0043, 0x0061, 0x0066, 0x0065, 0x0301})
	if got != want {
		t.Errorf("PascalToUnicode = %q (% x), want %q (% x)", got, []rune(got), want, []rune(want))
	}
}

func TestPascalToUnicode_Empty(t *testing.T) {
	got, err := PascalToUnicode([]byte{0x00}, MacRoman)
	if err != nil {
		t.Fatalf("PascalToUnicode: %v", err)
	}
	if got != "" {
		t.Errorf("PascalToUnicode empty = %q, want empty", got)
	}
}

func TestPascalToUnicode_TooShort(t *testing.T) {
	_, err := PascalToUnicode([]byte{0x05, 'a', 'b'}, MacRoman)
	if err == nil {
		t.Fatal("expected error for truncated pascal string")
	}
}

// TestMacRomanRoundTrip is the property from spec.md §8 property 7: every
// byte value 0-255, taken as a single-character MacRoman Pascal string,
// round-trips through decode -> decompose -> recompose -> encode back to
// its original byte.
func TestMacRomanRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		input := []byte{0x01, byte(b)}
		decoded, err := PascalToUnicode(input, MacRoman)
		if err != nil {
			t.Fatalf("byte %#02x: decode: %v", b, err)
		}
		reencoded, err := RecomposeMacRoman(decoded)
		if err != nil {
			t.Fatalf("byte %#02x: recompose: %v", b, err)
		}
		if len(reencoded) != 1 || reencoded[0] != byte(b) {
			t.Errorf("byte %#02x: round-trip got % x", b, reencoded)
		}
	}
}

func TestHFSUniStr255ToUnicode(t *testing.T) {
	// "Hi" in big-endian UTF-16.
	data := []byte{0x00, 'H', 0x00, 'i'}
	got, err := HFSUniStr255ToUnicode(data)
	if err != nil {
		t.Fatalf("HFSUniStr255ToUnicode: %v", err)
	}
	if got != "Hi" {
		t.Errorf("HFSUniStr255ToUnicode = %q, want Hi", got)
	}
}

func TestHFSUniStr255ToUnicode_OddLength(t *testing.T) {
	_, err := HFSUniStr255ToUnicode([]byte{0x00})
	if err == nil {
		t.Fatal("expected error for odd-length UTF-16 buffer")
	}
}

func TestUnicodeToHFSUniStr255RoundTrip(t *testing.T) {
	in := "Café"
	bytes := UnicodeToHFSUniStr255(in)
	out, err := HFSUniStr255ToUnicode(bytes)
	if err != nil {
		t.Fatalf("HFSUniStr255ToUnicode: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %q, want %q", out, in)
	}
}
