package utils

import "testing"

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello", 100, 20)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("SplitText short input = %v, want single chunk", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	chunks := SplitText("abcdefghij", 4, 2)
	want := []string{"abcd", "cdef", "efgh", "ghij"}
	if len(chunks) != len(want) {
		t.Fatalf("SplitText chunk count = %d, want %d (%v)", len(chunks), len(want), chunks)
	}
	for i, c := range chunks {
		if c != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, c, want[i])
		}
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	chunks := SplitText("abcdefgh", 4, 6)
	want := []string{"abcd", "efgh"}
	if len(chunks) != len(want) {
		t.Fatalf("SplitText chunk count = %d, want %d (%v)", len(chunks), len(want), chunks)
	}
	for i, c := range chunks {
		if c != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, c, want[i])
		}
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	// 6 runes but 18 bytes; rune counting keeps this a single chunk.
	chunks := SplitText("日本語日本語", 6, 0)
	if len(chunks) != 1 {
		t.Errorf("SplitText multibyte chunk count = %d, want 1 (%v)", len(chunks), chunks)
	}
}
