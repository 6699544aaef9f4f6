package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunkOverlap(t *testing.T) {
	got := Chunk("one two three four five", 3, 1)
	want := []string{"one two three", "three four five"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkShortText(t *testing.T) {
	got := Chunk("one two three", 10, 2)
	want := []string{"one two three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkShortTextKeepsOriginalFormatting(t *testing.T) {
	text := "one  two\nthree"
	got := Chunk(text, 512, 50)
	if len(got) != 1 || got[0] != text {
		t.Errorf("Chunk() = %q, want original text unchanged", got)
	}
}

func TestChunkEmpty(t *testing.T) {
	if got := Chunk("   ", 3, 1); got != nil {
		t.Errorf("Chunk() = %v, want nil", got)
	}
}

func TestChunkOverlapClamped(t *testing.T) {
	// overlap >= size 会死循环，必须被夹到 size-1
	got := Chunk("a b c d e f", 2, 5)
	if len(got) == 0 {
		t.Fatal("Chunk() returned nothing")
	}
	for _, c := range got {
		if n := len(strings.Fields(c)); n > 2 {
			t.Errorf("chunk %q has %d words, want <= 2", c, n)
		}
	}
}

func TestChunkCoversAllWords(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = "w"
	}
	got := Chunk(strings.Join(words, " "), 30, 5)
	total := 0
	for _, c := range got {
		total += len(strings.Fields(c))
	}
	// 每个重叠区间被计两次
	wantMin := 100
	if total < wantMin {
		t.Errorf("chunks cover %d words, want >= %d", total, wantMin)
	}
	last := got[len(got)-1]
	if len(strings.Fields(last)) > 30 {
		t.Errorf("last chunk has %d words, want <= 30", len(strings.Fields(last)))
	}
}
