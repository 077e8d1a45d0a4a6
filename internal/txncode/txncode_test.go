package txncode

import (
	"regexp"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"
)

var codePattern = regexp.MustCompile(`^\d{8}-\d{6}-\d{4}$`)

func TestGenerate_Format(t *testing.T) {
	g := NewWithSeed(1)
	at := time.Date(2025, 11, 16, 15, 42, 20, 999_000_000, time.UTC)

	code := g.Generate(at)
	if !codePattern.MatchString(code) {
		t.Fatalf("code %q does not match YYYYMMDD-HHMMSS-NNNN", code)
	}
	if got := code[:15]; got != "20251116-154220" {
		t.Fatalf("date/time part = %q, want 20251116-154220", got)
	}
}

func TestGenerate_SuffixRange(t *testing.T) {
	g := NewWithSeed(42)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10_000; i++ {
		code := g.Generate(at)
		suffix, err := strconv.Atoi(code[16:])
		if err != nil {
			t.Fatalf("parse suffix of %q: %v", code, err)
		}
		if suffix < 1000 || suffix > 9998 {
			t.Fatalf("suffix %d out of [1000, 9998]", suffix)
		}
	}
}

func TestGenerate_DateSortable(t *testing.T) {
	g := NewWithSeed(7)
	moments := []time.Time{
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC),
	}

	codes := make([]string, 0, len(moments))
	for _, m := range moments {
		codes = append(codes, g.Generate(m))
	}

	if !sort.StringsAreSorted(codes) {
		t.Fatalf("codes for increasing moments are not sorted: %v", codes)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	at := time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC)
	a := NewWithSeed(99).Generate(at)
	b := NewWithSeed(99).Generate(at)
	if a != b {
		t.Fatalf("same seed produced %q and %q", a, b)
	}
}

func TestGenerate_ConcurrentUse(t *testing.T) {
	g := New()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	const workers = 8
	const perWorker = 500

	codes := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				codes <- g.Generate(at)
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match YYYYMMDD-HHMMSS-NNNN", code)
		}
		suffix, err := strconv.Atoi(code[16:])
		if err != nil {
			t.Fatalf("parse suffix of %q: %v", code, err)
		}
		if suffix < 1000 || suffix > 9998 {
			t.Fatalf("suffix %d out of [1000, 9998]", suffix)
		}
	}
}
