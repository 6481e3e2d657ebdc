package lang

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/formula/log"
)

func TestParseCache_SharesTrees(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	c := NewContext(nil, WithParseCache(true))

	a, err := c.Parse("1+2*x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	b, err := c.Parse("1+2*x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if a != b {
		t.Error("cached parse returned a different tree")
	}

	// Another context with the same grammar shares the entry.
	other, err := NewContext(nil, WithParseCache(true)).Parse("1+2*x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if other != a {
		t.Error("same grammar in another context missed the cache")
	}

	// A context without caching always parses.
	fresh, err := NewContext(nil).Parse("1+2*x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if fresh == a {
		t.Error("uncached context returned the cached tree")
	}
}

func TestParseCache_KeyedByGrammar(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "1<<2"

	plain := NewContext(nil, WithParseCache(true))
	if _, err := plain.Parse(src); !errors.Is(err, ErrParse) {
		t.Fatalf("Parse error = %v, want ErrParse", err)
	}

	// The failure is cached too.
	_, again := plain.Parse(src)
	if !errors.Is(again, ErrParse) {
		t.Fatalf("cached Parse error = %v, want ErrParse", again)
	}

	shift := plain.WithOperator(NewOperator().Symbol("<<").HandlerFunc(Add).Build())

	v, err := shift.Parse(src)
	if err != nil {
		t.Fatalf("Parse with << registered: %v", err)
	}

	if v.Kind != KindExpression || v.Expression.Operator != "<<" {
		t.Errorf("Parse = %s, want a << expression", v)
	}

	loose := NewContext(nil, WithParseCache(true), WithWhitespace(true))
	if _, err := loose.Parse("1 + 2"); err != nil {
		t.Errorf("whitespace grammar Parse error: %v", err)
	}

	if _, err := plain.Parse("1 + 2"); !errors.Is(err, ErrParse) {
		t.Errorf("strict grammar reused the whitespace entry: %v", err)
	}

	quoted := NewContext(nil, WithParseCache(true), WithQuotes("`"))
	if _, err := quoted.Parse("'a'"); !errors.Is(err, ErrParse) {
		t.Errorf("quote set ignored by the cache: %v", err)
	}
}

func TestParseCache_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	c := NewContext(nil, WithParseCache(true))

	const workers = 16

	var (
		wg    sync.WaitGroup
		trees [workers]*Value
		errs  [workers]error
	)

	for i := range workers {
		wg.Go(func() {
			trees[i], errs[i] = c.Clone().Parse("[a=1,b=sqrt(x)^2]")
		})
	}

	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}

		if trees[i] != trees[0] {
			t.Errorf("worker %d got a different tree", i)
		}
	}
}

func TestParseCache_TraceLog(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	var buf bytes.Buffer

	c := NewContext(nil,
		WithParseCache(true),
		WithLogger(log.Make(&buf,
			log.WithLevel(log.LevelTrace),
			log.WithFormat(log.FormatJSON),
			log.WithTimeLayout("none"),
		)),
	)

	for range 3 {
		if _, err := c.ParseContext(t.Context(), "x"); err != nil {
			t.Fatalf("Parse error: %v", err)
		}
	}

	out := buf.String()

	if n := strings.Count(out, `"msg":"cache lookup"`); n != 3 {
		t.Errorf("got %d cache lookups, want 3:\n%s", n, out)
	}

	if n := strings.Count(out, `"cache_hit":true`); n != 2 {
		t.Errorf("got %d cache hits, want 2:\n%s", n, out)
	}
}

func TestGrammarHash(t *testing.T) {
	ranks := NewContext(nil).PrecedenceTable()

	base := grammarHash(ranks, DefaultQuotes, false)

	if base != grammarHash(ranks, DefaultQuotes, false) {
		t.Error("grammarHash is not deterministic")
	}

	if base == grammarHash(ranks, DefaultQuotes, true) {
		t.Error("whitespace mode does not change the hash")
	}

	if base == grammarHash(ranks, "'", false) {
		t.Error("quote set does not change the hash")
	}

	if base == grammarHash(ranks[1:], DefaultQuotes, false) {
		t.Error("rank table does not change the hash")
	}
}
