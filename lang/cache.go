package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// parseCache stores parse results keyed by source text and grammar.
// Syntax trees are never mutated after parsing, so entries are shared.
var parseCache sync.Map

// cacheKey identifies a parse: the same source parses identically under the
// same precedence table, quote set, and whitespace mode.
type cacheKey struct {
	source  uint64
	grammar uint64
}

// entry holds one parse result; once guards the parse itself.
type entry struct {
	once  sync.Once
	value *Value
	err   error
}

// grammarHash hashes everything besides the source text that changes how
// a source parses.
func grammarHash(ranks []Rank, quotes string, space bool) uint64 {
	h := xxh3.New()

	_, _ = h.WriteString(fingerprint(ranks))
	_, _ = h.WriteString("\x03" + quotes + "\x03")
	_, _ = h.WriteString(strconv.FormatBool(space))

	return h.Sum64()
}

// cachedParse parses src with the grammar of c, reusing a previous result
// for the same source and grammar.
func cachedParse(
	ctx context.Context,
	c *Context,
	ranks []Rank,
	src string,
) (*Value, error) {
	key := cacheKey{
		source:  xxh3.HashString(src),
		grammar: grammarHash(ranks, c.quotes, c.space),
	}

	v, hit := parseCache.LoadOrStore(key, new(entry))

	ent, ok := v.(*entry)
	if !ok {
		return nil, NewError("invalid parse cache entry").
			With(slog.String("type", fmt.Sprintf("%T", v)))
	}

	c.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.source, 16)),
		slog.String("grammar_hash", strconv.FormatUint(key.grammar, 16)),
		slog.Bool("cache_hit", hit),
	)

	ent.once.Do(func() {
		ent.value, ent.err = newEngine(ranks, c.quotes, c.space).parse(src)
	})

	return ent.value, ent.err
}

// ClearCache removes every cached parse result.
func ClearCache() { parseCache.Clear() }
