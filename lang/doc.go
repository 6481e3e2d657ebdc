// Package lang implements formula, a small embeddable expression language.
//
// A host program creates a [Context], binds values and functions into it,
// and evaluates formulas written by its users:
//
//	c := lang.NewContext(source.Map{"price": 4.5})
//	c.PushGlobal("qty", lang.Number(3))
//	v, err := c.Evaluate("{price}*qty")
//
// # Values
//
// Evaluation produces an [Object]: [Nothing], [Boolean], [Number], [String],
// [List], [AssociativeArray], or *[Function]. Values are immutable from the
// language's point of view; operators return new values.
//
// # Grammar
//
// Informal EBNF:
//
//	Expression  → Unary (InfixOp Expression)?     ; climbs ranks, loosest first
//	Unary       → PrefixOp Unary | Atom
//	Atom        → Primary ('.' Member | '(' Items? ')')*
//	Primary     → '(' Expression ')' | '[' Items? ']' | '[' Pairs ']' | Literal
//	Items       → Expression (',' Expression)*
//	Pairs       → Key '=' Expression (',' Key '=' Expression)*
//	Member      → Name | String | Integer
//	Key         → Name | String
//	Literal     → 'nothing' | 'true' | 'false' | Address | Number | String | Name
//	Address     → '{' <balanced text> '}'
//
// Operators of equal precedence associate to the right, so 2-3-1 is
// 2-(3-1). Numbers accept an optional sign, '_' separators, the prefixes
// 0x, 0o and 0b, fractions, and exponents. Strings are quoted with any of
// [DefaultQuotes] and accept JSON-style escapes plus \u{...}.
//
// Whitespace between tokens is rejected unless the context was created
// with [WithWhitespace].
//
// # Operators
//
// The operator set is a registry, not part of the grammar. [DefaultOperators]
// provides comparison, logic, and arithmetic; [Context.PushOperator] adds
// or replaces operators built with [NewOperator]:
//
//	shl := lang.NewOperator().Symbol("<<").Precedence(12).
//		HandlerFunc(func(args []lang.Object) (lang.Object, error) { ... }).
//		Build()
//	c.PushOperator(shl)
//
// # Addresses
//
// An address {query} is resolved at evaluation time by the context's
// [DataSource]. The query text is passed verbatim, including nested
// braces, so {{Hello}} queries "{Hello}".
//
// # Errors
//
// Parse failures return a *[ParseError] matching [ErrParse]. Evaluation
// failures return an *[Error] matching one of the package sentinels with
// [errors.Is]. Both implement [log/slog.LogValuer].
package lang
