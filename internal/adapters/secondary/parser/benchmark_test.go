package parser

import (
	"testing"
)

var benchmarkDeck = []byte(`---
title: Benchmark Presentation
author: Test Author
template: quarterly
---

# Introduction
## Where we are

Welcome to this benchmark presentation with **bold** and *italic* text.

Note: This is a speaker note

---

<!-- layout: 1 -->
# Main Content

Here's a list:
- Item 1
- Item 2
- Item 3

And a code block:
` + "```go\nfunc main() {\n    fmt.Println(\"Hello, World!\")\n}\n```" + `

---

### Complex Slide

| Header 1 | Header 2 |
|----------|----------|
| Cell 1   | Cell 2   |

> This is a blockquote with some content

1. Ordered item 1
2. Ordered item 2

---

# Conclusion

Thank you for watching!`)

func BenchmarkGoldmarkParser_Parse(b *testing.B) {
	parser := NewGoldmarkParser()
	ctx := b.Context()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(ctx, benchmarkDeck); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeckAdapter_ParseDeck(b *testing.B) {
	adapter := NewDeckAdapter(NewGoldmarkParser())
	ctx := b.Context()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := adapter.ParseDeck(ctx, benchmarkDeck); err != nil {
			b.Fatal(err)
		}
	}
}
