package lexer

import (
	"strings"
	"testing"
)

const benchmarkSource = `let five = 5;
let ten = 10;
let add = fn(x, y) {
  x + y;
};
let result = add(five, ten);
if (5 < 10) { return true; } else { return false; }
10 == 10; 10 != 9;
`

func BenchmarkLexer(b *testing.B) {
	source := strings.Repeat(benchmarkSource, 50)

	b.SetBytes(int64(len(source)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l := New(source)

		tokenCount := 0
		for {
			tok, err := l.NextToken()
			if err != nil {
				b.Fatal("Lexer error:", err)
			}
			tokenCount++
			if tok.Type == TokenEOF {
				break
			}
		}

		if i == 0 {
			b.ReportMetric(float64(tokenCount), "tokens/op")
		}
	}
}
