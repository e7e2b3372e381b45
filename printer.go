// printer.go — display rendering for values and token streams.
package typhoon

import "strings"

// FormatValue renders the display form of v: what print writes and what
// the REPL echoes.
func FormatValue(v Value) string { return v.String() }

// FormatTokens renders a token stream back to source, one space between
// lexemes. For input built only from supported constructs this is a
// whitespace-normalized equivalent of the original text.
func FormatTokens(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if tok.Type == EOF {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Lexeme)
	}
	return b.String()
}
