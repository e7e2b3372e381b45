// errors.go: user-facing error wrapping and caret-snippet rendering
//
// Turns stage diagnostics into readable snippets with a caret pointing at
// the offending column:
//
//	PARSE ERROR at 3:12: expected ')' after expression
//
//	   2 | var x = (1 + 2
//	   3 |              ;
//	     |            ^
//	   4 | print x;
//
// The snippet includes up to one line of context before and after the
// error, numbers the lines, and places the caret under the 1-based column.
// Unknown error kinds pass through unchanged. Output is plain text; any
// coloring is the front end's business.
package typhoon

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes the interpreter's error
// kinds (including a StaticErrors list, whose entries are each wrapped)
// and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name in the
// header ("PARSE ERROR in <name> at ...").
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lex/parse/resolve Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ResolveError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RESOLVE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		// RuntimeError is already 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Msg))
	case StaticErrors:
		parts := make([]string, len(e))
		for i, sub := range e {
			parts[i] = WrapErrorWithName(sub, srcName, src).Error()
		}
		return fmt.Errorf("%s", strings.Join(parts, "\n"))
	default:
		return err
	}
}

// prettyErrorStringLabeled builds the snippet with a header and a caret.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
