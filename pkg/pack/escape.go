package pack

import "strings"

// The replacer scans once, so the backslash can never be escaped twice no
// matter where it sits in the argument list. `</` and `<!--` are escaped so
// the literal can neither close the host script element nor push the HTML
// parser into its script-data-escaped state. U+2028/U+2029 are line
// terminators for pre-ES2019 engines.
var (
	literalEscaper = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
		"</", `<\/`,
		"<!--", `<\!--`,
		"\u2028", `\u2028`,
		"\u2029", `\u2029`,
	)
	literalUnescaper = strings.NewReplacer(
		`\\`, `\`,
		`\'`, `'`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
		`\/`, "/",
		`\!`, "!",
		`\u2028`, "\u2028",
		`\u2029`, "\u2029",
	)
)

// EscapeLiteral makes s safe to embed between single quotes in an inline
// script.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// UnescapeLiteral reverses EscapeLiteral.
func UnescapeLiteral(s string) string {
	return literalUnescaper.Replace(s)
}
