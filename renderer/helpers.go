package renderer

import "strings"

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// escapeCell makes s safe to use inside a markdown table cell.
func escapeCell(s string) string { return cellEscaper.Replace(s) }
