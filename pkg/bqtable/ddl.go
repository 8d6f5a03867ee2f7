package bqtable

import (
	"fmt"
	"strings"
)

// ExternalTableDDL builds the statement that (re)defines tableID as an
// external table over uri.
func ExternalTableDDL(tableID, uri, formatLabel string) string {
	return fmt.Sprintf("CREATE OR REPLACE EXTERNAL TABLE %s\nOPTIONS (\n  format = %s,\n  uris = [%s]\n)",
		quoteIdentifier(tableID),
		quoteString(formatLabel, '"'),
		quoteString(uri, '\''),
	)
}

var identifierEscaper = strings.NewReplacer("\\", "\\\\", "`", "\\`")

func quoteIdentifier(id string) string {
	return "`" + identifierEscaper.Replace(id) + "`"
}

func quoteString(s string, quote byte) string {
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
