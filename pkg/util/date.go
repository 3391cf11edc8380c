package util

import (
	"strings"
	"time"
)

// RunDateLayout formats the run date in output file names.
const RunDateLayout = "2006_01_02"

// OutputFileName builds "<SYMBOL>_<TYPE>_<YYYY_MM_DD>.<ext>".
func OutputFileName(symbol, optionType string, runAt time.Time, ext string) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(symbol))
	if optionType != "" {
		b.WriteByte('_')
		b.WriteString(strings.ToUpper(optionType))
	}
	b.WriteByte('_')
	b.WriteString(runAt.Format(RunDateLayout))
	if ext != "" {
		b.WriteByte('.')
		b.WriteString(strings.TrimPrefix(ext, "."))
	}
	return b.String()
}
