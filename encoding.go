package main

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

// decodeDDLText converts raw file bytes to a UTF-8 string. The corpus
// is DBA-edited SQL from Korean-locale servers, so the ladder is UTF-8,
// then CP949/EUC-KR, then Latin-1. The EUC-KR decoder substitutes
// U+FFFD for invalid sequences rather than failing, so substitution is
// what demotes a file to the Latin-1 rung. Latin-1 decoding cannot
// fail, so this function always returns usable text.
func decodeDDLText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if decoded, err := korean.EUCKR.NewDecoder().Bytes(raw); err == nil &&
		!strings.ContainsRune(string(decoded), utf8.RuneError) {
		return string(decoded)
	}
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(decoded)
}
