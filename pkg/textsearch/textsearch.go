// Package textsearch normaliza los términos de búsqueda libre antes de llegar a SQL.
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxTermLen limita el término para no generar patrones LIKE enormes.
const maxTermLen = 100

// Normalize compone el texto en NFC (los clientes envían "ş" o "é" descompuestos),
// colapsa espacios y recorta a maxTermLen runas. Devuelve "" si no queda nada útil.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	if r := []rune(s); len(r) > maxTermLen {
		s = string(r[:maxTermLen])
	}
	return s
}

// LikePattern devuelve el patrón %term% con los comodines de LIKE escapados (ESCAPE '\').
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// Contains compara sin distinguir mayúsculas; lo usa el store en memoria para imitar ILIKE.
func Contains(haystack, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(norm.NFC.String(haystack)), strings.ToLower(term))
}
