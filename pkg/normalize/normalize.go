package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve el texto en minúsculas y sin diacríticos, para búsquedas
// insensibles a tildes ("Azúcar" -> "azucar"). Se usa al indexar el nombre de
// producto y al preparar el término de búsqueda del catálogo.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
