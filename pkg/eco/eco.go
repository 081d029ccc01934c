// Package eco implements a keyword heuristic that marks marketplace products
// as eco-friendly. It is a display hint, not a certification.
package eco

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// Single-word entries match a token that starts with them, so stems cover
// gender and plural forms. Multi-word entries match as phrases.
var allowKeywords = []string{
	"ecologic", "eco", "ecofriendly", "sustentabl", "sostenibl",
	"reutiliz", "recicl", "biodegrad", "compost", "organic",
	"zero waste", "cero residuo", "libre de plastico", "sin plastico",
	"solar", "recargabl", "vegan", "natural",
}

var denyKeywords = []string{
	"electric", "desechabl", "descartabl", "gasolina", "bencina",
	"combustion", "poliestireno", "plumavit", "telgopor",
	"pvc", "pila", "pilas", "aerosol",
}

// Raw materials accepted on their own, whether named by an attribute value
// or by the product title.
var materials = []string{
	"acero inoxidable", "bambu", "vidrio", "madera", "corcho",
	"algodon", "lino", "yute", "canamo", "fibra de coco", "silicona platino",
	"cera de abeja", "papel kraft",
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// IsEcological reports whether p looks eco-friendly. A product qualifies when
// an attribute value names an accepted material, or when its text matches an
// allow-listed keyword or material and no deny-listed keyword.
func IsEcological(p *domain.Product) bool {
	if p == nil {
		return false
	}

	for _, a := range p.Attributes {
		if matchesAny(Normalize(a.Value), materials) {
			return true
		}
	}

	var b strings.Builder
	for _, s := range []string{p.Name, p.Title, p.Subtitle, p.CategoryID} {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	for _, a := range p.Attributes {
		b.WriteString(a.Name)
		b.WriteByte(' ')
		b.WriteString(a.Value)
		b.WriteByte(' ')
	}
	text := Normalize(b.String())

	if matchesAny(text, denyKeywords) {
		return false
	}
	if matchesAny(text, allowKeywords) {
		return true
	}
	return matchesAny(Normalize(p.Title), materials)
}

// Filter returns the products accepted by IsEcological, in order.
func Filter(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if IsEcological(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// Normalize lowercases s and strips diacritics, so "Ecológico" and
// "ecologico" compare equal.
func Normalize(s string) string {
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func matchesAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	tokens := tokenize(text)
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(" "+strings.Join(tokens, " ")+" ", " "+kw+" ") {
				return true
			}
			continue
		}
		for _, t := range tokens {
			if t == kw || (len(kw) > 4 && strings.HasPrefix(t, kw)) {
				return true
			}
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
