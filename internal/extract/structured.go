package extract

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const ldJSONSelector = `script[type="application/ld+json"]`

// decodeBlob decodes embedded script text as strict JSON. Text that is not
// exactly one JSON value is reported as absent.
func decodeBlob(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	var v any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

// findProductBlob scans ld+json scripts in document order and returns the
// first Product object. Later scripts and siblings are ignored once found.
func findProductBlob(doc *goquery.Document) map[string]any {
	var product map[string]any
	doc.Find(ldJSONSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := decodeBlob(s.Text())
		if !ok {
			return true
		}
		switch data := v.(type) {
		case []any:
			for _, item := range data {
				if m, ok := item.(map[string]any); ok && isProductType(m["@type"]) {
					product = m
					break
				}
			}
		case map[string]any:
			if isProductType(data["@type"]) {
				product = data
			}
		}
		return product == nil
	})
	return product
}

func isProductType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Product"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// scalarText renders a decoded scalar as text. Numbers keep their literal
// form; objects, lists and booleans are not text.
func scalarText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	default:
		return "", false
	}
	s = cleanText(s)
	return s, s != ""
}

// objectField returns m[key] as an object when it is one.
func objectField(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	obj, ok := m[key].(map[string]any)
	return obj, ok
}

// textField returns m[key] as text when it is a scalar.
func textField(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	return scalarText(m[key])
}
