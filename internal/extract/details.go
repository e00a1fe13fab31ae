package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// detailTableIDs are the product detail tables scanned, in order.
var detailTableIDs = []string{
	"productDetails_detailBullets_sections1",
	"productDetails_techSpec_section_1",
	"productDetails_techSpec_section_2",
}

const detailBulletsSelector = "#detailBullets_feature_div .a-list-item"

// matchYear returns the first 1900-2099 year in s.
func matchYear(s string) (string, bool) {
	y := yearPattern.FindString(s)
	return y, y != ""
}

// detailPair is one key/value entry from a bullet list or a detail table.
type detailPair struct {
	// Key is lower-cased.
	Key   string
	Value string
}

// detailBullets returns the key/value pairs of the detail bullets list.
// Bullets that do not carry both a key and a value are skipped.
func detailBullets(doc *goquery.Document) []detailPair {
	var pairs []detailPair
	doc.Find(detailBulletsSelector).Each(func(_ int, s *goquery.Selection) {
		if pair, ok := bulletPair(textSegments(s)); ok {
			pairs = append(pairs, pair)
		}
	})
	return pairs
}

func bulletPair(segs []string) (detailPair, bool) {
	switch {
	case len(segs) >= 2:
		key := trimKey(segs[0])
		if key == "" {
			return detailPair{}, false
		}
		return detailPair{Key: strings.ToLower(key), Value: segs[1]}, true
	case len(segs) == 1:
		k, v, ok := strings.Cut(segs[0], ":")
		key, val := trimKey(k), cleanText(v)
		if !ok || key == "" || val == "" {
			return detailPair{}, false
		}
		return detailPair{Key: strings.ToLower(key), Value: val}, true
	}
	return detailPair{}, false
}

// detailRows returns the header/value pairs of the known detail tables, table
// by table in fixed order, rows in document order. Rows missing a header or
// value cell are skipped.
func detailRows(doc *goquery.Document) []detailPair {
	var pairs []detailPair
	for _, id := range detailTableIDs {
		doc.Find("table#" + id).First().Find("tr").Each(func(_ int, row *goquery.Selection) {
			th, td := row.Find("th").First(), row.Find("td").First()
			if th.Length() == 0 || td.Length() == 0 {
				return
			}
			pairs = append(pairs, detailPair{
				Key:   strings.ToLower(selectionText(th)),
				Value: selectionText(td),
			})
		})
	}
	return pairs
}

// firstPair returns the first pair accepted by match whose value yields a
// result from pick.
func firstPair(pairs []detailPair, match func(key string) bool, pick func(value string) (string, bool)) (string, bool) {
	for _, p := range pairs {
		if !match(p.Key) {
			continue
		}
		if v, ok := pick(p.Value); ok {
			return v, true
		}
	}
	return "", false
}

func nonEmpty(s string) (string, bool) {
	s = cleanText(s)
	return s, s != ""
}

func isFirstAvailableBullet(key string) bool {
	return strings.Contains(key, "date first available")
}

func isFirstAvailableHeader(key string) bool {
	return strings.Contains(key, "date first available") || strings.Contains(key, "first available")
}

func isColorBullet(key string) bool {
	return strings.HasPrefix(key, "color")
}

func isColorHeader(key string) bool {
	switch key {
	case "color", "colour", "color name":
		return true
	}
	return false
}
