package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	variantWidgetIDFragment = "variation_color_name"
	variantBlobID           = "twister-js-init-dpx-data"
)

// variantWidget returns the first element whose id contains
// variation_color_name, ignoring case.
func variantWidget(doc *goquery.Document) *goquery.Selection {
	var widget *goquery.Selection
	doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if strings.Contains(strings.ToLower(id), variantWidgetIDFragment) {
			widget = s
			return false
		}
		return true
	})
	return widget
}

type variantOption struct {
	ID    string
	Value string
}

// variantColors decodes the color_name section of the variant selection blob.
// ok is false when the blob is missing or not shaped as expected.
func variantColors(doc *goquery.Document) (opts []variantOption, defaultID string, ok bool) {
	sel := doc.Find("#" + variantBlobID).First()
	if sel.Length() == 0 {
		return nil, "", false
	}
	v, decoded := decodeBlob(sel.Text())
	if !decoded {
		return nil, "", false
	}
	root, isObj := v.(map[string]any)
	if !isObj {
		return nil, "", false
	}
	colors, isObj := objectField(root, "color_name")
	if !isObj {
		return nil, "", false
	}
	defaultID, _ = textField(colors, "defaultValue")
	list, _ := colors["options"].([]any)
	for _, item := range list {
		m, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		id, _ := textField(m, "id")
		val, _ := textField(m, "value")
		opts = append(opts, variantOption{ID: id, Value: val})
	}
	return opts, defaultID, true
}

// pickVariant prefers the option matching defaultID and falls back to the
// first option.
func pickVariant(opts []variantOption, defaultID string) (string, bool) {
	if defaultID != "" {
		for _, o := range opts {
			if o.ID == defaultID && o.Value != "" {
				return o.Value, true
			}
		}
	}
	if len(opts) > 0 && opts[0].Value != "" {
		return opts[0].Value, true
	}
	return "", false
}
