package extract

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Page is a parsed product page. Strategies only query it; the embedded
// product blob is decoded at most once and shared by every field.
type Page struct {
	doc *goquery.Document

	productOnce sync.Once
	product     map[string]any
}

// NewPage wraps an already parsed document.
func NewPage(doc *goquery.Document) *Page {
	return &Page{doc: doc}
}

// Parse decodes body using the charset announced by contentType (or sniffed
// from the markup) and parses it into a queryable document.
func Parse(body []byte, contentType string) (*Page, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewPage(goquery.NewDocumentFromNode(root)), nil
}

// Document exposes the underlying document for ad hoc queries.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Product returns the first schema.org Product object embedded in the page,
// or nil when there is none.
func (p *Page) Product() map[string]any {
	p.productOnce.Do(func() {
		p.product = findProductBlob(p.doc)
	})
	return p.product
}
