package extract

// Strategy is one attempt to derive a field value from one region or format
// of the page. A miss returns ok=false; it never aborts extraction.
type Strategy struct {
	Name    string
	Resolve func(p *Page) (value string, ok bool)
}

// Cascade is the ordered list of strategies for one field.
type Cascade struct {
	Field      Field
	Strategies []Strategy
}

// DefaultCascades returns the product page cascades in precedence order.
func DefaultCascades() []Cascade {
	return []Cascade{
		{Field: FieldTitle, Strategies: []Strategy{
			{Name: "title.product-title", Resolve: titleFromElement},
			{Name: "title.structured-data", Resolve: titleFromProduct},
		}},
		{Field: FieldYear, Strategies: []Strategy{
			{Name: "year.structured-data", Resolve: yearFromProduct},
			{Name: "year.detail-bullets", Resolve: yearFromBullets},
			{Name: "year.detail-tables", Resolve: yearFromTables},
		}},
		{Field: FieldColor, Strategies: []Strategy{
			{Name: "color.structured-data", Resolve: colorFromProduct},
			{Name: "color.detail-bullets", Resolve: colorFromBullets},
			{Name: "color.detail-tables", Resolve: colorFromTables},
			{Name: "color.variant-selection", Resolve: colorFromVariantSelection},
			{Name: "color.variant-image", Resolve: colorFromVariantImage},
			{Name: "color.variant-blob", Resolve: colorFromVariantBlob},
		}},
		{Field: FieldPrice, Strategies: []Strategy{
			{Name: "price.structured-data", Resolve: priceFromProduct},
			{Name: "price.offscreen", Resolve: priceFromOffscreen},
		}},
	}
}

func titleFromElement(p *Page) (string, bool) {
	return nonEmpty(p.doc.Find("#productTitle").First().Text())
}

func titleFromProduct(p *Page) (string, bool) {
	return textField(p.Product(), "name")
}

func yearFromProduct(p *Page) (string, bool) {
	rd, ok := p.Product()["releaseDate"].(string)
	if !ok {
		return "", false
	}
	return matchYear(rd)
}

func yearFromBullets(p *Page) (string, bool) {
	return firstPair(detailBullets(p.doc), isFirstAvailableBullet, matchYear)
}

func yearFromTables(p *Page) (string, bool) {
	return firstPair(detailRows(p.doc), isFirstAvailableHeader, matchYear)
}

func colorFromProduct(p *Page) (string, bool) {
	return textField(p.Product(), "color")
}

func colorFromBullets(p *Page) (string, bool) {
	return firstPair(detailBullets(p.doc), isColorBullet, nonEmpty)
}

func colorFromTables(p *Page) (string, bool) {
	return firstPair(detailRows(p.doc), isColorHeader, nonEmpty)
}

func colorFromVariantSelection(p *Page) (string, bool) {
	w := variantWidget(p.doc)
	if w == nil {
		return "", false
	}
	return nonEmpty(w.Find("span.selection").First().Text())
}

func colorFromVariantImage(p *Page) (string, bool) {
	w := variantWidget(p.doc)
	if w == nil {
		return "", false
	}
	alt, _ := w.Find("img[alt]").First().Attr("alt")
	return nonEmpty(alt)
}

func colorFromVariantBlob(p *Page) (string, bool) {
	opts, defaultID, ok := variantColors(p.doc)
	if !ok {
		return "", false
	}
	return pickVariant(opts, defaultID)
}

func priceFromProduct(p *Page) (string, bool) {
	offers, ok := objectField(p.Product(), "offers")
	if !ok {
		return "", false
	}
	return textField(offers, "price")
}

func priceFromOffscreen(p *Page) (string, bool) {
	return nonEmpty(p.doc.Find("span.a-price span.a-offscreen").First().Text())
}
