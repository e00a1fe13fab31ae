package extract

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func mustPage(t testing.TB, markup string) *Page {
	t.Helper()
	p, err := Parse([]byte(markup), "text/html; charset=utf-8")
	require.NoError(t, err)
	return p
}

func wrap(body string) string {
	return "<!doctype html><html><head><title>Shop</title></head><body>" + body + "</body></html>"
}

func TestExtract_StructuredDataOnly(t *testing.T) {
	markup := wrap(`<script type="application/ld+json">
	{"@context":"https://schema.org","@type":"Product","name":"Widget",
	 "offers":{"@type":"Offer","price":"19.99"},"color":"Red","releaseDate":"2021-05-01"}
	</script>`)

	rec, err := New().Extract([]byte(markup), "text/html")
	require.NoError(t, err)

	want := ProductRecord{Title: strp("Widget"), Year: strp("2021"), Color: strp("Red"), Price: strp("19.99")}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_DetailBulletsAndOnPagePrice(t *testing.T) {
	markup := wrap(`
	<div id="detailBullets_feature_div"><ul>
	  <li><span class="a-list-item">Date First Available: March 3, 2019</span></li>
	  <li><span class="a-list-item">Color: Blue</span></li>
	</ul></div>
	<span class="a-price"><span class="a-offscreen">$29.99</span><span aria-hidden="true">$29<sup>99</sup></span></span>`)

	rec, prov := New().Resolve(mustPage(t, markup))

	want := ProductRecord{Year: strp("2019"), Color: strp("Blue"), Price: strp("$29.99")}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, Provenance{
		FieldYear:  "year.detail-bullets",
		FieldColor: "color.detail-bullets",
		FieldPrice: "price.offscreen",
	}, prov)
}

func TestExtract_VariantBlobDefault(t *testing.T) {
	markup := wrap(`<script type="a-state" id="twister-js-init-dpx-data">
	{"color_name":{"options":[{"id":"a","value":"Black"},{"id":"b","value":"White"}],"defaultValue":"b"}}
	</script>`)

	rec, prov := New().Resolve(mustPage(t, markup))
	require.NotNil(t, rec.Color)
	require.Equal(t, "White", *rec.Color)
	require.Equal(t, "color.variant-blob", prov[FieldColor])
}

func TestExtract_MalformedVariantBlob(t *testing.T) {
	markup := wrap(`<h1 id="productTitle"> Lamp </h1>
	<script id="twister-js-init-dpx-data">P.when('A').execute(function(A){ var x = {; });</script>
	<span class="a-price"><span class="a-offscreen">$5.00</span></span>`)

	rec, err := New().Extract([]byte(markup), "")
	require.NoError(t, err)

	want := ProductRecord{Title: strp("Lamp"), Price: strp("$5.00")}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NonStrictJSONBlobsUnresolved(t *testing.T) {
	markup := wrap(`<script type="application/ld+json">{"@type": "Product", "name": "Loose", "offers": {"price": "9.99"},}</script>
	<script id="twister-js-init-dpx-data">{'color_name': {'options': [{'id': 'a', 'value': 'Black'},], 'defaultValue': 'a'}}</script>
	<span class="a-price"><span class="a-offscreen">$4.00</span></span>`)

	rec, prov := New().Resolve(mustPage(t, markup))

	want := ProductRecord{Price: strp("$4.00")}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "price.offscreen", prov[FieldPrice])
}

func TestExtract_EmptyPageLeavesAllFieldsNil(t *testing.T) {
	rec, err := New().Extract([]byte(wrap("<p>nothing here</p>")), "text/html")
	require.NoError(t, err)
	require.Zero(t, rec.Resolved())
	for _, f := range Fields() {
		_, ok := rec.Get(f)
		require.False(t, ok, "field %s", f)
	}
}

func TestExtract_FirstStrategyWinsPerField(t *testing.T) {
	markup := wrap(`
	<span id="productTitle">Page Title</span>
	<script type="application/ld+json">{"@type":"Product","name":"Blob Title","color":"Green",
	  "releaseDate":"not dated","offers":[{"price":"1.00"}]}</script>
	<div id="detailBullets_feature_div">
	  <span class="a-list-item"><span class="a-text-bold">Date First Available &rlm; : &lrm;</span><span>June 1, 2018</span></span>
	  <span class="a-list-item"><span>Color</span><span>Bullet Blue</span></span>
	</div>
	<table id="productDetails_detailBullets_sections1">
	  <tr><th>Date First Available</th><td>January 9, 2015</td></tr>
	  <tr><th>Color</th><td>Table Teal</td></tr>
	</table>
	<span class="a-price"><span class="a-offscreen">$7.49</span></span>`)

	rec, prov := New().Resolve(mustPage(t, markup))

	want := ProductRecord{Title: strp("Page Title"), Year: strp("2018"), Color: strp("Green"), Price: strp("$7.49")}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "title.product-title", prov[FieldTitle])
	require.Equal(t, "year.detail-bullets", prov[FieldYear])
	require.Equal(t, "color.structured-data", prov[FieldColor])
	require.Equal(t, "price.offscreen", prov[FieldPrice])
}

func TestResolve_LaterStrategiesNotConsultedAfterSuccess(t *testing.T) {
	var calls []string
	track := func(name, value string) Strategy {
		return Strategy{Name: name, Resolve: func(*Page) (string, bool) {
			calls = append(calls, name)
			return value, value != ""
		}}
	}
	e := New(WithCascades(Cascade{Field: FieldTitle, Strategies: []Strategy{
		track("miss", ""),
		track("hit", "First"),
		track("late", "Second"),
	}}))

	rec, prov := e.Resolve(mustPage(t, wrap("")))
	require.Equal(t, []string{"miss", "hit"}, calls)
	require.Equal(t, "First", *rec.Title)
	require.Equal(t, "hit", prov[FieldTitle])
}

func TestResolve_RepeatedCascadeCannotOverwrite(t *testing.T) {
	fixed := func(v string) Strategy {
		return Strategy{Name: v, Resolve: func(*Page) (string, bool) { return v, true }}
	}
	e := New(WithCascades(
		Cascade{Field: FieldPrice, Strategies: []Strategy{fixed("$1")}},
		Cascade{Field: FieldPrice, Strategies: []Strategy{fixed("$2")}},
	))
	rec, _ := e.Resolve(mustPage(t, wrap("")))
	require.Equal(t, "$1", *rec.Price)
}

func TestResolve_WhitespaceOnlyValueIsAMiss(t *testing.T) {
	e := New(WithCascades(Cascade{Field: FieldColor, Strategies: []Strategy{
		{Name: "blank", Resolve: func(*Page) (string, bool) { return "  \n ", true }},
		{Name: "real", Resolve: func(*Page) (string, bool) { return "Navy", true }},
	}}))
	rec, prov := e.Resolve(mustPage(t, wrap("")))
	require.Equal(t, "Navy", *rec.Color)
	require.Equal(t, "real", prov[FieldColor])
}

func TestResolve_PanickingStrategyIsAMiss(t *testing.T) {
	e := New(WithCascades(
		Cascade{Field: FieldYear, Strategies: []Strategy{
			{Name: "boom", Resolve: func(*Page) (string, bool) { panic("bad markup") }},
			{Name: "ok", Resolve: func(*Page) (string, bool) { return "1999", true }},
		}},
		Cascade{Field: FieldTitle, Strategies: []Strategy{
			{Name: "title", Resolve: func(*Page) (string, bool) { return "Still here", true }},
		}},
	))
	rec, _ := e.Resolve(mustPage(t, wrap("")))
	require.Equal(t, "1999", *rec.Year)
	require.Equal(t, "Still here", *rec.Title)
}

func TestExtract_YearAlwaysFourDigitsInRange(t *testing.T) {
	valid := regexp.MustCompile(`^(19|20)\d{2}$`)
	dates := []string{
		"2021-05-01", "March 3, 2019", "released 1987", "circa 1899 or 2100",
		"12019", "20190", "model 2099 edition", "1900", "n/a",
	}
	for _, d := range dates {
		markup := wrap(`<script type="application/ld+json">{"@type":"Product","releaseDate":"` + d + `"}</script>`)
		rec, err := New().Extract([]byte(markup), "text/html")
		require.NoError(t, err)
		if rec.Year != nil {
			require.Regexp(t, valid, *rec.Year, "date %q", d)
		}
	}
}

func TestParse_NonUTF8Charset(t *testing.T) {
	// "Café" encoded as windows-1252.
	body := []byte("<html><body><span id=\"productTitle\">Caf\xe9</span></body></html>")
	p, err := Parse(body, "text/html; charset=windows-1252")
	require.NoError(t, err)
	v, ok := titleFromElement(p)
	require.True(t, ok)
	require.Equal(t, "Café", v)
}

func BenchmarkExtract(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`<div id="detailBullets_feature_div">`)
	for i := 0; i < 200; i++ {
		sb.WriteString(`<span class="a-list-item"><span>Item model number</span><span>X-100</span></span>`)
	}
	sb.WriteString(`</div><span class="a-price"><span class="a-offscreen">$1.00</span></span>`)
	body := []byte(wrap(sb.String()))
	e := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Extract(body, "text/html")
	}
}
