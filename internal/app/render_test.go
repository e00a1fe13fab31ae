package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/pricetracker/internal/extract"
)

func TestRenderRecord_JSONKeysAndNulls(t *testing.T) {
	price := "$5"
	out, err := renderRecord(extract.ProductRecord{Price: &price}, FormatJSON)
	require.NoError(t, err)
	want := "{\n  \"title\": null,\n  \"year\": null,\n  \"color\": null,\n  \"price\": \"$5\"\n}\n"
	require.Equal(t, want, string(out))
}

func TestRenderRecord_Table(t *testing.T) {
	title := "Kettle"
	out, err := renderRecord(extract.ProductRecord{Title: &title}, FormatTable)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	require.Contains(t, string(out), "Kettle")
	require.Contains(t, string(out), "price")
}

func TestRenderRecord_UnknownFormat(t *testing.T) {
	_, err := renderRecord(extract.ProductRecord{}, "xml")
	require.Error(t, err)
}
