package service

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	renderer := NewPDFRenderer("")

	out, err := renderer.Render([]ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 300},
		{Name: "egg", MeasurementUnit: "pcs", Amount: 2},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderEmptyList(t *testing.T) {
	renderer := NewPDFRenderer("")

	out, err := renderer.Render(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderBreaksLongListsIntoPages(t *testing.T) {
	renderer := NewPDFRenderer("")

	short, err := renderer.Render([]ShoppingListItem{
		{Name: "salt", MeasurementUnit: "g", Amount: 5},
	})
	require.NoError(t, err)

	items := make([]ShoppingListItem, 200)
	for i := range items {
		items[i] = ShoppingListItem{
			Name:            fmt.Sprintf("ingredient-%03d", i),
			MeasurementUnit: "g",
			Amount:          i + 1,
		}
	}
	long, err := renderer.Render(items)
	require.NoError(t, err)

	// 200 rows at fixed line spacing cannot fit a single A4 page.
	assert.Greater(t, pageCount(long), pageCount(short))
	assert.Equal(t, 1, pageCount(short))
}

// pageCount counts page objects in an uncompressed gofpdf document.
func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page\n"))
}
