package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mrops-br/catalog-ui/internal/app/dto"
	"github.com/mrops-br/catalog-ui/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenSnapshotDrainsAlerts(t *testing.T) {
	screen := NewScreen()
	screen.Alert("Error: boom")

	first := screen.Snapshot()
	second := screen.Snapshot()

	assert.Equal(t, []string{"Error: boom"}, first.Alerts)
	assert.Empty(t, second.Alerts)
}

func TestScreenModalAndForm(t *testing.T) {
	screen := NewScreen()

	screen.ShowModal("Edit Product")
	screen.FillForm(dto.FormValues{ID: "3", Name: "Pen"})

	page := screen.Snapshot()
	assert.True(t, page.ModalOpen)
	assert.Equal(t, "Edit Product", page.ModalTitle)
	assert.Equal(t, "Pen", screen.FormValues().Name)

	screen.HideModal()
	screen.ResetForm()

	page = screen.Snapshot()
	assert.False(t, page.ModalOpen)
	assert.Equal(t, dto.FormValues{}, page.Form)
}

func TestScreenRenderProductsCopiesTiles(t *testing.T) {
	screen := NewScreen()
	tiles := dto.ToTileList([]domain.Product{{ID: 1, Name: "A"}})

	screen.RenderProducts(tiles)
	tiles[0].Name = "changed"

	assert.Equal(t, "A", screen.Snapshot().Tiles[0].Name)
}

func renderPage(t *testing.T, page Page) string {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, page))
	return buf.String()
}

func TestRenderTiles(t *testing.T) {
	tiles := dto.ToTileList([]domain.Product{
		{ID: 1, Name: "A", Price: 1.5, Quantity: 2, Description: "d", Category: "c", DateAdded: "2024-01-01", ImageURL: "http://x/a.png"},
		{ID: 2, Name: "B", Price: 2, Quantity: 0},
	})

	html := renderPage(t, Page{Tiles: tiles})

	assert.Contains(t, html, `id="product-grid"`)
	assert.Contains(t, html, `id="add-product-button"`)
	assert.Equal(t, 2, strings.Count(html, `class="product-tile"`))
	assert.Contains(t, html, "Price: $1.5")
	assert.Contains(t, html, "Quantity: 2")
	assert.Contains(t, html, "Date Added: 2024-01-01")
	assert.Contains(t, html, `href="/products/2/edit"`)
	assert.Contains(t, html, `action="/products/1/delete"`)
	assert.NotContains(t, html, `id="product-modal"`)
}

func TestRenderEscapesProductText(t *testing.T) {
	tiles := dto.ToTileList([]domain.Product{{ID: 1, Name: "<b>bold</b>"}})

	html := renderPage(t, Page{Tiles: tiles})

	assert.NotContains(t, html, "<b>bold</b>")
	assert.Contains(t, html, "&lt;b&gt;bold&lt;/b&gt;")
}

func TestRenderModalWithFormFields(t *testing.T) {
	html := renderPage(t, Page{
		ModalOpen:  true,
		ModalTitle: "Add Product",
		Form:       dto.FormValues{Name: "Pen", Price: "1.5"},
	})

	assert.Contains(t, html, `id="product-modal"`)
	assert.Contains(t, html, `id="product-form"`)
	assert.Contains(t, html, `id="close-modal"`)
	assert.Contains(t, html, `<h2 id="modal-title">Add Product</h2>`)
	for _, field := range dto.FormFieldIDs {
		assert.Contains(t, html, `id="`+field+`"`, field)
	}
	assert.Contains(t, html, `value="Pen"`)
	assert.Contains(t, html, `value="1.5"`)
}

func TestRenderAlerts(t *testing.T) {
	html := renderPage(t, Page{Alerts: []string{"Error: Failed to save product"}})

	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, `alert("Error: Failed to save product")`)
}
