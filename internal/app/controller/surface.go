package controller

import (
	"github.com/mrops-br/catalog-ui/internal/app/dto"
)

// ProductGrid is the render target for the product listing
type ProductGrid interface {
	// RenderProducts replaces the grid contents with one tile per entry.
	RenderProducts(tiles []dto.Tile)
}

// ProductForm is the modal form used for both create and edit
type ProductForm interface {
	ShowModal(title string)
	HideModal()
	FillForm(values dto.FormValues)
	ResetForm()
	FormValues() dto.FormValues
}

// Alerter surfaces a blocking message to the user
type Alerter interface {
	Alert(message string)
}

// Surface is everything the controller draws on
type Surface interface {
	ProductGrid
	ProductForm
	Alerter
}

const (
	TitleAddProduct  = "Add Product"
	TitleEditProduct = "Edit Product"
)
