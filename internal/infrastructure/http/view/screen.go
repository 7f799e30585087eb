package view

import (
	"sync"

	"github.com/mrops-br/catalog-ui/internal/app/controller"
	"github.com/mrops-br/catalog-ui/internal/app/dto"
)

var _ controller.Surface = (*Screen)(nil)

// Screen is the page state of one browser session: the product grid, the
// modal with its form fields, and alerts waiting to be shown.
type Screen struct {
	mu         sync.Mutex
	tiles      []dto.Tile
	modalOpen  bool
	modalTitle string
	form       dto.FormValues
	alerts     []string
}

// NewScreen creates an empty screen with the modal hidden
func NewScreen() *Screen {
	return &Screen{}
}

// RenderProducts replaces the grid contents
func (s *Screen) RenderProducts(tiles []dto.Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles = append([]dto.Tile(nil), tiles...)
}

func (s *Screen) ShowModal(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = true
	s.modalTitle = title
}

func (s *Screen) HideModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = false
}

func (s *Screen) FillForm(values dto.FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = values
}

func (s *Screen) ResetForm() {
	s.FillForm(dto.FormValues{})
}

func (s *Screen) FormValues() dto.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Alert queues a message for the next render
func (s *Screen) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, message)
}

// Page is an immutable snapshot of a screen, ready for the templates
type Page struct {
	Tiles      []dto.Tile
	ModalOpen  bool
	ModalTitle string
	Form       dto.FormValues
	Alerts     []string
}

// Snapshot copies the screen state. Pending alerts are handed over to the
// snapshot and cleared from the screen so each is shown once.
func (s *Screen) Snapshot() Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := Page{
		Tiles:      append([]dto.Tile(nil), s.tiles...),
		ModalOpen:  s.modalOpen,
		ModalTitle: s.modalTitle,
		Form:       s.form,
		Alerts:     s.alerts,
	}
	s.alerts = nil
	return page
}
