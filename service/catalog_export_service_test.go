package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aninha-confeccoes/logger"
	"aninha-confeccoes/models"
	"aninha-confeccoes/repository"
)

func exportRepo() *repository.MemoryRepository {
	return repository.NewMemoryRepository(
		models.CatalogRow{ID: "101", Name: "vestido floral", Color: "azul", Size: "P", Category: "vestidos", IsNew: "sim",
			Price: decimal.NewFromInt(120), Stock: 2, PhotoURL: "https://drive.google.com/file/d/abc123/view"},
		models.CatalogRow{ID: "102", Name: "vestido floral", Color: "azul", Size: "M",
			Price: decimal.NewFromInt(120), Stock: 0},
		models.CatalogRow{ID: "103", Name: "saia <midi>", Color: "preto", Size: "G",
			Price: decimal.RequireFromString("79.9"), Stock: 1},
	)
}

func TestRenderHTML(t *testing.T) {
	svc := NewCatalogExportService(exportRepo(), "Aninha Confecções", "+55 81 98670-7825", "", "", logger.Discard())
	svc.now = func() time.Time { return time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC) }

	html, err := svc.RenderHTML(context.Background())
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Aninha Confecções</title>")
	assert.Contains(t, html, "05/03/2026")
	assert.Contains(t, html, "VESTIDO FLORAL")
	assert.Contains(t, html, "NOVIDADE")
	assert.Contains(t, html, "P · R$ 120.00")
	assert.Contains(t, html, `class="soldout">M · R$ 120.00`)
	assert.Contains(t, html, "R$ 79.90")
	// Drive share links become direct links without a public base URL
	assert.Contains(t, html, `src="https://drive.google.com/uc?id=abc123"`)
	// Names are escaped
	assert.Contains(t, html, "SAIA &lt;MIDI&gt;")
	assert.Equal(t, 1, strings.Count(html, `<section class="page">`))
}

func TestRenderHTMLUsesPhotoEndpoint(t *testing.T) {
	svc := NewCatalogExportService(exportRepo(), "Catálogo", "", "http://localhost:8080/", "", logger.Discard())

	html, err := svc.RenderHTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, `src="http://localhost:8080/photos/101?size=medium"`)
	assert.NotContains(t, html, "<footer>")
}

func TestRenderHTMLEmptyCatalog(t *testing.T) {
	svc := NewCatalogExportService(repository.NewMemoryRepository(), "Catálogo", "", "", "", logger.Discard())

	html, err := svc.RenderHTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "Nenhum produto disponível.")
}

func TestPaginateProducts(t *testing.T) {
	products := make([]exportProduct, 13)
	pages := paginateProducts(products)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 6)
	assert.Len(t, pages[2], 1)
	assert.Empty(t, paginateProducts(nil))
}
