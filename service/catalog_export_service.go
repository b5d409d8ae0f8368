package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"aninha-confeccoes/catalog"
	"aninha-confeccoes/repository"
	"aninha-confeccoes/utils"
)

//go:embed templates/catalog.html
var templatesFS embed.FS

// productsPerPage fills an A4 page with a two-column grid
const productsPerPage = 6

// pdfTimeout bounds a whole PDF generation, browser start included
const pdfTimeout = 30 * time.Second

var catalogTemplate = template.Must(template.New("catalog.html").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templatesFS, "templates/catalog.html"))

// CatalogExportServiceInterface defines the contract for printable catalog generation
type CatalogExportServiceInterface interface {
	RenderHTML(ctx context.Context) (string, error)
	GeneratePDF(ctx context.Context) ([]byte, error)
}

type exportSize struct {
	Size    string
	Price   string
	InStock bool
}

type exportColor struct {
	Color    string
	ImageURL string
	Sizes    []exportSize
}

type exportProduct struct {
	Name     string
	Category string
	IsNew    bool
	Colors   []exportColor
}

type exportData struct {
	Title     string
	Generated string
	Contact   string
	Pages     [][]exportProduct
}

// CatalogExportService renders the catalog as a printable HTML page and PDF
type CatalogExportService struct {
	repo       repository.InventoryRepositoryInterface
	title      string
	contact    string
	baseURL    string // Base URL for photo endpoints (e.g., "http://localhost:8080")
	chromePath string
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewCatalogExportService creates a new CatalogExportService
func NewCatalogExportService(
	repo repository.InventoryRepositoryInterface,
	title string,
	contact string,
	baseURL string,
	chromePath string,
	log logrus.FieldLogger,
) *CatalogExportService {
	return &CatalogExportService{
		repo:       repo,
		title:      title,
		contact:    contact,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: chromePath,
		log:        log,
		now:        time.Now,
	}
}

// Ensure CatalogExportService implements CatalogExportServiceInterface
var _ CatalogExportServiceInterface = (*CatalogExportService)(nil)

// detectChromePath returns the configured Chrome/Chromium path if it exists,
// then the first common installation path found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// imageURL points at the optimized photo endpoint when a public base URL is
// known, otherwise at the full-size photo
func (s *CatalogExportService) imageURL(node catalog.ColorNode) string {
	photo := node.PhotoURL()
	if !utils.IsAbsoluteURL(photo) {
		return ""
	}
	if s.baseURL == "" {
		return utils.DirectDriveURL(photo)
	}
	for _, size := range node.Sizes {
		if size.Row.PhotoURL == photo {
			return fmt.Sprintf("%s/photos/%s?size=%s", s.baseURL, size.Row.ID, SizeMedium)
		}
	}
	return photo
}

// paginateProducts splits products into pages of productsPerPage
func paginateProducts(products []exportProduct) [][]exportProduct {
	var pages [][]exportProduct
	for i := 0; i < len(products); i += productsPerPage {
		end := i + productsPerPage
		if end > len(products) {
			end = len(products)
		}
		pages = append(pages, products[i:end])
	}
	return pages
}

// RenderHTML renders the full catalog, sold-out sizes included
func (s *CatalogExportService) RenderHTML(ctx context.Context) (string, error) {
	inv, err := s.repo.Load(ctx)
	if err != nil {
		return "", err
	}
	idx := catalog.NewIndex(inv.Rows)

	var products []exportProduct
	for _, node := range idx.Products() {
		product := exportProduct{Name: node.Name}
		for _, c := range node.Colors {
			color := exportColor{Color: c.Color, ImageURL: s.imageURL(c)}
			for _, size := range c.Sizes {
				if product.Category == "" {
					product.Category = size.Row.Category
				}
				if catalog.IsNew(size.Row) {
					product.IsNew = true
				}
				color.Sizes = append(color.Sizes, exportSize{
					Size:    size.Size,
					Price:   utils.FormatBRL(size.Row.Price),
					InStock: size.Row.Stock > 0,
				})
			}
			product.Colors = append(product.Colors, color)
		}
		products = append(products, product)
	}

	data := exportData{
		Title:     s.title,
		Generated: s.now().Format("02/01/2006"),
		Contact:   s.contact,
		Pages:     paginateProducts(products),
	}

	var buf bytes.Buffer
	if err := catalogTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the catalog HTML and prints it to an A4 PDF with headless Chrome
func (s *CatalogExportService) GeneratePDF(ctx context.Context) ([]byte, error) {
	html, err := s.RenderHTML(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.log.Warn("⚠️  No Chrome/Chromium found, letting chromedp auto-detect")
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			Promise.all([
				document.fonts.ready,
				Promise.all(Array.from(document.images).map(img => img.complete ? null : new Promise(resolve => {
					const timeout = setTimeout(resolve, 5000);
					img.onload = img.onerror = () => { clearTimeout(timeout); resolve(); };
				})))
			]).then(() => true);
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69", margins are in CSS
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.log.WithField("bytes", len(pdfBuf)).Info("✓ Catalog PDF generated")
	return pdfBuf, nil
}
