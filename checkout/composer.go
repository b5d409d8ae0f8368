package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"aninha-confeccoes/models"
	"aninha-confeccoes/utils"
)

// Defaults used when the composer is built without explicit settings
const (
	DefaultHeader        = "NOVO PEDIDO - ANINHA CONFECÇÕES"
	DefaultMessagingHost = "wa.me"
)

var (
	// ErrEmptyName is returned when the order has no customer name
	ErrEmptyName = fmt.Errorf("customer name is required: %w", models.ErrValidation)
	// ErrEmptyCart is returned when the order has no lines
	ErrEmptyCart = fmt.Errorf("cart is empty: %w", models.ErrValidation)
)

// ComposeRequest is everything an order summary is rendered from
type ComposeRequest struct {
	CustomerName string
	CustomerID   string
	Lines        []models.CartLine
	Total        decimal.Decimal
}

// Order is a rendered order summary and the deep-link that carries it
type Order struct {
	Text string
	Link string
}

// Composer renders carts into order messages for one shop contact
type Composer struct {
	header string
	host   string
	number string
}

// NewComposer creates a composer. phone may contain any formatting; only its
// digits are used in the link.
func NewComposer(header, messagingHost, phone string) *Composer {
	if strings.TrimSpace(header) == "" {
		header = DefaultHeader
	}
	messagingHost = strings.Trim(strings.TrimSpace(messagingHost), "/")
	if messagingHost == "" {
		messagingHost = DefaultMessagingHost
	}
	return &Composer{
		header: header,
		host:   messagingHost,
		number: digitsOnly(phone),
	}
}

// Compose renders the order text and link. Same input gives byte-identical output.
func (c *Composer) Compose(req ComposeRequest) (*Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", c.header)
	fmt.Fprintf(&b, "Customer: %s\n", name)
	if id := strings.TrimSpace(req.CustomerID); id != "" {
		fmt.Fprintf(&b, "ID: %s\n", id)
	}
	b.WriteString("\n")
	for _, l := range req.Lines {
		fmt.Fprintf(&b, "- %dx %s (%s-%s) | %s\n", l.Quantity, l.Name, l.Color, l.Size, utils.FormatBRL(l.Subtotal()))
	}
	fmt.Fprintf(&b, "*Total: %s*", utils.FormatBRL(req.Total))

	text := b.String()
	return &Order{
		Text: text,
		Link: c.Link(text),
	}, nil
}

// Link builds the click-to-chat URL carrying text
func (c *Composer) Link(text string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return fmt.Sprintf("https://%s/%s?text=%s", c.host, c.number, encoded)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
