package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aninha-confeccoes/models"
)

func floralRequest() ComposeRequest {
	return ComposeRequest{
		CustomerName: "Maria Silva",
		Lines: []models.CartLine{
			{Name: "VESTIDO FLORAL", Color: "AZUL", Size: "P", UnitPrice: decimal.NewFromInt(120), Quantity: 2},
		},
		Total: decimal.NewFromInt(240),
	}
}

func TestComposeText(t *testing.T) {
	c := NewComposer("", "", "+55 (81) 98670-7825")

	order, err := c.Compose(floralRequest())
	require.NoError(t, err)

	want := "*NOVO PEDIDO - ANINHA CONFECÇÕES*\n" +
		"Customer: Maria Silva\n" +
		"\n" +
		"- 2x VESTIDO FLORAL (AZUL-P) | R$ 240.00\n" +
		"*Total: R$ 240.00*"
	assert.Equal(t, want, order.Text)
	assert.True(t, strings.HasPrefix(order.Link, "https://wa.me/5581986707825?text="))
}

func TestComposeWithCustomerID(t *testing.T) {
	req := floralRequest()
	req.CustomerID = "529.982.247-25"

	order, err := NewComposer("PEDIDO", "wa.me", "5581986707825").Compose(req)
	require.NoError(t, err)

	lines := strings.Split(order.Text, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "*PEDIDO*", lines[0])
	assert.Equal(t, "ID: 529.982.247-25", lines[2])
	assert.Equal(t, "", lines[3])
}

func TestComposeLinkRoundTrips(t *testing.T) {
	c := NewComposer("", "", "5581986707825")
	order, err := c.Compose(floralRequest())
	require.NoError(t, err)

	assert.NotContains(t, order.Link, "+")
	assert.NotContains(t, order.Link, " ")
	assert.Contains(t, order.Link, "%20")

	u, err := url.Parse(order.Link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/5581986707825", u.Path)
	assert.Equal(t, order.Text, u.Query().Get("text"))
}

func TestComposeIsIdempotent(t *testing.T) {
	c := NewComposer("", "", "5581986707825")
	req := floralRequest()
	req.Lines = append(req.Lines, models.CartLine{
		Name: "BLUSA", Color: models.DefaultColor, Size: models.DefaultSize,
		UnitPrice: decimal.RequireFromString("49.9"), Quantity: 1,
	})
	req.Total = decimal.RequireFromString("289.9")

	first, err := c.Compose(req)
	require.NoError(t, err)
	second, err := c.Compose(req)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Link, second.Link)
	assert.Contains(t, first.Text, "- 1x BLUSA (PADRÃO-ÚNICO) | R$ 49.90\n")
	assert.True(t, strings.HasSuffix(first.Text, "*Total: R$ 289.90*"))
}

func TestComposeFailures(t *testing.T) {
	c := NewComposer("", "", "5581986707825")

	req := floralRequest()
	req.CustomerName = "   "
	_, err := c.Compose(req)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.ErrorIs(t, err, models.ErrValidation)

	req = floralRequest()
	req.Lines = nil
	_, err = c.Compose(req)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewComposerTrimsHost(t *testing.T) {
	c := NewComposer("X", " https-less.example/ ", "1")
	assert.Equal(t, "https://https-less.example/1?text=a%20b", c.Link("a b"))
}
