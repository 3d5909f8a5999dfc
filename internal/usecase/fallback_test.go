package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPage(t *testing.T, html string) *productPage {
	t.Helper()
	p, err := newProductPage(html)
	require.NoError(t, err)
	return p
}

func TestFirstMatch_Order(t *testing.T) {
	fixed := func(v string, ok bool) matcher {
		return func(*productPage) (string, bool) { return v, ok }
	}
	p := mustPage(t, "<html></html>")

	got, ok := firstMatch(p, fixed("", false), fixed("second", true), fixed("third", true))
	assert.True(t, ok)
	assert.Equal(t, "second", got)

	_, ok = firstMatch(p, fixed("", false))
	assert.False(t, ok)

	_, ok = firstMatch(p)
	assert.False(t, ok)
}

func TestFieldChains_Name(t *testing.T) {
	chains := defaultFieldChains()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "specific heading wins over generic heading and title",
			html: `<title>T</title><h1>Generic</h1><h1 class="pr-new-br">Specific</h1>`,
			want: "Specific",
		},
		{
			name: "generic heading wins over title",
			html: `<title>T</title><h1> Generic  Heading </h1>`,
			want: "Generic Heading",
		},
		{
			name: "title is last resort",
			html: `<title>  Only Title </title>`,
			want: "Only Title",
		},
		{
			name: "empty heading falls through",
			html: `<title>Title</title><h1 class="pr-new-br">  </h1>`,
			want: "Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstMatch(mustPage(t, tt.html), chains.name...)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldChains_Price(t *testing.T) {
	chains := defaultFieldChains()

	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "quoted field wins",
			html: `<span class="prc-dsc">2 TL</span><script>{"discountedPrice":{"value":1299.9,"text":"1.299,90 TL"}}</script>`,
			want: "1299,90",
			ok:   true,
		},
		{
			name: "discounted display before original display",
			html: `<span class="prc-org">500 TL</span><span class="prc-dsc">450,50 TL</span>`,
			want: "450,50",
			ok:   true,
		},
		{
			name: "original display as last resort",
			html: `<span class="prc-org">1.500 TL</span>`,
			want: "1500",
			ok:   true,
		},
		{
			name: "non-numeric capture falls through",
			html: `<span class="prc-dsc">Fiyat yok</span><span class="prc-org">75 TL</span>`,
			want: "75",
			ok:   true,
		},
		{
			name: "no price",
			html: `<p>no price</p>`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstMatch(mustPage(t, tt.html), chains.price...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldChains_Discount(t *testing.T) {
	chains := defaultFieldChains()

	got, ok := firstMatch(mustPage(t, `<span class="prc-dsc">90 TL</span><span>%25</span>{"discountRatio":10}`), chains.discount...)
	assert.True(t, ok)
	assert.Equal(t, "25", got)

	got, ok = firstMatch(mustPage(t, `<script>{"discountRatio":10}</script>`), chains.discount...)
	assert.True(t, ok)
	assert.Equal(t, "10", got)

	_, ok = firstMatch(mustPage(t, `<span class="prc-dsc">90 TL</span>`), chains.discount...)
	assert.False(t, ok)
}

func TestFieldChains_Seller(t *testing.T) {
	chains := defaultFieldChains()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured seller field first",
			html: `<a class="merchant-text">Display</a><script>{"merchantName":"Alt","sellerName":"Structured"}</script>`,
			want: "Structured",
		},
		{
			name: "merchant display second",
			html: `<a class="merchant-text"> Display Store </a><script>{"merchantName":"Alt"}</script>`,
			want: "Display Store",
		},
		{
			name: "alternate field last",
			html: `<script>{"merchantName":"Alt"}</script>`,
			want: "Alt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstMatch(mustPage(t, tt.html), chains.seller...)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldChains_Image(t *testing.T) {
	chains := defaultFieldChains()

	got, ok := firstMatch(mustPage(t, `<meta property="og:image" content="https://cdn.example/og.jpg"><script>{"imageUrl":"https://cdn.example/main.jpg"}</script>`), chains.image...)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example/main.jpg", got)

	got, ok = firstMatch(mustPage(t, `<meta property="og:image" content="https://cdn.example/og.jpg">`), chains.image...)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example/og.jpg", got)
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.299,90 TL", "1299,90", true},
		{"₺ 45", "45", true},
		{"199.90", "19990", true},
		{"TL", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := normalizePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
