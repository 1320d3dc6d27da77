package preview_test

import (
	"testing"

	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requested = "https://example.com/article"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected preview.Data
	}{
		{
			name: "h1 and p without open graph or title",
			html: `<html><body><h1>Heading</h1><p>First paragraph.</p></body></html>`,
			expected: preview.Data{
				Title:        "Heading",
				Description:  "First paragraph.",
				CanonicalURL: requested,
				ImageURL:     "",
			},
		},
		{
			name: "open graph wins over tags",
			html: `<html><head>
				<title>Tag title</title>
				<meta property="og:title" content="OG title">
				<meta property="og:description" content="OG description">
				<meta property="og:url" content="https://example.com/canonical">
				<meta property="og:image" content="https://example.com/og.png">
				</head><body><p>Body text</p><img src="/inline.png"></body></html>`,
			expected: preview.Data{
				Title:        "OG title",
				Description:  "OG description",
				CanonicalURL: "https://example.com/canonical",
				ImageURL:     "https://example.com/og.png",
			},
		},
		{
			name: "empty open graph values fall back",
			html: `<html><head>
				<meta property="og:title" content="  ">
				<meta property="og:image" content="">
				<title>Tag title</title>
				</head><body><img src="/a.png"><img src="/b.png"></body></html>`,
			expected: preview.Data{
				Title:        "Tag title",
				CanonicalURL: requested,
				ImageURL:     "/a.png",
			},
		},
		{
			name: "title beats h1 and h2 regardless of document order",
			html: `<html><head></head><body><h2>Sub</h2><h1>Main</h1><title>Doc</title></body></html>`,
			expected: preview.Data{
				Title:        "Doc",
				CanonicalURL: requested,
			},
		},
		{
			name: "h2 used when no title or h1",
			html: `<html><body><h2>  Only   sub </h2></body></html>`,
			expected: preview.Data{
				Title:        "Only sub",
				CanonicalURL: requested,
			},
		},
		{
			name: "skips empty elements and nested markup is flattened",
			html: `<html><body><h1> </h1><h1>Real <em>heading</em></h1><p></p><p>Text <b>bold</b><script>x()</script></p></body></html>`,
			expected: preview.Data{
				Title:        "Real heading",
				Description:  "Text bold",
				CanonicalURL: requested,
			},
		},
		{
			name: "open graph via name attribute",
			html: `<html><head><meta name="og:title" content="Named"></head></html>`,
			expected: preview.Data{
				Title:        "Named",
				CanonicalURL: requested,
			},
		},
		{
			name: "first img wins even with empty src",
			html: `<html><body><img alt="none"><img src="/second.png"></body></html>`,
			expected: preview.Data{
				CanonicalURL: requested,
			},
		},
		{
			name:     "not html at all",
			html:     `{"json": true}`,
			expected: preview.Data{Description: "", CanonicalURL: requested},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := preview.Extract([]byte(tt.html), requested)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, *got)
		})
	}
}
