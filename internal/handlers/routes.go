package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl-preview/internal/ratelimit"
)

func limitedTo(scope ratelimit.Scope) map[string]any {
	return map[string]any{ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: scope}}
}

// RegisterRoutes registers the short URL and preview routes. Each route
// declares the rate limit scope it is counted against.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/api/v1/short_urls",
		Summary:     "Create short URL",
		Description: "Returns the short URL of the submitted URL, creating it on first submission.",
		Tags:        []string{"URLs"},
		Metadata:    limitedTo(ratelimit.ScopeCreate),
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-short-url",
		Method:      http.MethodGet,
		Path:        "/api/v1/short_urls/{token}",
		Summary:     "Look up short URL",
		Description: "Returns the original URL behind a short token without redirecting.",
		Tags:        []string{"URLs"},
		Metadata:    limitedTo(ratelimit.ScopeRead),
	}, urlHandler.GetShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "create-url-preview",
		Method:      http.MethodPost,
		Path:        "/api/v1/url_previews",
		Summary:     "Preview URL",
		Description: "Returns title, description, canonical URL and image of the page, refreshed at most daily.",
		Tags:        []string{"Previews"},
		Metadata:    limitedTo(ratelimit.ScopePreview),
	}, urlHandler.CreatePreview)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{token}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short token.",
		Tags:        []string{"URLs"},
		Metadata:    limitedTo(ratelimit.ScopeRedirect),
	}, urlHandler.RedirectToURL)
}
