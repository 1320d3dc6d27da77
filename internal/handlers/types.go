package handlers

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL string `doc:"Absolute http or https URL to shorten" example:"https://example.com/very/long/path" json:"url" maxLength:"2048" minLength:"1"`
	}
}

// CreateShortURLResponse is returned for new and existing short URLs alike.
type CreateShortURLResponse struct {
	Headers struct {
		Location string `doc:"The short URL" header:"Location"`
	}
	Body struct {
		ShortToken  string `doc:"The public token"   example:"DXB8T"                              json:"shortToken"`
		ShortURL    string `doc:"The full short URL" example:"http://localhost:8888/DXB8T"        json:"shortUrl"`
		OriginalURL string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// TokenRequest carries a short token in the path.
type TokenRequest struct {
	Token string `doc:"The short token" example:"DXB8T" path:"token"`
}

// GetShortURLResponse describes an existing short URL.
type GetShortURLResponse struct {
	Body struct {
		ShortToken  string `doc:"The canonical token of the record" example:"DXB8T"                              json:"shortToken"`
		OriginalURL string `doc:"The original URL"                  example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// CreatePreviewRequest asks for the link preview of a URL.
type CreatePreviewRequest struct {
	Body struct {
		URL string `doc:"Absolute http or https URL to preview" example:"https://example.com/article" json:"url" maxLength:"2048" minLength:"1"`
	}
}

// PreviewData is the preview of a page. Fields the page does not provide are empty.
type PreviewData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
}

// CreatePreviewResponse reports "success" with data, or "failed" with null
// data when the page could not be read and nothing was stored before.
type CreatePreviewResponse struct {
	Body struct {
		Message string       `enum:"success,failed" json:"message"`
		Data    *PreviewData `json:"data"              required:"false"`
	}
}
