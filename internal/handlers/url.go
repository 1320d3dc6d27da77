package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl-preview/internal/analytics"
	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/serroba/shorturl-preview/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler serves the short URL and preview endpoints.
type URLHandler struct {
	registry   *shortener.Registry
	resolver   *shortener.Resolver
	previews   *preview.Service
	baseURL    string
	publishers *analytics.Publishers
	logger     *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	registry *shortener.Registry,
	resolver *shortener.Resolver,
	previews *preview.Service,
	baseURL string,
	publishers *analytics.Publishers,
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		registry:   registry,
		resolver:   resolver,
		previews:   previews,
		baseURL:    strings.TrimRight(baseURL, "/"),
		publishers: publishers,
		logger:     logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	registered, err := h.register(ctx, req.Body.URL)
	if err != nil {
		return nil, err
	}

	shortURL := h.baseURL + "/" + registered.Token

	resp := &CreateShortURLResponse{}
	resp.Headers.Location = shortURL
	resp.Body.ShortToken = registered.Token
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = registered.Record.OriginalURL

	return resp, nil
}

func (h *URLHandler) GetShortURL(ctx context.Context, req *TokenRequest) (*GetShortURLResponse, error) {
	registered, err := h.resolver.Lookup(ctx, req.Token)
	if err != nil {
		return nil, h.lookupError(err, req.Token)
	}

	resp := &GetShortURLResponse{}
	resp.Body.ShortToken = registered.Token
	resp.Body.OriginalURL = registered.Record.OriginalURL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *TokenRequest) (*RedirectResponse, error) {
	originalURL, err := h.resolver.Resolve(ctx, req.Token)
	if err != nil {
		return nil, h.lookupError(err, req.Token)
	}

	meta, _ := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		Token:      req.Token,
		AccessedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
		RequestID:  meta.RequestID,
	}

	if err := h.publishers.URLAccessed(ctx, event); err != nil {
		h.logger.Error("failed to publish access event", zap.String("token", req.Token), zap.Error(err))
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = originalURL

	return resp, nil
}

func (h *URLHandler) CreatePreview(ctx context.Context, req *CreatePreviewRequest) (*CreatePreviewResponse, error) {
	registered, err := h.register(ctx, req.Body.URL)
	if err != nil {
		return nil, err
	}

	resp := &CreatePreviewResponse{}

	data, err := h.previews.Get(ctx, registered.Record.ID, registered.Record.OriginalURL)
	if errors.Is(err, preview.ErrNoData) {
		resp.Body.Message = "failed"

		return resp, nil
	}

	if err != nil {
		h.logger.Error("failed to load preview", zap.Int64("id", registered.Record.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load preview")
	}

	resp.Body.Message = "success"
	resp.Body.Data = &PreviewData{
		Title:       data.Title,
		Description: data.Description,
		URL:         data.CanonicalURL,
		ImageURL:    data.ImageURL,
	}

	return resp, nil
}

// register validates rawURL, finds or creates its record and announces new
// records.
func (h *URLHandler) register(ctx context.Context, rawURL string) (*shortener.Registered, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	registered, err := h.registry.FindOrCreate(ctx, rawURL)
	if err != nil {
		h.logger.Error("failed to register url", zap.String("url", rawURL), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	if registered.Created {
		h.publishCreated(ctx, registered)
	}

	return registered, nil
}

func (h *URLHandler) publishCreated(ctx context.Context, registered *shortener.Registered) {
	meta, _ := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		Token:       registered.Token,
		OriginalURL: registered.Record.OriginalURL,
		ContentHash: string(registered.Record.ContentHash),
		CreatedAt:   registered.Record.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		RequestID:   meta.RequestID,
	}

	if err := h.publishers.URLCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event", zap.String("token", registered.Token), zap.Error(err))
	}
}

func (h *URLHandler) lookupError(err error, token string) error {
	if errors.Is(err, shortener.ErrNotFound) {
		return huma.Error404NotFound("short url not found")
	}

	h.logger.Error("failed to resolve token", zap.String("token", token), zap.Error(err))

	return huma.Error500InternalServerError("failed to get url")
}
