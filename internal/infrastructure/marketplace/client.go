package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

// maxResponseBytes caps how much of an upstream response body is read.
const maxResponseBytes = 4 << 20 // 4MB

// TokenSource supplies a valid access token for upstream calls.
// Satisfied by tokenstore.Manager.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the marketplace REST adapter. It speaks the upstream wire
// format and returns domain types; all requests carry a bearer token
// from the TokenSource.
type Client struct {
	config     *Config
	tokens     TokenSource
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a marketplace REST client.
func NewClient(cfg *Config, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: cfg,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
		},
		logger: logger,
	}
}

var _ seller.Marketplace = (*Client)(nil)

// Profile fetches the authenticated seller account.
func (c *Client) Profile(ctx context.Context) (*seller.Profile, error) {
	body, err := c.doGet(ctx, "/users/me", nil, seller.ErrNotConnected)
	if err != nil {
		return nil, err
	}

	var wp wireProfile
	if err := json.Unmarshal(body, &wp); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", seller.ErrInvalidResponse, err)
	}
	return wp.toDomain(), nil
}

// SearchListingIDs returns one page of listing IDs for the seller
// together with the total result count. The page size is clamped to
// the upstream maximum.
func (c *Client) SearchListingIDs(ctx context.Context, sellerID string, offset, limit int) ([]string, int64, error) {
	if limit <= 0 || limit > seller.MaxSearchPageSize {
		limit = seller.MaxSearchPageSize
	}
	if offset < 0 {
		offset = 0
	}

	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	path := "/users/" + url.PathEscape(sellerID) + "/items/search"
	body, err := c.doGet(ctx, path, q, seller.ErrListingNotFound)
	if err != nil {
		return nil, 0, err
	}

	var sr wireSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, 0, fmt.Errorf("%w: decode item search: %v", seller.ErrInvalidResponse, err)
	}
	return sr.Results, sr.Paging.Total, nil
}

// ListingDetails fetches full listings for up to MaxDetailBatchSize IDs
// in one multiget call. Entries the upstream could not resolve are
// skipped.
func (c *Client) ListingDetails(ctx context.Context, ids []string) ([]seller.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > seller.MaxDetailBatchSize {
		return nil, fmt.Errorf("%w: %d ids exceeds batch limit %d",
			seller.ErrTooManyIDs, len(ids), seller.MaxDetailBatchSize)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))

	body, err := c.doGet(ctx, "/items", q, seller.ErrListingNotFound)
	if err != nil {
		return nil, err
	}

	var entries []wireMultigetEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode item multiget: %v", seller.ErrInvalidResponse, err)
	}

	listings := make([]seller.Listing, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if entry.Code != http.StatusOK || entry.Body.ID == "" {
			c.logger.Warn("multiget entry skipped",
				zap.Int("code", entry.Code),
				zap.String("id", entry.Body.ID))
			continue
		}
		listings = append(listings, *entry.Body.toDomain())
	}
	return listings, nil
}

// UpdateListing applies a partial update (price, stock, title) to a
// listing.
func (c *Client) UpdateListing(ctx context.Context, id string, update seller.ListingUpdate) (*seller.Listing, error) {
	if update.IsZero() {
		return nil, fmt.Errorf("%w: empty listing update", seller.ErrUpstreamRejected)
	}

	payload := map[string]any{}
	if update.Price != nil {
		price, _ := update.Price.Float64()
		payload["price"] = price
	}
	if update.Stock != nil {
		payload["available_quantity"] = *update.Stock
	}
	if update.Title != nil {
		payload["title"] = *update.Title
	}

	body, err := c.doJSON(ctx, http.MethodPut, "/items/"+url.PathEscape(id), payload, seller.ErrListingNotFound)
	if err != nil {
		return nil, err
	}

	var wi wireItem
	if err := json.Unmarshal(body, &wi); err != nil {
		return nil, fmt.Errorf("%w: decode updated item: %v", seller.ErrInvalidResponse, err)
	}
	return wi.toDomain(), nil
}

// SetListingStatus pauses, reactivates, or closes a listing.
func (c *Client) SetListingStatus(ctx context.Context, id string, status seller.ListingStatus) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/items/"+url.PathEscape(id),
		map[string]any{"status": string(status)}, seller.ErrListingNotFound)
	return err
}

// SearchOrders returns one page of the seller's orders.
func (c *Client) SearchOrders(ctx context.Context, sellerID string, query seller.OrderQuery) ([]seller.Order, int64, error) {
	limit := query.Limit
	if limit <= 0 || limit > seller.MaxSearchPageSize {
		limit = seller.MaxSearchPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	q := url.Values{}
	q.Set("seller", sellerID)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "date_desc")
	if query.Status != "" {
		q.Set("order.status", string(query.Status))
	}
	if query.From != nil {
		q.Set("order.date_created.from", query.From.UTC().Format(time.RFC3339))
	}
	if query.To != nil {
		q.Set("order.date_created.to", query.To.UTC().Format(time.RFC3339))
	}

	body, err := c.doGet(ctx, "/orders/search", q, seller.ErrOrderNotFound)
	if err != nil {
		return nil, 0, err
	}

	var sr wireOrderSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, 0, fmt.Errorf("%w: decode order search: %v", seller.ErrInvalidResponse, err)
	}

	orders := make([]seller.Order, 0, len(sr.Results))
	for i := range sr.Results {
		orders = append(orders, *sr.Results[i].toDomain())
	}
	return orders, sr.Paging.Total, nil
}

// Order fetches a single order.
func (c *Client) Order(ctx context.Context, id string) (*seller.Order, error) {
	body, err := c.doGet(ctx, "/orders/"+url.PathEscape(id), nil, seller.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	var wo wireOrder
	if err := json.Unmarshal(body, &wo); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", seller.ErrInvalidResponse, err)
	}
	return wo.toDomain(), nil
}

// Shipment fetches a single shipment.
func (c *Client) Shipment(ctx context.Context, id string) (*seller.Shipment, error) {
	body, err := c.doGet(ctx, "/shipments/"+url.PathEscape(id), nil, seller.ErrShipmentNotFound)
	if err != nil {
		return nil, err
	}

	var ws wireShipment
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, fmt.Errorf("%w: decode shipment: %v", seller.ErrInvalidResponse, err)
	}
	return ws.toDomain(), nil
}

// OrderShipments lists the shipments attached to an order.
func (c *Client) OrderShipments(ctx context.Context, orderID string) ([]seller.Shipment, error) {
	body, err := c.doGet(ctx, "/orders/"+url.PathEscape(orderID)+"/shipments", nil, seller.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	var ws []wireShipment
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, fmt.Errorf("%w: decode order shipments: %v", seller.ErrInvalidResponse, err)
	}

	shipments := make([]seller.Shipment, 0, len(ws))
	for i := range ws {
		shipments = append(shipments, *ws[i].toDomain())
	}
	return shipments, nil
}

// UploadPicture uploads image bytes to the marketplace picture host
// and returns the hosted picture.
func (c *Client) UploadPicture(ctx context.Context, data []byte, contentType string) (*seller.Picture, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload"+extensionFor(contentType))
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close upload form: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/pictures/items/upload", nil,
		&buf, mw.FormDataContentType(), seller.ErrPictureNotFound)
	if err != nil {
		return nil, err
	}

	var wp wirePicture
	if err := json.Unmarshal(body, &wp); err != nil {
		return nil, fmt.Errorf("%w: decode uploaded picture: %v", seller.ErrInvalidResponse, err)
	}
	return wp.toDomain(), nil
}

// Picture fetches metadata for a hosted picture.
func (c *Client) Picture(ctx context.Context, id string) (*seller.Picture, error) {
	body, err := c.doGet(ctx, "/pictures/"+url.PathEscape(id), nil, seller.ErrPictureNotFound)
	if err != nil {
		return nil, err
	}

	var wp wirePicture
	if err := json.Unmarshal(body, &wp); err != nil {
		return nil, fmt.Errorf("%w: decode picture: %v", seller.ErrInvalidResponse, err)
	}
	return wp.toDomain(), nil
}

// PredictCategory asks the marketplace to classify a listing title.
// The upstream returns a ranked list; only the best match is kept.
func (c *Client) PredictCategory(ctx context.Context, title string) (*seller.CategoryPrediction, error) {
	q := url.Values{}
	q.Set("q", title)

	path := "/sites/" + url.PathEscape(c.config.SiteID) + "/domain_discovery/search"
	body, err := c.doGet(ctx, path, q, seller.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}

	var wps []wirePrediction
	if err := json.Unmarshal(body, &wps); err != nil {
		return nil, fmt.Errorf("%w: decode category prediction: %v", seller.ErrInvalidResponse, err)
	}
	if len(wps) == 0 {
		return nil, seller.ErrCategoryNotFound
	}
	return wps[0].toDomain(), nil
}

// Category fetches a category with its path and children.
func (c *Client) Category(ctx context.Context, id string) (*seller.Category, error) {
	body, err := c.doGet(ctx, "/categories/"+url.PathEscape(id), nil, seller.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}

	var wc wireCategory
	if err := json.Unmarshal(body, &wc); err != nil {
		return nil, fmt.Errorf("%w: decode category: %v", seller.ErrInvalidResponse, err)
	}
	return wc.toDomain(), nil
}

// ---- request plumbing ----

func (c *Client) doGet(ctx context.Context, path string, query url.Values, notFound error) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, query, nil, "", notFound)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, notFound error) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request payload: %w", err)
	}
	return c.doRequest(ctx, method, path, nil, bytes.NewReader(data), "application/json", notFound)
}

// doRequest performs one upstream call with the bearer token attached
// and maps non-2xx statuses onto domain errors. notFound is the error
// used for a 404 so callers get a resource-specific sentinel.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values,
	body io.Reader, contentType string, notFound error) ([]byte, error) {

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSuffix(c.config.APIBaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.userAgent())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", seller.ErrUpstreamUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("marketplace request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, c.mapError(resp.StatusCode, respBody, notFound)
}

// mapError converts an upstream error status into a domain error.
func (c *Client) mapError(status int, body []byte, notFound error) error {
	var we wireError
	_ = json.Unmarshal(body, &we)
	detail := we.Message
	if detail == "" {
		detail = we.Error
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: upstream returned %d", seller.ErrNotConnected, status)
	case status == http.StatusNotFound:
		return notFound
	case status == http.StatusTooManyRequests:
		return seller.ErrRateLimited
	case status >= 400 && status < 500:
		if detail != "" {
			return fmt.Errorf("%w: %s", seller.ErrUpstreamRejected, detail)
		}
		return fmt.Errorf("%w: upstream returned %d", seller.ErrUpstreamRejected, status)
	default:
		return fmt.Errorf("%w: upstream returned %d", seller.ErrUpstreamUnavailable, status)
	}
}

// extensionFor picks a filename extension for the upload form part.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
