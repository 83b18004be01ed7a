// Package zrexpress talks to the ZR Express (procolis) parcel API.
//
// Every endpoint takes a POST with a JSON body of the form {"Colis": [...]}
// and the account credentials in the token and key headers. Only HTTP 200
// counts as success. Failures come back as *errs.CourierFailureError.
package zrexpress

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"lectio/internal/core/domain/model/shipment"
	"lectio/internal/pkg/errs"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://procolis.com/api_v1"
	DefaultTimeout = 30 * time.Second

	opCreate = "add_colis"
	opStatus = "lire"
	opReady  = "pret"

	// Logged response bodies are cut to this many bytes.
	maxLoggedBody = 512
	// Responses larger than this are rejected unread.
	maxResponseBody = 4 << 20
)

type Config struct {
	BaseURL string
	Token   string
	Key     string
	Timeout time.Duration
	// MeterProvider receives the HTTP client metrics. The global provider
	// is used when nil.
	MeterProvider metric.MeterProvider
}

// Client implements ports.CourierClient.
type Client struct {
	baseURL    string
	token      string
	key        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var transportOpts []otelhttp.Option
	if cfg.MeterProvider != nil {
		transportOpts = append(transportOpts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		key:     cfg.Key,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport, transportOpts...),
			Timeout:   cfg.Timeout,
		},
		logger: logger.Named("zrexpress"),
	}
}

// envelope wraps every request body: {"Colis": [...]}.
type envelope[T any] struct {
	Colis []T `json:"Colis"`
}

type parcel struct {
	Tracking      string `json:"Tracking"`
	TypeLivraison string `json:"TypeLivraison"`
	TypeColis     string `json:"TypeColis"`
	Confirmee     string `json:"Confirmee"`
	Client        string `json:"Client"`
	MobileA       string `json:"MobileA"`
	MobileB       string `json:"MobileB"`
	Adresse       string `json:"Adresse"`
	IDWilaya      string `json:"IDWilaya"`
	Commune       string `json:"Commune"`
	Total         string `json:"Total"`
	Note          string `json:"Note"`
	TProduit      string `json:"TProduit"`
	IDExterne     string `json:"id_Externe"`
	Source        string `json:"Source"`
}

// trackingOnly is the body item of the status and readiness endpoints.
type trackingOnly struct {
	Tracking string `json:"Tracking"`
}

// CreateShipment registers one home delivery parcel. The courier does not
// assign its own id: the tracking reference sent is the tracking id.
func (c *Client) CreateShipment(ctx context.Context, request shipment.Request) (string, error) {
	body := envelope[parcel]{Colis: []parcel{{
		Tracking:      request.TrackingRef,
		TypeLivraison: "0",
		TypeColis:     "0",
		Client:        request.RecipientName,
		MobileA:       request.Phone,
		MobileB:       shipment.DefaultPhone,
		Adresse:       request.Address,
		IDWilaya:      request.RegionCode,
		Commune:       request.Commune,
		Total:         strconv.FormatInt(request.TotalAmount.IntPart(), 10),
		Note:          request.Note,
		TProduit:      request.ProductLabel,
		IDExterne:     request.ExternalOrderID,
	}}}

	if _, err := c.post(ctx, opCreate, body); err != nil {
		return "", err
	}

	c.logger.Info("shipment created",
		zap.String("tracking_id", request.TrackingRef),
		zap.String("external_order_id", request.ExternalOrderID))

	return request.TrackingRef, nil
}

// GetStatus returns the courier's answer as is.
func (c *Client) GetStatus(ctx context.Context, trackingIDs []string) (json.RawMessage, error) {
	raw, err := c.post(ctx, opStatus, trackingBody(trackingIDs))
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, errs.NewCourierFailureErrorWithCause(opStatus, errors.New("response is not valid JSON"))
	}
	return raw, nil
}

func (c *Client) MarkReady(ctx context.Context, trackingIDs []string) error {
	_, err := c.post(ctx, opReady, trackingBody(trackingIDs))
	return err
}

func trackingBody(trackingIDs []string) envelope[trackingOnly] {
	body := envelope[trackingOnly]{Colis: make([]trackingOnly, 0, len(trackingIDs))}
	for _, id := range trackingIDs {
		body.Colis = append(body.Colis, trackingOnly{Tracking: id})
	}
	return body
}

func (c *Client) post(ctx context.Context, operation string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.NewCourierFailureErrorWithCause(operation, errors.Wrap(err, "marshal request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+operation, bytes.NewReader(data))
	if err != nil {
		return nil, errs.NewCourierFailureErrorWithCause(operation, errors.Wrap(err, "build request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", c.token)
	req.Header.Set("key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewCourierFailureErrorWithCause(operation, errors.Wrap(err, "send request"))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, errs.NewCourierFailureErrorWithCause(operation, errors.Wrap(err, "read response"))
	}
	if len(body) > maxResponseBody {
		c.logger.Warn("courier response too large",
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode))
		return nil, errs.NewCourierFailureErrorWithCause(operation,
			errors.Errorf("response exceeds %d bytes", maxResponseBody))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("courier answered with an error",
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", truncate(body, maxLoggedBody)))
		return nil, errs.NewCourierFailureError(operation, resp.StatusCode)
	}

	return body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
