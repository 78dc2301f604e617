package prediction

import (
	"context"
	"drant/app/config"
	"drant/app/service/query"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fiber.Client
}

type predictResponse struct {
	Result []float64 `json:"result"`
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.Prediction.BaseURL, cfg.Prediction.Timeout), nil
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		http:    &fiber.Client{},
	}
}

// Predict makes a single GET to /predict with the assembled query. There is no retry.
func (c *Client) Predict(ctx context.Context, q query.Query) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	target := c.PredictURL(q)
	errBuilder := oops.In("prediction").With("url", target)

	agent := c.http.Get(target)
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	start := time.Now()
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return Result{}, errBuilder.Wrapf(errors.Join(errs...), "request failed")
	}

	slog.DebugContext(ctx, "Prediction service replied",
		"status", code,
		"duration", time.Since(start),
	)

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return Result{}, errBuilder.With("status", code).Errorf("unexpected status %d", code)
	}

	var response predictResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Result{}, errBuilder.Wrapf(err, "failed to decode response")
	}

	if len(response.Result) == 0 {
		return Result{}, errBuilder.Errorf("empty result list")
	}

	return Result{Probability: response.Result[0]}, nil
}

func (c *Client) PredictURL(q query.Query) string {
	return c.baseURL + "/predict?" + wireQuery(q)
}

// CeterisParibusURL relies on the trailing separator of the query.
func (c *Client) CeterisParibusURL(q query.Query, variable string) string {
	return c.baseURL + "/ceteris_paribus?" + wireQuery(q) + "variable=" + escape(variable)
}

func (c *Client) BreakDownURL(q query.Query) string {
	return c.baseURL + "/break_down?" + wireQuery(q)
}

// wireQuery renders the query like query.Query.String with every value
// percent-encoded, so values such as "deck crew" survive the request line.
func wireQuery(q query.Query) string {
	var builder strings.Builder

	for _, p := range q {
		builder.WriteString(p.Key)
		builder.WriteByte('=')
		builder.WriteString(escape(p.Value))
		builder.WriteByte('&')
	}

	return builder.String()
}

func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
