package catalogue

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"worksearch/internal/components/assert"
	"worksearch/internal/components/telemetry"
	"worksearch/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL   = "https://www.apraamcos.com.au/works-search"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultTimeout   = 30 * time.Second
)

const (
	report_client_prime   = "client.prime"
	report_client_search  = "client.search"
	report_client_extract = "client.extract"
)

var tracer = otel.Tracer("worksearch/catalogue")

type ClientOptions struct {
	// BaseURL is the works search page, it is both primed and searched against.
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Telemetry telemetry.API
	// Dump receives every request and response of every session when set.
	Dump restyutil.Output
}

// Client searches the catalogue. It holds no session state, every search opens
// its own session so a Client is safe for concurrent use.
type Client struct {
	baseUrl    *url.URL
	userAgent  string
	timeout    time.Duration
	strategies []searchStrategy
	dump       restyutil.Output

	tel telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	assert.NotNil(opts.Telemetry)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	baseUrl, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseURL)
	}

	return &Client{
		baseUrl:    baseUrl,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		strategies: defaultStrategies,
		dump:       opts.Dump,
		tel:        telemetry.NewScopedAPI("catalogue", opts.Telemetry),
	}, nil
}

// RawResponse is the page a search ended on.
type RawResponse struct {
	Body   string
	URL    string
	Status int
	// Strategy is the name of the strategy that produced the page.
	Strategy string
}

// newSession creates the http session for a single search, the cookies the
// catalogue hands out while priming are only valid for that conversation.
func (c *Client) newSession() (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	session := resty.New()
	session.SetCookieJar(jar)
	session.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(session.GetClient().Transport)
	// Accept-Encoding is left to the transport so it can decompress for us
	session.SetHeaders(map[string]string{
		"User-Agent":                c.userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
	})
	session.SetTimeout(c.timeout)
	session.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))

	telemetry.InstrumentResty(session, c.tel)
	restyutil.Dump(session, c.dump)

	return session, nil
}

// prime visits the search page so the session picks up its cookies.
func (c *Client) prime(ctx context.Context, session *resty.Client) error {
	endpoint := c.baseUrl.String()

	res, err := session.R().
		SetContext(ctx).
		SetHeader("Sec-Fetch-Site", "none").
		Get(endpoint)
	if err != nil {
		terr := &TransportError{Op: "prime", URL: endpoint, Err: err}
		c.tel.ReportBroken(report_client_prime, terr)
		return terr
	}
	if !res.IsSuccess() {
		terr := &TransportError{Op: "prime", URL: endpoint, Status: res.StatusCode()}
		c.tel.ReportBroken(report_client_prime, terr)
		return terr
	}
	return nil
}

// Execute validates the query, primes a new session and runs the search
// strategies until one of them returns a page with result markers. When none
// do, the page of the last strategy is returned.
func (c *Client) Execute(ctx context.Context, query SearchQuery) (RawResponse, error) {
	ctx, span := tracer.Start(ctx, "client:Execute")
	defer span.End()

	err := query.Validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return RawResponse{}, err
	}
	query = query.normalized()

	session, err := c.newSession()
	if err != nil {
		span.SetStatus(codes.Error, "failed to create session")
		return RawResponse{}, fmt.Errorf("create session: %w", err)
	}

	err = c.prime(ctx, session)
	if err != nil {
		span.SetStatus(codes.Error, "failed to prime session")
		return RawResponse{}, err
	}

	endpoint := c.baseUrl.String()
	params := query.Params()

	var last RawResponse
	for _, strategy := range c.strategies {
		req := session.R().
			SetContext(ctx).
			SetHeader("Referer", endpoint).
			SetHeader("Sec-Fetch-Site", "same-origin")

		res, err := strategy.send(req, endpoint, params)
		if err != nil {
			terr := &TransportError{
				Op:  fmt.Sprintf("search (%s)", strategy.name),
				URL: strategy.requestURL(c.baseUrl, params),
				Err: err,
			}
			c.tel.ReportBroken(report_client_search, terr)
			span.SetStatus(codes.Error, terr.Error())
			return RawResponse{}, terr
		}
		if !res.IsSuccess() {
			terr := &TransportError{
				Op:     fmt.Sprintf("search (%s)", strategy.name),
				URL:    strategy.requestURL(c.baseUrl, params),
				Status: res.StatusCode(),
			}
			c.tel.ReportBroken(report_client_search, terr)
			span.SetStatus(codes.Error, terr.Error())
			return RawResponse{}, terr
		}

		last = RawResponse{
			Body:     res.String(),
			URL:      finalURL(res),
			Status:   res.StatusCode(),
			Strategy: strategy.name,
		}
		if HasResultMarkers(last.Body) {
			break
		}
		c.tel.ReportDebug("no result markers", "strategy", strategy.name, "url", last.URL)
	}

	span.SetAttributes(attribute.String("strategy", last.Strategy))
	return last, nil
}

func finalURL(res *resty.Response) string {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL.String()
	}
	return res.Request.URL
}

// Search runs the query and extracts the works from the resulting page.
func (c *Client) Search(ctx context.Context, query SearchQuery) (SearchResult, error) {
	raw, err := c.Execute(ctx, query)
	if err != nil {
		return SearchResult{}, err
	}

	result := Extract(raw.Body)
	result.SearchURL = searchURL(c.baseUrl, query.Params())

	c.tel.ReportCount(report_client_search, int64(result.Count))
	if result.Outcome == OutcomeUnrecognised {
		c.tel.ReportWarning(
			report_client_extract,
			fmt.Errorf("page has no results list or no-results notice"),
			raw.Strategy,
			raw.URL,
		)
	}

	return result, nil
}

// Search runs a single search with a default client that logs through slog.
func Search(ctx context.Context, title, writer, performer string) (SearchResult, error) {
	client, err := NewClient(ClientOptions{Telemetry: telemetry.SlogAPI{}})
	if err != nil {
		return SearchResult{}, err
	}
	return client.Search(ctx, SearchQuery{
		Title:     title,
		Writer:    writer,
		Performer: performer,
	})
}
