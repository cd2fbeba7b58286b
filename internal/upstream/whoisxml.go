package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const (
	WhoisXMLName = "whoisxml"

	// DefaultWhoisXMLURL is the WhoisXML API WHOIS endpoint.
	DefaultWhoisXMLURL = "https://www.whoisxmlapi.com/whoisserver/WhoisService"

	maxBodySize = 5 * 1024 * 1024

	// DefaultTimeout is used by callers that do not configure one.
	DefaultTimeout = 30 * time.Second
)

// WhoisXMLClient fetches records from a WhoisXML-style HTTP API.
type WhoisXMLClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewWhoisXMLClient builds a client. A nil httpClient gets a default one; the
// per-call deadline comes from the caller's context.
func NewWhoisXMLClient(baseURL, apiKey string, httpClient *http.Client) *WhoisXMLClient {
	if baseURL == "" {
		baseURL = DefaultWhoisXMLURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	return &WhoisXMLClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httpClient,
	}
}

func (c *WhoisXMLClient) Name() string { return WhoisXMLName }

func (c *WhoisXMLClient) Fetch(ctx context.Context, domain string) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, newError(KindTransport, WhoisXMLName, "invalid upstream url", err)
	}
	q := u.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("domainName", domain)
	q.Set("outputFormat", "JSON")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newError(KindTransport, WhoisXMLName, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "whois-lookup/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		if cerr := contextError(ctx, WhoisXMLName); cerr != nil {
			return nil, cerr
		}
		return nil, newError(KindTransport, WhoisXMLName, "request failed", redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if cerr := contextError(ctx, WhoisXMLName); cerr != nil {
			return nil, cerr
		}
		return nil, newError(KindTransport, WhoisXMLName, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := newError(KindStatus, WhoisXMLName, resp.Status, nil)
		e.StatusCode = resp.StatusCode
		if msg := providerMessage(body); msg != "" {
			e.Message = fmt.Sprintf("%s: %s", resp.Status, msg)
		}
		return nil, e
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, newError(KindDecode, WhoisXMLName, "response is not a JSON object", nil)
	}

	if msg := providerMessage(body); msg != "" {
		return nil, newError(KindProvider, WhoisXMLName, msg, nil)
	}

	return body, nil
}

// providerMessage reads the ErrorMessage object WhoisXML puts in error bodies.
func providerMessage(body []byte) string {
	em := gjson.GetBytes(body, "ErrorMessage")
	if !em.IsObject() {
		return ""
	}
	msg := em.Get("msg").String()
	if code := em.Get("errorCode").String(); code != "" {
		if msg == "" {
			return code
		}
		return code + ": " + msg
	}
	return msg
}

// redact keeps the API key out of transport errors, which embed the URL.
func redact(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return err
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "REDACTED")
		u.RawQuery = q.Encode()
		ue.URL = u.String()
	}
	return err
}
