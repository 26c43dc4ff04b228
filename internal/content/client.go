package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Edition is the text edition requested from the page API.
const Edition = "quran-uthmani"

// maxBodySize caps the page response; a page is a few tens of kilobytes.
const maxBodySize = 4 << 20

// Client fetches pages from an alquran.cloud compatible API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// pageResponse mirrors the API envelope.
type pageResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Number int    `json:"number"`
		Ayahs  []Ayah `json:"ayahs"`
	} `json:"data"`
}

// FetchPage downloads the ayahs of page. Transport failures and non-2xx
// statuses are reported as ErrUnreachable.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Ayah, error) {
	if !ValidPage(page) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	url := fmt.Sprintf("%s/page/%d/%s", c.baseURL, page, Edition)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	var pr pageResponse
	if err := sonic.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	if len(pr.Data.Ayahs) == 0 {
		return nil, fmt.Errorf("page %d: empty response", page)
	}

	for i := range pr.Data.Ayahs {
		if pr.Data.Ayahs[i].Page == 0 {
			pr.Data.Ayahs[i].Page = page
		}
	}
	return pr.Data.Ayahs, nil
}
