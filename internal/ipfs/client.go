// Package ipfs pins document artifacts to IPFS through the Pinata API.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"docmint/pkg/platform/sentinel"
)

const (
	pinFileURL = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	pinJSONURL = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	unpinURL   = "https://api.pinata.cloud/pinning/unpin/"
)

// Client pins content via Pinata. With mock enabled it fabricates
// deterministic CIDs from the content digest instead of calling out, which
// keeps local development and CI off the network.
type Client struct {
	jwt        string
	gateway    string
	mock       bool
	httpClient *http.Client
}

func NewClient(jwt, gateway string, mock bool, timeout time.Duration) *Client {
	if gateway == "" {
		gateway = "https://gateway.pinata.cloud"
	}
	return &Client{
		jwt:        jwt,
		gateway:    strings.TrimRight(gateway, "/"),
		mock:       mock,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// UploadFile pins a file and returns its CID. The keyvalues map becomes
// Pinata metadata for later lookup.
func (c *Client) UploadFile(ctx context.Context, data []byte, name string, keyvalues map[string]string) (string, error) {
	if c.mock {
		return mockCID(data), nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build pin request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build pin request: %w", err)
	}
	meta, err := json.Marshal(map[string]any{"name": name, "keyvalues": keyvalues})
	if err != nil {
		return "", fmt.Errorf("build pin request: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("build pin request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build pin request: %w", err)
	}

	return c.pin(ctx, pinFileURL, &buf, writer.FormDataContentType())
}

// UploadJSON pins an arbitrary JSON document and returns its CID.
func (c *Client) UploadJSON(ctx context.Context, v any) (string, error) {
	body, err := json.Marshal(map[string]any{"pinataContent": v})
	if err != nil {
		return "", fmt.Errorf("encode pin content: %w", err)
	}
	if c.mock {
		return mockCID(body), nil
	}
	return c.pin(ctx, pinJSONURL, bytes.NewReader(body), "application/json")
}

// Unpin removes a previously pinned CID. Best effort; minted documents keep
// their CIDs pinned forever, this is for rejected/failed cleanup.
func (c *Client) Unpin(ctx context.Context, cid string) error {
	if c.mock {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, unpinURL+cid, nil)
	if err != nil {
		return fmt.Errorf("build unpin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unpin %s: %w: %w", cid, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unpin %s: unexpected status %d", cid, resp.StatusCode)
	}
	return nil
}

// GatewayURL builds a public fetch URL for a CID.
func (c *Client) GatewayURL(cid string) string {
	return c.gateway + "/ipfs/" + cid
}

// FetchFile retrieves pinned content through the gateway. A gateway 404 maps
// to sentinel.ErrNotFound; mock CIDs have no retrievable content, so mock
// mode reports not found as well.
func (c *Client) FetchFile(ctx context.Context, cid string) ([]byte, error) {
	if c.mock {
		return nil, fmt.Errorf("fetch %s: %w: mock mode stores no content", cid, sentinel.ErrNotFound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GatewayURL(cid), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", cid, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", cid, sentinel.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: %w: unexpected status %d", cid, sentinel.ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", cid, sentinel.ErrUnavailable, err)
	}
	return data, nil
}

func (c *Client) pin(ctx context.Context, url string, body io.Reader, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("build pin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin content: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pin content: unexpected status %d: %s", resp.StatusCode, payload)
	}

	var pr pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decode pin response: %w", err)
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("pin content: empty hash in response")
	}
	return pr.IpfsHash, nil
}

// mockCID derives a stable fake CID from the content so repeated uploads of
// identical bytes agree, mirroring content addressing closely enough for
// tests.
func mockCID(data []byte) string {
	sum := sha3.NewLegacyKeccak256()
	sum.Write(data)
	return fmt.Sprintf("Qmmock%x", sum.Sum(nil)[:16])
}
