package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Transport performs one blob upload to the storage network and returns the
// content identifier. Implementations should honor ctx, but the client guards
// against ones that do not: an attempt that outlives its timeout is discarded
// regardless of what the transport does afterwards.
type Transport interface {
	Upload(ctx context.Context, data []byte, pin bool) (string, error)
}

// addResponse is the IPFS HTTP API response for /api/v0/add.
type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

type apiTransport struct {
	httpClient  *retryablehttp.Client
	baseURL     string
	accessToken string
	logger      log.Logger
}

// NewAPITransport creates a Transport that adds content through the IPFS HTTP
// API (e.g. a local node or a hosted node with bearer auth).
func NewAPITransport(baseURL string, accessToken string, logger log.Logger) Transport {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &apiTransport{
		httpClient:  retryhttp.NewClient(logger),
		baseURL:     baseURL,
		accessToken: accessToken,
		logger:      logger,
	}
}

func (t *apiTransport) Upload(ctx context.Context, data []byte, pin bool) (string, error) {
	url := fmt.Sprintf("%s/api/v0/add?pin=%t", t.baseURL, pin)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "blob")
	if err != nil {
		return "", fmt.Errorf("create multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, url, body.Bytes())
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.accessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.accessToken))
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			t.logger.Printf(err.Error())
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", unwrapError(resp)
	}

	var response addResponse
	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return "", err
	}

	return response.Hash, nil
}

func unwrapError(resp *http.Response) error {
	errorResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, errorResp)
}
