package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// ErrNoDownloadLink is returned when /export succeeds without a request URL.
var ErrNoDownloadLink = errors.New("download link not available")

// ExportLink requests a pre-signed download link for one consensus run.
func (c *Client) ExportLink(ctx context.Context, req ExportRequest) (string, error) {
	if req.IncludeHeader == "" {
		req.IncludeHeader = "True"
	}

	body, err := c.post(ctx, "/export", req)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", req.AssetID, err)
	}

	link := gjson.GetBytes(body, "data.getRequestUrl").String()
	if link == "" {
		return "", fmt.Errorf("export %s: %w", req.AssetID, ErrNoDownloadLink)
	}
	return link, nil
}

// FetchExport downloads an export link and returns the decoded CSV bytes.
func (c *Client) FetchExport(ctx context.Context, link string) ([]byte, error) {
	body, err := c.fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	data, err := DecodeExport(body)
	if err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return data, nil
}

// DecodeExport reverses the export encoding: base64 text wrapping a gzip stream.
func DecodeExport(body []byte) ([]byte, error) {
	compressed := make([]byte, base64.StdEncoding.DecodedLen(len(body)))
	n, err := base64.StdEncoding.Decode(compressed, bytes.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed[:n]))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return data, nil
}
