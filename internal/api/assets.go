package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/rickgao/consensus-export/internal/model"
)

// ErrUnrecognizedPayload is returned when a response has neither the asset
// catalog shape nor the tabular columns/rows shape.
var ErrUnrecognizedPayload = errors.New("json structure not recognized")

// ListAssets fetches the asset catalog available at snapTime.
func (c *Client) ListAssets(ctx context.Context, snapTime string) ([]model.Asset, error) {
	body, err := c.post(ctx, "/assets/list", AssetListRequest{SnapTime: snapTime})
	if err != nil {
		return nil, fmt.Errorf("list assets %q: %w", snapTime, err)
	}

	assets, err := parseAssets(body)
	if err != nil {
		return nil, fmt.Errorf("list assets %q: %w", snapTime, err)
	}
	return assets, nil
}

// parseAssets flattens data.assets[].services[].subAssets[] into catalog entries.
func parseAssets(body []byte) ([]model.Asset, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrUnrecognizedPayload)
	}

	root := gjson.GetBytes(body, "data.assets")
	if !root.Exists() || !root.IsArray() {
		return nil, ErrUnrecognizedPayload
	}

	var assets []model.Asset
	for _, asset := range root.Array() {
		name := asset.Get("name").String()
		for _, service := range asset.Get("services").Array() {
			serviceName := service.Get("name").String()
			for _, sub := range service.Get("subAssets").Array() {
				assets = append(assets, model.Asset{
					Name:      name,
					Service:   serviceName,
					SubAsset:  sub.Get("name").String(),
					ID:        sub.Get("id").String(),
					TraceName: sub.Get("traceName").String(),
				})
			}
		}
	}

	return assets, nil
}
