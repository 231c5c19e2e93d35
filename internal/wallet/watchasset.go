package wallet

import (
	"context"
	"encoding/json"
	"fmt"
)

// Asset describes a token to suggest to the wallet.
type Asset struct {
	Type     string // "ERC20" or "SPL"
	Address  string
	Symbol   string
	Decimals uint8
	Image    string
}

type watchAssetOptions struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Image    string `json:"image,omitempty"`
}

type watchAssetParams struct {
	Type    string            `json:"type"`
	Options watchAssetOptions `json:"options"`
}

// WatchAsset issues a wallet_watchAsset request suggesting the token to
// the wallet. The wallet answers with a boolean; false means the user
// declined, which is reported as ErrDeclined.
func WatchAsset(ctx context.Context, provider Provider, asset Asset) error {
	result, err := provider.Request(ctx, "wallet_watchAsset", watchAssetParams{
		Type: asset.Type,
		Options: watchAssetOptions{
			Address:  asset.Address,
			Symbol:   asset.Symbol,
			Decimals: asset.Decimals,
			Image:    asset.Image,
		},
	})
	if err != nil {
		return err
	}

	var accepted bool
	if err := json.Unmarshal(result, &accepted); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	if !accepted {
		return ErrDeclined
	}

	return nil
}
