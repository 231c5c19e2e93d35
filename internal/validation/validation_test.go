package validation

import (
	"testing"

	"github.com/mintdesk/mintdesk/internal/networks"
)

func TestValidateEVMAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid lowercase", "0xdac17f958d2ee523a2206206994597c13d831ec7", false},
		{"valid checksummed", "0xdAC17F958D2ee523a2206206994597C13D831ec7", false},
		{"missing prefix", "dac17f958d2ee523a2206206994597c13d831ec700", true},
		{"too short", "0xdac17f958d2ee523a22062069945", true},
		{"too long", "0xdac17f958d2ee523a2206206994597c13d831ec700", true},
		{"non-hex characters", "0xzac17f958d2ee523a2206206994597c13d831ec7", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEVMAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEVMAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSolanaAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid mint", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", false},
		{"valid wrapped sol", "So11111111111111111111111111111111111111112", false},
		{"too short", "EPjFWdd5AufqSSqeM2qN1xzybapC", true},
		{"invalid base58 chars", "0PjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1l", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSolanaAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSolanaAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAddressDispatch(t *testing.T) {
	if err := ValidateAddress(networks.KindEVM, "0xdac17f958d2ee523a2206206994597c13d831ec7"); err != nil {
		t.Errorf("expected valid EVM address, got %v", err)
	}
	if err := ValidateAddress(networks.KindSolana, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"); err != nil {
		t.Errorf("expected valid Solana address, got %v", err)
	}
	if err := ValidateAddress(networks.KindSolana, "0xdac17f958d2ee523a2206206994597c13d831ec7"); err == nil {
		t.Error("expected EVM address to fail Solana validation")
	}
}

func TestValidateTxHash(t *testing.T) {
	evmHash := "0x" + "ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"
	if err := ValidateTxHash(networks.KindEVM, evmHash); err != nil {
		t.Errorf("expected valid EVM tx hash, got %v", err)
	}
	if err := ValidateTxHash(networks.KindEVM, "0x1234"); err == nil {
		t.Error("expected short EVM hash to fail")
	}

	solSig := "5wHu1qwD4kLwyRCDJFkyqy7yLZXZbjwXN3bXPnczLsBzTj1ZqJcW4R6T7Vb3Wq2sJZr6oQbKxFgNc5eYJHQ9tWk"
	if err := ValidateTxHash(networks.KindSolana, solSig); err != nil {
		t.Errorf("expected valid Solana signature, got %v", err)
	}
	if err := ValidateTxHash(networks.KindSolana, "short"); err == nil {
		t.Error("expected short Solana signature to fail")
	}
}

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "USDC", false},
		{"valid single char", "X", false},
		{"valid with digits", "W3TOKEN", false},
		{"max length", "ABCDEFGHIJK", false},
		{"too long", "ABCDEFGHIJKL", true},
		{"lowercase", "usdc", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSymbol(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSymbol(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDecimals(t *testing.T) {
	if err := ValidateDecimals(networks.KindEVM, 18); err != nil {
		t.Errorf("expected 18 decimals valid for EVM, got %v", err)
	}
	if err := ValidateDecimals(networks.KindEVM, 19); err == nil {
		t.Error("expected 19 decimals invalid for EVM")
	}
	if err := ValidateDecimals(networks.KindSolana, 9); err != nil {
		t.Errorf("expected 9 decimals valid for Solana, got %v", err)
	}
	if err := ValidateDecimals(networks.KindSolana, 10); err == nil {
		t.Error("expected 10 decimals invalid for Solana")
	}
}

func TestValidateCost(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "0.0042", false},
		{"valid integer", "1", false},
		{"empty allowed", "", false},
		{"negative", "-0.1", true},
		{"not a number", "lots", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCost(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCost(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeCost(t *testing.T) {
	if got := NormalizeCost("0.0100"); got != "0.01" {
		t.Errorf("NormalizeCost(0.0100) = %q, want 0.01", got)
	}
	if got := NormalizeCost(""); got != "" {
		t.Errorf("NormalizeCost(empty) = %q, want empty", got)
	}
}

func TestValidateLogoURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid https", "https://cdn.example.com/logo.png", false},
		{"empty allowed", "", false},
		{"http rejected", "http://cdn.example.com/logo.png", true},
		{"no host", "https://", true},
		{"garbage", "::not-a-url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogoURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLogoURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"valid", []string{"defi", "meme", "gaming-v2"}, false},
		{"nil allowed", nil, false},
		{"uppercase", []string{"DeFi"}, true},
		{"too short", []string{"a"}, true},
		{"duplicate", []string{"defi", "defi"}, true},
		{"too many", []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTags(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLinks(t *testing.T) {
	valid := map[string]string{
		"website": "https://example.com",
		"twitter": "https://x.com/example",
	}
	if err := ValidateLinks(valid); err != nil {
		t.Errorf("expected valid links, got %v", err)
	}

	if err := ValidateLinks(map[string]string{"myspace": "https://example.com"}); err == nil {
		t.Error("expected unknown platform to fail")
	}
	if err := ValidateLinks(map[string]string{"website": "ftp://example.com"}); err == nil {
		t.Error("expected non-http scheme to fail")
	}
}
