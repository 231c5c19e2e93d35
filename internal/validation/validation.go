// Package validation provides input validation for Mintdesk.
package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/mintdesk/mintdesk/internal/networks"
)

// Tag validation: lowercase alphanumeric slugs with hyphens, 2-24 chars
var tagRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,22}[a-z0-9]$`)

// Token symbol validation: uppercase alphanumeric, 1-11 chars (wallet
// providers reject longer symbols in watch-asset requests)
var symbolRegex = regexp.MustCompile(`^[A-Z0-9]{1,11}$`)

// MaxTags is the maximum number of tags on a metadata record.
const MaxTags = 8

// linkPlatforms are the social link keys the metadata service accepts.
var linkPlatforms = map[string]bool{
	"website":  true,
	"twitter":  true,
	"telegram": true,
	"discord":  true,
	"github":   true,
}

// ValidateAddress validates an address for the given network kind.
func ValidateAddress(kind networks.Kind, addr string) error {
	switch kind {
	case networks.KindSolana:
		return ValidateSolanaAddress(addr)
	default:
		return ValidateEVMAddress(addr)
	}
}

// ValidateEVMAddress validates a 0x-prefixed 20-byte hex address.
func ValidateEVMAddress(addr string) error {
	if len(addr) != 42 {
		return errors.New("invalid address length: must be 42 characters (0x + 40 hex)")
	}
	if !strings.HasPrefix(addr, "0x") {
		return errors.New("invalid address: must start with 0x")
	}
	for _, c := range addr[2:] {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return errors.New("invalid address: contains non-hex characters")
		}
	}
	return nil
}

// ValidateSolanaAddress validates a base58-encoded 32-byte public key.
func ValidateSolanaAddress(addr string) error {
	if len(addr) < 32 || len(addr) > 44 {
		return errors.New("invalid address length: must be 32-44 base58 characters")
	}
	decoded, err := base58.Decode(addr)
	if err != nil {
		return errors.New("invalid address: not valid base58")
	}
	if len(decoded) != 32 {
		return errors.New("invalid address: must decode to 32 bytes")
	}
	return nil
}

// ValidateTxHash validates a transaction identifier for the given kind.
// EVM hashes are 0x-prefixed 32-byte hex; Solana signatures are base58.
func ValidateTxHash(kind networks.Kind, hash string) error {
	if kind == networks.KindSolana {
		if len(hash) < 64 || len(hash) > 90 {
			return errors.New("invalid transaction signature length")
		}
		if _, err := base58.Decode(hash); err != nil {
			return errors.New("invalid transaction signature: not valid base58")
		}
		return nil
	}
	if len(hash) != 66 || !strings.HasPrefix(hash, "0x") {
		return errors.New("invalid transaction hash: must be 66 characters (0x + 64 hex)")
	}
	for _, c := range hash[2:] {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return errors.New("invalid transaction hash: contains non-hex characters")
		}
	}
	return nil
}

// ValidateSymbol validates a token symbol.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return errors.New("symbol cannot be empty")
	}
	if !symbolRegex.MatchString(symbol) {
		return errors.New("invalid symbol: must be 1-11 uppercase alphanumeric characters")
	}
	return nil
}

// ValidateTokenName validates a token display name.
func ValidateTokenName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name cannot be empty")
	}
	if len(trimmed) > 64 {
		return errors.New("name too long (max 64 chars)")
	}
	return nil
}

// ValidateDecimals validates token decimals for the given network kind.
// EVM tokens conventionally use up to 18; SPL mints allow up to 9.
func ValidateDecimals(kind networks.Kind, decimals uint8) error {
	limit := uint8(18)
	if kind == networks.KindSolana {
		limit = 9
	}
	if decimals > limit {
		return errors.New("decimals out of range for network")
	}
	return nil
}

// ValidateCost validates a deployment cost expressed in native units.
func ValidateCost(cost string) error {
	if cost == "" {
		return nil
	}
	d, err := decimal.NewFromString(cost)
	if err != nil {
		return errors.New("invalid cost: not a decimal number")
	}
	if d.IsNegative() {
		return errors.New("invalid cost: cannot be negative")
	}
	return nil
}

// NormalizeCost canonicalizes a cost string ("0.0100" -> "0.01").
// Empty input stays empty; unparseable input is returned as-is for the
// validator to reject.
func NormalizeCost(cost string) string {
	if cost == "" {
		return ""
	}
	d, err := decimal.NewFromString(cost)
	if err != nil {
		return cost
	}
	return d.String()
}

// ValidateLogoURL validates a token logo URL. Only https is accepted.
func ValidateLogoURL(raw string) error {
	if raw == "" {
		return nil
	}
	if len(raw) > 512 {
		return errors.New("logo URL too long (max 512 chars)")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid logo URL")
	}
	if u.Scheme != "https" {
		return errors.New("logo URL must use https")
	}
	if u.Host == "" {
		return errors.New("logo URL missing host")
	}
	return nil
}

// ValidateTags validates a metadata tag set.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return errors.New("too many tags (max 8)")
	}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if !tagRegex.MatchString(tag) {
			return errors.New("invalid tag: must be a lowercase alphanumeric slug, 2-24 chars")
		}
		if seen[tag] {
			return errors.New("duplicate tag: " + tag)
		}
		seen[tag] = true
	}
	return nil
}

// ValidateLinks validates the social link map.
func ValidateLinks(links map[string]string) error {
	for platform, raw := range links {
		if !linkPlatforms[platform] {
			return errors.New("unknown link platform: " + platform)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("invalid link URL for " + platform)
		}
	}
	return nil
}
