package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// generateID generates a new UUID
func generateID() string {
	return uuid.New().String()
}

// generateAPIKey generates a new API key
func generateAPIKey() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return fmt.Sprintf("md_key_%s", hex.EncodeToString(b))
}

// hashAPIKey hashes an API key for storage
func hashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// marshalJSON serializes a value for a TEXT/JSONB column; nil-safe.
func marshalJSON(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// unmarshalTags parses a stored tag array; empty or malformed input
// yields nil.
func unmarshalTags(raw string) []string {
	if raw == "" || raw == "null" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// unmarshalLinks parses a stored link map; empty or malformed input
// yields nil.
func unmarshalLinks(raw string) map[string]string {
	if raw == "" || raw == "null" {
		return nil
	}
	var links map[string]string
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil
	}
	return links
}
