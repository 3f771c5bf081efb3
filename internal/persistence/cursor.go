// Package persistence contains helpers shared by repository implementations.
package persistence

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"example.com/getfit/internal/domain"
)

// Cursor tokens travel in query strings, so the encoding is URL-safe
// and unpadded.
var cursorEncoding = base64.RawURLEncoding

// EncodeCursor serialises the cursor to an opaque page token.
func EncodeCursor(c *domain.Cursor) string {
	if c == nil {
		return ""
	}
	raw := c.OccurredAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return cursorEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a page token produced by EncodeCursor. An empty
// or blank token means "first page" and yields a nil cursor.
func DecodeCursor(token string) (*domain.Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	decoded, err := cursorEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	ts, id, ok := strings.Cut(string(decoded), "|")
	if !ok || id == "" {
		return nil, fmt.Errorf("malformed cursor token")
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("decode cursor timestamp: %w", err)
	}
	return &domain.Cursor{OccurredAt: occurredAt, ID: id}, nil
}
