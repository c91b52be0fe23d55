package figure

import (
	"fmt"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

// Token prefixes of materialized instances.
const (
	PrefixMark        = "mark"
	PrefixAxis        = "axis"
	PrefixInteraction = "intr"
)

func newToken(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

// ValidateToken checks that token is an instance token with the given prefix.
func ValidateToken(token, prefix string) error {
	parsed, err := typeid.Parse(token)
	if err != nil {
		return fmt.Errorf("invalid token %q: %w", token, err)
	}
	if parsed.Prefix() != prefix {
		return fmt.Errorf("expected prefix %q but got %q in token %q", prefix, parsed.Prefix(), token)
	}
	return nil
}

func newFigureID() string {
	return uuid.NewString()
}

func clipPathID(figureID string) string {
	return "clip_path_" + figureID
}
