package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ExpandedTTL is how long a document's expanded rows are remembered.
const ExpandedTTL = 30 * 24 * time.Hour

// SaveExpanded stores the expanded row ids of a document.
func SaveExpanded(ctx context.Context, c Cache, docKey string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode expanded ids: %w", err)
	}
	return c.Set(ctx, "expanded:"+docKey, data, ExpandedTTL)
}

// LoadExpanded returns the expanded row ids stored for a document.
func LoadExpanded(ctx context.Context, c Cache, docKey string) ([]string, bool, error) {
	data, ok, err := c.Get(ctx, "expanded:"+docKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false, fmt.Errorf("decode expanded ids: %w", err)
	}
	return ids, true, nil
}
