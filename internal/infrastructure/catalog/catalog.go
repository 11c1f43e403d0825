package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
)

// FileCatalog serves the fixed collection from a JSON file loaded once at
// startup. The file is the source of truth for lazy-mint vouchers and
// signatures, so records are returned as copies to keep it immutable.
type FileCatalog struct {
	records []*entities.NFTRecord
	byID    map[string]*entities.NFTRecord
}

var _ repositories.CatalogRepository = (*FileCatalog)(nil)

// LoadFile reads and validates the catalog JSON file.
func LoadFile(path string) (*FileCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a catalog from raw JSON. Exposed separately so tests can feed
// fixtures without touching the filesystem.
func Parse(raw []byte) (*FileCatalog, error) {
	var records []*entities.NFTRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	byID := make(map[string]*entities.NFTRecord, len(records))
	for _, record := range records {
		if record.ID == "" {
			return nil, fmt.Errorf("catalog record without id")
		}
		if _, exists := byID[record.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id %s", record.ID)
		}
		byID[record.ID] = record
	}

	return &FileCatalog{records: records, byID: byID}, nil
}

// List returns all catalog records in file order.
func (c *FileCatalog) List(ctx context.Context) ([]*entities.NFTRecord, error) {
	out := make([]*entities.NFTRecord, len(c.records))
	for i, record := range c.records {
		copied := *record
		out[i] = &copied
	}
	return out, nil
}

// GetByID returns one record or ErrNotFound.
func (c *FileCatalog) GetByID(ctx context.Context, id string) (*entities.NFTRecord, error) {
	record, ok := c.byID[id]
	if !ok {
		return nil, domainerrors.NotFound("nft not found")
	}
	copied := *record
	return &copied, nil
}
