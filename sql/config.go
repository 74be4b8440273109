package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Config implements queuectl.ConfigStore using a SQL backend.
type Config struct {
	db *bun.DB
}

// NewConfig creates a new SQL-backed ConfigStore. The provided *bun.DB
// must be initialized with InitDB before use.
func NewConfig(db *bun.DB) *Config {
	return &Config{db: db}
}

// GetConfig returns the stored value for key, if any.
func (c *Config) GetConfig(ctx context.Context, key string) (string, bool, error) {
	var row configModel
	err := c.db.NewSelect().Model(&row).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

// SetConfig upserts key to value.
func (c *Config) SetConfig(ctx context.Context, key, value string) error {
	row := &configModel{Key: key, Value: value, UpdatedAt: time.Now()}
	_, err := c.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// AllConfig returns every stored key/value pair.
func (c *Config) AllConfig(ctx context.Context) (map[string]string, error) {
	var rows []*configModel
	if err := c.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, err
	}
	ret := make(map[string]string, len(rows))
	for _, row := range rows {
		ret[row.Key] = row.Value
	}
	return ret, nil
}
