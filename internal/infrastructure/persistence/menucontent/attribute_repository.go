package menucontent

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// AttributeRepository stores per-section attribute flags and scalar settings
// in the post_meta table, one row per (post, key).
type AttributeRepository struct {
	db *sql.DB
}

// NewAttributeRepository creates an attribute repository.
func NewAttributeRepository(db *sql.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// GetFlags loads a boolean flag record. The second return value reports
// whether the record exists.
func (r *AttributeRepository) GetFlags(postID int64, key string) (map[string]bool, bool, error) {
	raw, found, err := r.GetValue(postID, key)
	if err != nil || !found {
		return nil, found, err
	}

	var values map[string]bool
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal flags for %s: %w", key, err)
	}
	return values, true, nil
}

// SetFlags upserts a boolean flag record.
func (r *AttributeRepository) SetFlags(postID int64, key string, values map[string]bool) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal flags for %s: %w", key, err)
	}
	return r.SetValue(postID, key, string(raw))
}

// GetValue loads a scalar meta value.
func (r *AttributeRepository) GetValue(postID int64, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(
		`SELECT meta_value FROM post_meta WHERE post_id = ? AND meta_key = ?`,
		postID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load meta %s: %w", key, err)
	}
	return value, true, nil
}

// SetValue upserts a scalar meta value.
func (r *AttributeRepository) SetValue(postID int64, key, value string) error {
	query := `INSERT INTO post_meta (post_id, meta_key, meta_value) VALUES (?, ?, ?)
	          ON CONFLICT(post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`

	_, err := r.db.Exec(query, postID, key, value)
	if err != nil {
		return fmt.Errorf("failed to store meta %s: %w", key, err)
	}
	return nil
}
