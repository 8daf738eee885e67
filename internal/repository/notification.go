package repository

import (
	"context"
	"fmt"
)

// GetReadStates returns the user's alert read flags keyed by derived alert id
func (r *Repository) GetReadStates(ctx context.Context, userID int64) (map[string]bool, error) {
	query := `
		SELECT alert_id, read
		FROM financas.notification_reads
		WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load read states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]bool)
	for rows.Next() {
		var id string
		var read bool
		if err := rows.Scan(&id, &read); err != nil {
			return nil, fmt.Errorf("failed to scan read state: %w", err)
		}
		states[id] = read
	}
	return states, rows.Err()
}

// MarkRead upserts the read flag for a derived alert id. Alerts themselves
// are never persisted, only this association.
func (r *Repository) MarkRead(ctx context.Context, userID int64, alertID string) error {
	query := `
		INSERT INTO financas.notification_reads (user_id, alert_id, read, updated_at)
		VALUES ($1, $2, true, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, alert_id)
		DO UPDATE SET read = true, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, alertID); err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	return nil
}

// GetPreferences returns the user's stored alert-subtype preferences. Absent
// subtypes fall back to defaults at derivation time.
func (r *Repository) GetPreferences(ctx context.Context, userID int64) (map[string]bool, error) {
	query := `
		SELECT subtype, enabled
		FROM financas.notification_prefs
		WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]bool)
	for rows.Next() {
		var subtype string
		var enabled bool
		if err := rows.Scan(&subtype, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs[subtype] = enabled
	}
	return prefs, rows.Err()
}

// SavePreferences upserts a batch of subtype preferences in one transaction
func (r *Repository) SavePreferences(ctx context.Context, userID int64, prefs map[string]bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO financas.notification_prefs (user_id, subtype, enabled, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, subtype)
		DO UPDATE SET enabled = $3, updated_at = CURRENT_TIMESTAMP`
	for subtype, enabled := range prefs {
		if _, err := tx.ExecContext(ctx, query, userID, subtype, enabled); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", subtype, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences: %w", err)
	}
	return nil
}
