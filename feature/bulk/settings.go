package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bulkdozer/core/entity"
	"bulkdozer/core/tabular"
	"bulkdozer/core/utils"
)

// Cells of the Store table holding workbook settings.
const (
	profileIDCell  = "B2"
	activeOnlyCell = "B5"
)

// Settings are the workbook level options kept next to the id map.
type Settings struct {
	ProfileID  string `json:"profileId"`
	ActiveOnly bool   `json:"activeOnly"`
}

// ReadSettings reads the settings cells of table. A missing table yields
// empty settings.
func ReadSettings(ctx context.Context, store tabular.Store, table string) (Settings, error) {
	var s Settings

	v, err := store.ReadCell(ctx, table, profileIDCell)
	if errors.Is(err, tabular.ErrTableNotFound) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read profile id: %w", err)
	}
	s.ProfileID = strings.TrimSpace(utils.ToString(v))

	v, err = store.ReadCell(ctx, table, activeOnlyCell)
	if err != nil {
		return s, fmt.Errorf("failed to read active only flag: %w", err)
	}
	s.ActiveOnly = entity.IsTrue(v)
	return s, nil
}

// ProfileID returns configured, falling back to the profile id cell of the
// Store table.
func ProfileID(ctx context.Context, store tabular.Store, table, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	s, err := ReadSettings(ctx, store, table)
	if err != nil {
		return "", err
	}
	if s.ProfileID == "" {
		return "", fmt.Errorf("no profile id configured and %s!%s is empty", table, profileIDCell)
	}
	return s.ProfileID, nil
}
