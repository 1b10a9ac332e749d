package bulk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"bulkdozer/core/tabular"
	"bulkdozer/core/utils"

	"gopkg.in/yaml.v3"
)

// ConfigsTable lists the sync mode of each entity.
const ConfigsTable = "Entity Configs"

// Mode selects which directions of a sync run an entity takes part in.
type Mode string

const (
	ModeAlways Mode = "ALWAYS"
	ModeLoad   Mode = "LOAD"
	ModePush   Mode = "PUSH"
	ModeNone   Mode = "NONE"
)

// ParseMode reads a mode cell. Blank cells mean ALWAYS.
func ParseMode(v any) (Mode, error) {
	s := Mode(strings.ToUpper(strings.TrimSpace(utils.ToString(v))))
	switch s {
	case "":
		return ModeAlways, nil
	case ModeAlways, ModeLoad, ModePush, ModeNone:
		return s, nil
	default:
		return "", fmt.Errorf("unknown entity mode %q", utils.ToString(v))
	}
}

// Loads reports whether the entity is loaded.
func (m Mode) Loads() bool { return m == ModeAlways || m == ModeLoad || m == "" }

// Pushes reports whether the entity is pushed.
func (m Mode) Pushes() bool { return m == ModeAlways || m == ModePush || m == "" }

// EntityConfigs maps entity name to mode. Entities not listed use ALWAYS.
type EntityConfigs map[string]Mode

// Mode returns the mode of entity.
func (c EntityConfigs) Mode(entity string) Mode {
	if m, ok := c[entity]; ok {
		return m
	}
	return ModeAlways
}

// Profile is a YAML file of entity modes used to seed the Entity Configs table.
type Profile struct {
	Entities map[string]Mode `yaml:"entities"`
}

// LoadProfile reads and validates a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	for name, m := range p.Entities {
		mode, err := ParseMode(string(m))
		if err != nil {
			return nil, fmt.Errorf("profile %s entity %s: %w", path, name, err)
		}
		p.Entities[name] = mode
	}
	return &p, nil
}

// ReadEntityConfigs reads the Entity Configs table. A missing table yields
// an empty configuration.
func ReadEntityConfigs(ctx context.Context, store tabular.Store) (EntityConfigs, error) {
	rows, err := store.ReadRows(ctx, ConfigsTable)
	if errors.Is(err, tabular.ErrTableNotFound) {
		return EntityConfigs{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigsTable, err)
	}

	configs := make(EntityConfigs, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(utils.ToString(row["Entity"]))
		if name == "" {
			continue
		}
		mode, err := ParseMode(row["Mode"])
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", name, err)
		}
		configs[name] = mode
	}
	return configs, nil
}

// WriteEntityConfigs replaces the Entity Configs table with configs,
// sorted by entity name.
func WriteEntityConfigs(ctx context.Context, store tabular.Store, configs EntityConfigs) error {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	values := [][]any{{"Entity", "Mode"}}
	for _, name := range names {
		values = append(values, []any{name, string(configs[name])})
	}

	if ok, err := store.TableExists(ctx, ConfigsTable); err != nil {
		return err
	} else if ok {
		if err := store.ClearRange(ctx, ConfigsTable, "A1:B"); err != nil {
			return fmt.Errorf("failed to clear %s: %w", ConfigsTable, err)
		}
	}
	if err := store.WriteCells(ctx, ConfigsTable, "A1", values); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigsTable, err)
	}
	return nil
}
