package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	id "datahub/pkg/domain"
	"datahub/pkg/platform/sentinel"

	"datahub/internal/meteringpoint/ports"
)

// GridAreaDirectory is an in-memory grid-area directory.
type GridAreaDirectory struct {
	mu     sync.RWMutex
	byCode map[string]ports.GridArea
}

func NewGridAreaDirectory(areas ...ports.GridArea) *GridAreaDirectory {
	d := &GridAreaDirectory{byCode: make(map[string]ports.GridArea, len(areas))}
	for _, a := range areas {
		d.byCode[a.Code] = a
	}
	return d
}

// Register adds or replaces a grid area.
func (d *GridAreaDirectory) Register(area ports.GridArea) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byCode[area.Code] = area
}

func (d *GridAreaDirectory) FindByCode(_ context.Context, code string) (ports.GridArea, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	area, ok := d.byCode[strings.TrimSpace(code)]
	if !ok {
		return ports.GridArea{}, fmt.Errorf("grid area %q: %w", code, sentinel.ErrNotFound)
	}
	return area, nil
}

// PostgresGridAreas reads the grid_areas table.
type PostgresGridAreas struct {
	q queryer
}

func NewPostgresGridAreas(db *sql.DB) *PostgresGridAreas {
	return &PostgresGridAreas{q: db}
}

func (g *PostgresGridAreas) FindByCode(ctx context.Context, code string) (ports.GridArea, error) {
	var (
		linkID uuid.UUID
		area   ports.GridArea
	)
	err := g.q.QueryRowContext(ctx,
		`SELECT link_id, code, name FROM grid_areas WHERE code = $1`,
		strings.TrimSpace(code),
	).Scan(&linkID, &area.Code, &area.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.GridArea{}, fmt.Errorf("grid area %q: %w", code, sentinel.ErrNotFound)
		}
		return ports.GridArea{}, fmt.Errorf("find grid area: %w", err)
	}
	area.LinkID = id.GridAreaLinkID(linkID)
	return area, nil
}

// Upsert registers or renames a grid area. Used for seeding.
func (g *PostgresGridAreas) Upsert(ctx context.Context, area ports.GridArea) error {
	_, err := g.q.ExecContext(ctx, `
		INSERT INTO grid_areas (link_id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
	`, uuid.UUID(area.LinkID), area.Code, area.Name)
	if err != nil {
		return fmt.Errorf("upsert grid area: %w", err)
	}
	return nil
}
