package db

import (
	"context"
	"fmt"
	"log/slog"

	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
	"workportal/internal/platform/config"
	"workportal/internal/platform/querier"
)

// Seed loads the reference directory and the predefined accounts. Every step
// is an upsert so it runs on each start.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	if err := ensureDirectory(ctx, db, directory.DefaultDirectory()); err != nil {
		return err
	}
	if err := ensureOrdered(ctx, db, "escalation_managers", "name", directory.DefaultEscalation()); err != nil {
		return err
	}
	if err := ensureOrdered(ctx, db, "status_options", "value", directory.DefaultStatusOptions()); err != nil {
		return err
	}
	if err := ensureManagerResources(ctx, db, directory.DefaultManagerResources()); err != nil {
		return err
	}

	created, err := auth.SeedUsers(ctx, auth.NewStore(db), auth.PredefinedUsers, cfg.SeedUserPassword)
	if err != nil {
		return err
	}
	if created > 0 {
		slog.Info("seeded predefined users", "count", created)
	}
	return nil
}

func ensureDirectory(ctx context.Context, db querier.Querier, dir directory.Directory) error {
	for _, dept := range dir.Departments() {
		for _, team := range dir.TeamsFor(dept) {
			for pos, manager := range dir.ManagersFor(dept, team) {
				_, err := db.Exec(ctx, `
          INSERT INTO directory_managers (department, team, manager, position)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (department, team, manager) DO UPDATE SET position = EXCLUDED.position
        `, dept, team, manager, pos)
				if err != nil {
					return fmt.Errorf("seed directory %s/%s: %w", dept, team, err)
				}
			}
		}
	}
	return nil
}

func ensureOrdered(ctx context.Context, db querier.Querier, table, column string, values []string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, position) VALUES ($1, $2)
    ON CONFLICT (%s) DO UPDATE SET position = EXCLUDED.position`, table, column, column)
	for pos, value := range values {
		if _, err := db.Exec(ctx, query, value, pos); err != nil {
			return fmt.Errorf("seed %s: %w", table, err)
		}
	}
	return nil
}

func ensureManagerResources(ctx context.Context, db querier.Querier, resources map[string]int) error {
	for manager, total := range resources {
		_, err := db.Exec(ctx, `
      INSERT INTO manager_resources (manager, total_resources)
      VALUES ($1,$2)
      ON CONFLICT (manager) DO NOTHING
    `, manager, total)
		if err != nil {
			return fmt.Errorf("seed manager resources: %w", err)
		}
	}
	return nil
}
