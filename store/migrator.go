package store

import (
	"context"
	"embed"
	"fmt"

	"github.com/pkg/errors"
)

//go:embed migration/postgres/LATEST.sql migration/sqlite/LATEST.sql
var migrationFS embed.FS

// Migrate bootstraps an empty database with the full schema. Databases
// that already carry tables are left untouched; incremental migration is
// managed outside the server.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database state")
	}
	if initialized {
		return nil
	}

	buf, err := migrationFS.ReadFile(fmt.Sprintf("migration/%s/LATEST.sql", s.profile.Driver))
	if err != nil {
		return errors.Wrapf(err, "no bundled schema for driver %q", s.profile.Driver)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
