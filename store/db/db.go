package db

import (
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/store"
	"github.com/magicailabs/magicai/store/db/postgres"
	"github.com/magicailabs/magicai/store/db/sqlite"
)

// NewDBDriver creates the database driver selected by the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s", profile.Driver)
	}
}
