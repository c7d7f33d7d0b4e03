// Package chat implements the conversation message pipeline: usage
// limiting, duplicate guarding, tool dispatch and exchange persistence.
package chat

import (
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/magicailabs/magicai/ai"
	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/plugin/metrics"
	"github.com/magicailabs/magicai/store"
)

type Service struct {
	store    *store.Store
	registry *ai.Registry
	profile  *profile.Profile
	metrics  *metrics.Exporter

	// thumbnailSemaphore caps concurrent thumbnail generations.
	thumbnailSemaphore *semaphore.Weighted

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(st *store.Store, registry *ai.Registry, p *profile.Profile, m *metrics.Exporter) *Service {
	return &Service{
		store:              st,
		registry:           registry,
		profile:            p,
		metrics:            m,
		thumbnailSemaphore: semaphore.NewWeighted(3),
		now:                time.Now,
	}
}
