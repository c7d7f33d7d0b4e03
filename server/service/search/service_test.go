package search

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/store"
)

// fakeDriver overrides only the agent surface; anything else panics via
// the embedded nil interface.
type fakeDriver struct {
	store.Driver

	agents     []*store.Agent
	embeddings map[int32][]float32
	lastQuery  []float32
	lastLimit  int
}

func newFakeDriver(agents ...*store.Agent) *fakeDriver {
	return &fakeDriver{agents: agents, embeddings: make(map[int32][]float32)}
}

func (d *fakeDriver) ListAgents(ctx context.Context, find *store.FindAgent) ([]*store.Agent, error) {
	list := make([]*store.Agent, 0)
	for _, a := range d.agents {
		if find.IsActive != nil && a.IsActive != *find.IsActive {
			continue
		}
		list = append(list, a)
	}
	return list, nil
}

func (d *fakeDriver) UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error {
	d.embeddings[agentID] = embedding
	return nil
}

func (d *fakeDriver) SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*store.Agent, error) {
	d.lastQuery = embedding
	d.lastLimit = limit
	if len(d.agents) > limit {
		return d.agents[:limit], nil
	}
	return d.agents, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

func testAgent(id int32, name string) *store.Agent {
	return &store.Agent{ID: id, UID: name, NameES: name, NameEN: name, IsActive: true}
}

func newTestService(driver *fakeDriver, embedder Embedder) *Service {
	return NewService(store.New(driver, &profile.Profile{}), embedder)
}

func TestSearchRanksByEmbedding(t *testing.T) {
	driver := newFakeDriver(testAgent(1, "chef"), testAgent(2, "tutor"))
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	svc := newTestService(driver, embedder)

	agents, err := svc.Search(context.Background(), "cocina", 5)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	require.Equal(t, []float32{0.1, 0.2}, driver.lastQuery)
	require.Equal(t, 5, driver.lastLimit)
}

func TestSearchEmptyQuery(t *testing.T) {
	driver := newFakeDriver(testAgent(1, "chef"))
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	svc := newTestService(driver, embedder)

	agents, err := svc.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	require.Empty(t, agents)
	require.Zero(t, embedder.calls)
}

func TestSearchWithoutEmbedder(t *testing.T) {
	svc := newTestService(newFakeDriver(testAgent(1, "chef")), nil)

	agents, err := svc.Search(context.Background(), "cocina", 5)
	require.NoError(t, err)
	require.Empty(t, agents)
}

func TestSearchEmbedFailureIsGraceful(t *testing.T) {
	driver := newFakeDriver(testAgent(1, "chef"))
	embedder := &fakeEmbedder{err: errors.New("quota exceeded")}
	svc := newTestService(driver, embedder)

	agents, err := svc.Search(context.Background(), "cocina", 5)
	require.NoError(t, err)
	require.Empty(t, agents)
}

func TestSearchClampsLimit(t *testing.T) {
	driver := newFakeDriver(testAgent(1, "a"), testAgent(2, "b"))
	svc := newTestService(driver, &fakeEmbedder{vector: []float32{1}})

	_, err := svc.Search(context.Background(), "x", 0)
	require.NoError(t, err)
	require.Equal(t, defaultLimit, driver.lastLimit)

	_, err = svc.Search(context.Background(), "x", 9999)
	require.NoError(t, err)
	require.Equal(t, defaultLimit, driver.lastLimit)
}

func TestIndexAgents(t *testing.T) {
	inactive := testAgent(3, "retired")
	inactive.IsActive = false
	driver := newFakeDriver(testAgent(1, "chef"), testAgent(2, "tutor"), inactive)
	embedder := &fakeEmbedder{vector: []float32{0.5}}
	svc := newTestService(driver, embedder)

	require.NoError(t, svc.IndexAgents(context.Background()))
	require.Len(t, driver.embeddings, 2)
	require.Equal(t, 2, embedder.calls)
	require.NotContains(t, driver.embeddings, int32(3))
}
