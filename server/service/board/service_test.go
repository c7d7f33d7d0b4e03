package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magicailabs/magicai/internal/ordering"
	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/store"
)

func newTestService(driver *fakeDriver) *Service {
	return NewService(store.New(driver, &profile.Profile{}))
}

func seedBoard(t *testing.T, svc *Service) (*store.Project, []*store.Section, []*store.Card) {
	t.Helper()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, 1, "Lanzamiento")
	require.NoError(t, err)

	sections := make([]*store.Section, 0, 2)
	for _, name := range []string{"Pendiente", "Hecho"} {
		section, err := svc.CreateSection(ctx, 1, project.UID, name)
		require.NoError(t, err)
		sections = append(sections, section)
	}

	cards := make([]*store.Card, 0, 3)
	for _, title := range []string{"Diseño", "Backend", "QA"} {
		card, err := svc.CreateCard(ctx, 1, sections[0].UID, &CreateCard{Title: title})
		require.NoError(t, err)
		cards = append(cards, card)
	}
	return project, sections, cards
}

func requireDenseCards(t *testing.T, svc *Service, sectionUID string) []*store.Card {
	t.Helper()
	cards, err := svc.ListCards(context.Background(), 1, sectionUID)
	require.NoError(t, err)
	require.True(t, ordering.IsDense(cardMembers(cards)), "positions must be a 0..n-1 permutation")
	return cards
}

func TestCreateCardAppendsAtEnd(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)

	require.EqualValues(t, 0, cards[0].Position)
	require.EqualValues(t, 1, cards[1].Position)
	require.EqualValues(t, 2, cards[2].Position)
	requireDenseCards(t, svc, sections[0].UID)
}

func TestMoveCardWithinSection(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	// Move the first card to the end; the others close the gap.
	require.NoError(t, svc.MoveCard(ctx, 1, cards[0].UID, sections[0].UID, 2))

	got := requireDenseCards(t, svc, sections[0].UID)
	require.Equal(t, []string{"Backend", "QA", "Diseño"}, titles(got))
}

func TestMoveCardToSamePositionIsNoop(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.MoveCard(ctx, 1, cards[1].UID, sections[0].UID, 1))
	got := requireDenseCards(t, svc, sections[0].UID)
	require.Equal(t, []string{"Diseño", "Backend", "QA"}, titles(got))
}

func TestMoveCardAcrossSections(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.MoveCard(ctx, 1, cards[1].UID, sections[1].UID, 0))

	source := requireDenseCards(t, svc, sections[0].UID)
	require.Equal(t, []string{"Diseño", "QA"}, titles(source))

	target := requireDenseCards(t, svc, sections[1].UID)
	require.Equal(t, []string{"Backend"}, titles(target))
}

func TestMoveCardClampsPosition(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	// Way past the end of the empty target section.
	require.NoError(t, svc.MoveCard(ctx, 1, cards[0].UID, sections[1].UID, 99))
	target := requireDenseCards(t, svc, sections[1].UID)
	require.Equal(t, []string{"Diseño"}, titles(target))
	require.EqualValues(t, 0, target[0].Position)
}

func TestDeleteCardRenumbersSection(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.DeleteCard(ctx, 1, cards[0].UID))
	got := requireDenseCards(t, svc, sections[0].UID)
	require.Equal(t, []string{"Backend", "QA"}, titles(got))
}

func TestReorderCardsFullPermutation(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.ReorderCards(ctx, 1, sections[0].UID,
		[]string{cards[2].UID, cards[0].UID, cards[1].UID}))

	got := requireDenseCards(t, svc, sections[0].UID)
	require.Equal(t, []string{"QA", "Diseño", "Backend"}, titles(got))
}

func TestReorderCardsRejectsPartialPermutation(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	err := svc.ReorderCards(ctx, 1, sections[0].UID, []string{cards[0].UID})
	require.Error(t, err)

	err = svc.ReorderCards(ctx, 1, sections[0].UID,
		[]string{cards[0].UID, cards[0].UID, cards[1].UID})
	require.Error(t, err)
}

func TestSectionLifecycle(t *testing.T) {
	svc := newTestService(newFakeDriver())
	project, sections, _ := seedBoard(t, svc)
	ctx := context.Background()

	third, err := svc.CreateSection(ctx, 1, project.UID, "Bloqueado")
	require.NoError(t, err)
	require.EqualValues(t, 2, third.Position)

	require.NoError(t, svc.MoveSection(ctx, 1, third.UID, 0))
	got, err := svc.ListSections(ctx, 1, project.UID)
	require.NoError(t, err)
	require.Equal(t, []string{"Bloqueado", "Pendiente", "Hecho"}, sectionNames(got))

	require.NoError(t, svc.DeleteSection(ctx, 1, sections[0].UID))
	got, err = svc.ListSections(ctx, 1, project.UID)
	require.NoError(t, err)
	require.Equal(t, []string{"Bloqueado", "Hecho"}, sectionNames(got))
	require.True(t, ordering.IsDense(sectionMembers(got)))
}

func TestUpdateCardResetsReminderState(t *testing.T) {
	driver := newFakeDriver()
	svc := newTestService(driver)
	_, _, cards := seedBoard(t, svc)
	ctx := context.Background()

	driver.cards[cards[0].ID].ReminderState = store.ReminderSent

	due := int64(1_800_000_000)
	updated, err := svc.UpdateCard(ctx, 1, cards[0].UID, &store.UpdateCard{DueTs: &due})
	require.NoError(t, err)
	require.Equal(t, store.ReminderPending, updated.ReminderState)

	// A title-only patch leaves the state alone.
	driver.cards[cards[0].ID].ReminderState = store.ReminderSent
	title := "Diseño v2"
	updated, err = svc.UpdateCard(ctx, 1, cards[0].UID, &store.UpdateCard{Title: &title})
	require.NoError(t, err)
	require.Equal(t, store.ReminderSent, updated.ReminderState)
}

func TestOwnershipChain(t *testing.T) {
	svc := newTestService(newFakeDriver())
	project, sections, cards := seedBoard(t, svc)
	ctx := context.Background()

	_, err := svc.GetProject(ctx, 2, project.UID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListCards(ctx, 2, sections[0].UID)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteCard(ctx, 2, cards[0].UID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRandomizedMovesKeepDensity(t *testing.T) {
	svc := newTestService(newFakeDriver())
	_, sections, _ := seedBoard(t, svc)
	ctx := context.Background()

	// Grow the board a bit, then shuffle cards around both sections.
	for i := 0; i < 5; i++ {
		_, err := svc.CreateCard(ctx, 1, sections[1].UID, &CreateCard{Title: "extra"})
		require.NoError(t, err)
	}

	seq := []struct {
		fromSection int
		cardIndex   int
		toSection   int
		position    int32
	}{
		{0, 0, 1, 3}, {1, 2, 0, 0}, {0, 1, 0, 2}, {1, 4, 1, 0},
		{0, 2, 1, 6}, {1, 0, 0, 1}, {0, 0, 0, 3}, {1, 1, 0, 0},
	}
	for _, step := range seq {
		from, err := svc.ListCards(ctx, 1, sections[step.fromSection].UID)
		require.NoError(t, err)
		if step.cardIndex >= len(from) {
			continue
		}
		require.NoError(t, svc.MoveCard(ctx, 1,
			from[step.cardIndex].UID, sections[step.toSection].UID, step.position))

		requireDenseCards(t, svc, sections[0].UID)
		requireDenseCards(t, svc, sections[1].UID)
	}
}

func titles(cards []*store.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Title)
	}
	return out
}

func sectionNames(sections []*store.Section) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Name)
	}
	return out
}
