package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/recallbot/internal/spaced_repetition"
	"github.com/example/recallbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleUpdate struct {
	id         int64
	interval   int
	nextReview time.Time
}

// fakeRepo implements Repository in memory. When persist is set the
// schedule updates are applied to the stored items, mimicking the real
// store; otherwise they are only recorded.
type fakeRepo struct {
	items      []models.ScheduledItem
	learners   map[int64]*models.Learner
	words      map[int64]*models.Word
	queryErr   error
	failUpdate map[int64]error
	persist    bool
	updates    []scheduleUpdate
}

func (f *fakeRepo) FindDueScheduledItems(ctx context.Context, now time.Time) ([]models.ScheduledItem, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return spaced_repetition.SelectDue(now, f.items), nil
}

func (f *fakeRepo) UpdateScheduledItemSchedule(ctx context.Context, id int64, interval int, nextReview time.Time) error {
	if err := f.failUpdate[id]; err != nil {
		return err
	}
	f.updates = append(f.updates, scheduleUpdate{id: id, interval: interval, nextReview: nextReview})
	if f.persist {
		for i := range f.items {
			if f.items[i].ID == id {
				f.items[i].Interval = interval
				f.items[i].NextReviewDate = nextReview
			}
		}
	}
	return nil
}

func (f *fakeRepo) FindLearner(ctx context.Context, id int64) (*models.Learner, error) {
	return f.learners[id], nil
}

func (f *fakeRepo) FindWord(ctx context.Context, id int64) (*models.Word, error) {
	return f.words[id], nil
}

type prompt struct {
	learnerID int64
	wordID    int64
}

type fakeNotifier struct {
	err     error
	prompts []prompt
}

func (f *fakeNotifier) Prompt(learner *models.Learner, word *models.Word) error {
	f.prompts = append(f.prompts, prompt{learnerID: learner.ID, wordID: word.ID})
	return f.err
}

func testLearner(id int64) *models.Learner {
	return &models.Learner{ID: id, FirstName: "Test", WordsPerDay: 1}
}

func testWord(id int64) *models.Word {
	return &models.Word{ID: id, Word: "serendipity", Translation: "luck"}
}

func TestRunReviewPassAdvancesSchedules(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
			{ID: 2, LearnerID: 10, WordID: 101, Interval: 5, NextReviewDate: now},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100), 101: testWord(101)},
		persist:  true,
	}
	notifier := &fakeNotifier{}

	result, err := New(repo, notifier, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, PassResult{Processed: 2, Failures: 0, Skipped: 0}, result)
	require.Len(t, repo.updates, 2)
	assert.Equal(t, scheduleUpdate{id: 1, interval: 5, nextReview: now.AddDate(0, 0, 5)}, repo.updates[0])
	assert.Equal(t, scheduleUpdate{id: 2, interval: 13, nextReview: now.AddDate(0, 0, 13)}, repo.updates[1])
	assert.Len(t, notifier.prompts, 2)
}

func TestRunReviewPassIgnoresNotDueItems(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, 3)},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100)},
	}
	notifier := &fakeNotifier{}

	result, err := New(repo, notifier, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, PassResult{}, result)
	assert.Empty(t, repo.updates)
	assert.Empty(t, notifier.prompts)
}

func TestRunReviewPassSkipsOrphanedItems(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			// Learner 99 and word 999 do not exist
			{ID: 1, LearnerID: 99, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
			{ID: 2, LearnerID: 10, WordID: 999, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
			{ID: 3, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100)},
	}
	notifier := &fakeNotifier{}

	result, err := New(repo, notifier, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, PassResult{Processed: 3, Failures: 0, Skipped: 2}, result)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, int64(3), repo.updates[0].id)
	assert.Len(t, notifier.prompts, 1)
}

func TestRunReviewPassAdvancesDespiteNotifierFailure(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100)},
	}
	notifier := &fakeNotifier{err: errors.New("telegram unreachable")}

	result, err := New(repo, notifier, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), now)

	require.NoError(t, err)
	// Delivery failures don't count as item failures and don't stop
	// the schedule from advancing
	assert.Equal(t, PassResult{Processed: 1, Failures: 0, Skipped: 0}, result)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, 5, repo.updates[0].interval)
}

func TestRunReviewPassIsolatesItemFailures(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
			{ID: 2, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
			{ID: 3, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
		},
		learners:   map[int64]*models.Learner{10: testLearner(10)},
		words:      map[int64]*models.Word{100: testWord(100)},
		failUpdate: map[int64]error{2: errors.New("disk full")},
	}
	notifier := &fakeNotifier{}

	result, err := New(repo, notifier, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, PassResult{Processed: 3, Failures: 1, Skipped: 0}, result)
	require.Len(t, repo.updates, 2)
	assert.Equal(t, int64(1), repo.updates[0].id)
	assert.Equal(t, int64(3), repo.updates[1].id)
}

func TestRunReviewPassFailsWhenQueryFails(t *testing.T) {
	repo := &fakeRepo{queryErr: errors.New("connection refused")}
	notifier := &fakeNotifier{}

	result, err := New(repo, notifier, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), time.Now())

	require.Error(t, err)
	assert.Equal(t, PassResult{}, result)
	assert.Empty(t, notifier.prompts)
}

func TestRunReviewPassIsDeterministicForStoredState(t *testing.T) {
	// Two passes over the same stored snapshot compute the same result:
	// the next interval is a pure function of the stored interval.
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now.AddDate(0, 0, -1)},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100)},
		persist:  false,
	}
	orchestrator := New(repo, &fakeNotifier{}, spaced_repetition.NewPolicy())

	_, err := orchestrator.RunReviewPass(context.Background(), now)
	require.NoError(t, err)
	_, err = orchestrator.RunReviewPass(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, repo.updates, 2)
	assert.Equal(t, repo.updates[0], repo.updates[1])
}

func TestRunReviewPassCompoundsAcrossCycles(t *testing.T) {
	// Once an update is persisted, the next pass grows from the new
	// interval: 2 -> 5 -> 13
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 2, NextReviewDate: now},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100)},
		persist:  true,
	}
	orchestrator := New(repo, &fakeNotifier{}, spaced_repetition.NewPolicy())

	_, err := orchestrator.RunReviewPass(context.Background(), now)
	require.NoError(t, err)

	later := now.AddDate(0, 0, 5)
	_, err = orchestrator.RunReviewPass(context.Background(), later)
	require.NoError(t, err)

	require.Len(t, repo.updates, 2)
	assert.Equal(t, 5, repo.updates[0].interval)
	assert.Equal(t, now.AddDate(0, 0, 5), repo.updates[0].nextReview)
	assert.Equal(t, 13, repo.updates[1].interval)
	assert.Equal(t, later.AddDate(0, 0, 13), repo.updates[1].nextReview)
}

func TestRunReviewPassClampsCorruptedInterval(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []models.ScheduledItem{
			{ID: 1, LearnerID: 10, WordID: 100, Interval: 0, NextReviewDate: now.AddDate(0, 0, -1)},
		},
		learners: map[int64]*models.Learner{10: testLearner(10)},
		words:    map[int64]*models.Word{100: testWord(100)},
	}

	_, err := New(repo, &fakeNotifier{}, spaced_repetition.NewPolicy()).RunReviewPass(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, repo.updates, 1)
	// round(0 * 2.5) = 0, the floor forces a one day interval
	assert.Equal(t, 1, repo.updates[0].interval)
	assert.Equal(t, now.AddDate(0, 0, 1), repo.updates[0].nextReview)
}
