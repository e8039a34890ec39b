package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

// fakeContentRepo stores content by ID and can walk parent chains.
type fakeContentRepo struct {
	nextID   uint
	contents map[uint]domain.Content
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		contents: make(map[uint]domain.Content),
	}
}

func withContentID(c domain.Content, id uint) domain.Content {
	switch v := c.(type) {
	case domain.Task:
		v.Node.ID = id
		return v
	case domain.Info:
		v.Node.ID = id
		return v
	case domain.Solution:
		v.Node.ID = id
		return v
	case domain.Rating:
		v.Node.ID = id
		return v
	}

	return c
}

func (r *fakeContentRepo) add(c domain.Content) domain.Content {
	r.nextID++
	c = withContentID(c, r.nextID)
	r.contents[r.nextID] = c

	return c
}

func (r *fakeContentRepo) FindByID(_ context.Context, id uint) (domain.Content, error) {
	c, ok := r.contents[id]
	if !ok {
		return nil, repository.ErrContentNotFound
	}

	return c, nil
}

func (r *fakeContentRepo) FindChildren(_ context.Context, parentID uint) ([]domain.Content, error) {
	var out []domain.Content
	for _, c := range r.contents {
		if c.Parent() == parentID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *fakeContentRepo) FindParentChain(_ context.Context, id uint) ([]domain.Content, error) {
	var out []domain.Content
	c, ok := r.contents[id]
	if !ok {
		return nil, repository.ErrContentNotFound
	}

	for c.Parent() != 0 {
		parent, ok := r.contents[c.Parent()]
		if !ok {
			break
		}
		out = append(out, parent)
		c = parent
	}

	return out, nil
}

func (r *fakeContentRepo) Deactivate(_ context.Context, id uint) error {
	if _, ok := r.contents[id]; !ok {
		return repository.ErrContentNotFound
	}

	return nil
}

// fakeAllocationRepo performs the batch the way the dao does, against
// the in-memory package, ledger and content fakes.
type fakeAllocationRepo struct {
	contents *fakeContentRepo
	packages *fakeWorkPackageRepo
	ledger   *fakeLedgerRepo
}

func (r *fakeAllocationRepo) Allocate(ctx context.Context, input repository.AllocationInput) (domain.Content, domain.WorkPackage, error) {
	created := r.contents.add(input.Content)

	pkg, err := r.packages.Consume(ctx, map[domain.ContentKind]int{input.Content.Kind(): 1}, input.Conf, input.Content.Owner())
	if err != nil {
		return nil, domain.WorkPackage{}, err
	}

	for _, entry := range input.Entries {
		entry.ContentID = contentIDOf(created)
		r.ledger.entries[entry.ParticipantID] = append(r.ledger.entries[entry.ParticipantID], entry)
	}

	if input.Feedback != nil {
		feedback := *input.Feedback
		feedback.ContentID = contentIDOf(created)
		r.ledger.feedback[feedback.RecipientID] = append(r.ledger.feedback[feedback.RecipientID], feedback)
	}

	return created, pkg, nil
}

func (r *fakeAllocationRepo) CreateDirect(_ context.Context, content domain.Content) (domain.Content, error) {
	return r.contents.add(content), nil
}

func contentIDOf(c domain.Content) uint {
	switch v := c.(type) {
	case domain.Task:
		return v.Node.ID
	case domain.Info:
		return v.Node.ID
	case domain.Solution:
		return v.Node.ID
	case domain.Rating:
		return v.Node.ID
	}

	return 0
}

type allocationFixture struct {
	svc      *AllocationService
	contents *fakeContentRepo
	packages *fakeWorkPackageRepo
	ledger   *fakeLedgerRepo
	confs    *ConfigService
}

func newAllocationFixture(t *testing.T, input GlobalConfigInput, participantIDs ...uint) *allocationFixture {
	t.Helper()

	contents := newFakeContentRepo()
	packages := newFakeWorkPackageRepo(participantIDs...)
	ledger := newFakeLedgerRepo()
	confs := NewConfigService(newFakeConfigRepo())
	_, err := confs.CreateGlobal(context.Background(), input)
	require.NoError(t, err)

	locks := NewKeyedMutex()
	ledgerSvc := NewLedgerService(ledger)
	prestigeSvc := NewPrestigeService(ledger)
	allocRepo := &fakeAllocationRepo{contents: contents, packages: packages, ledger: ledger}

	return &allocationFixture{
		svc:      NewAllocationService(allocRepo, contents, packages, ledgerSvc, prestigeSvc, confs, locks),
		contents: contents,
		packages: packages,
		ledger:   ledger,
		confs:    confs,
	}
}

func (f *allocationFixture) provision(t *testing.T, participantID uint) {
	t.Helper()

	conf, err := f.confs.GlobalEffective(context.Background())
	require.NoError(t, err)
	_, err = f.packages.Provision(context.Background(), conf, participantID)
	require.NoError(t, err)
}

func freeCreationConfig() GlobalConfigInput {
	return GlobalConfigInput{
		NodeID:           1,
		PackageSize:      10,
		TaskSharePct:     50,
		InfoSharePct:     30,
		SolutionSharePct: 15,
		RateSharePct:     5,
		TaskPoints:        10,
		TaskMaxPoints:     10,
		InfoPoints:        5,
		InfoMaxPoints:     5,
		SolutionPoints:    20,
		SolutionMaxPoints: 20,
		RatingPoints:      1,
		RatingMaxPoints:   5,
	}
}

func TestAllocationService_CreateContent(t *testing.T) {
	actor := domain.Participant{ID: 1, Name: "ada"}

	t.Run("task creation consumes quota and writes the ledger pair", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1)
		f.provision(t, 1)

		result, err := f.svc.CreateContent(context.Background(), domain.KindTask, CreateContentInput{
			ParentID: 1,
			Title:    "sort the samples",
		}, actor)

		require.NoError(t, err)
		assert.False(t, result.Elevated)
		require.NotNil(t, result.Package)
		assert.Equal(t, 4, result.Package.TasksToDo)
		assert.Equal(t, 1, result.Package.TasksDone)

		entries := f.ledger.entries[1]
		require.Len(t, entries, 2)
		assert.Equal(t, domain.LedgerGain, entries[0].Kind)
		assert.Equal(t, 10.0, entries[0].Points)
		assert.False(t, entries[0].IsWeighted())
		assert.Equal(t, domain.LedgerCost, entries[1].Kind)
		assert.Equal(t, 0.0, entries[1].Points)

		created, err := f.contents.FindByID(context.Background(), contentIDOf(result.Content))
		require.NoError(t, err)
		assert.Equal(t, domain.KindTask, created.Kind())
		assert.Equal(t, uint(1), created.Owner())
	})

	t.Run("exhausted quota rejects the creation and writes nothing", func(t *testing.T) {
		conf := freeCreationConfig()
		conf.PackageSize = 4
		conf.TaskSharePct = 25
		conf.InfoSharePct = 25
		conf.SolutionSharePct = 25
		conf.RateSharePct = 25
		f := newAllocationFixture(t, conf, 1)
		f.provision(t, 1)

		_, err := f.svc.CreateContent(context.Background(), domain.KindTask, CreateContentInput{ParentID: 1, Title: "first"}, actor)
		require.NoError(t, err)

		_, err = f.svc.CreateContent(context.Background(), domain.KindTask, CreateContentInput{ParentID: 1, Title: "second"}, actor)

		assert.ErrorIs(t, err, ErrQuotaExhausted)
		assert.Len(t, f.ledger.entries[1], 2)
		assert.Len(t, f.contents.contents, 1)

		// Other kinds are still open.
		_, err = f.svc.CreateContent(context.Background(), domain.KindInfo, CreateContentInput{ParentID: 1, Title: "still allowed"}, actor)
		assert.NoError(t, err)
	})

	t.Run("insufficient balance rejects the creation", func(t *testing.T) {
		conf := freeCreationConfig()
		conf.TaskCost = 5
		f := newAllocationFixture(t, conf, 1)
		f.provision(t, 1)

		_, err := f.svc.CreateContent(context.Background(), domain.KindTask, CreateContentInput{ParentID: 1, Title: "too pricey"}, actor)

		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Empty(t, f.ledger.entries[1])
		assert.Empty(t, f.contents.contents)
	})

	t.Run("missing package rejects the creation", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1)

		_, err := f.svc.CreateContent(context.Background(), domain.KindTask, CreateContentInput{ParentID: 1, Title: "no package"}, actor)

		assert.ErrorIs(t, err, ErrPackageNotFound)
	})

	t.Run("admin bypasses quota and ledger", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1)
		admin := domain.Participant{ID: 9, Admin: true}

		result, err := f.svc.CreateContent(context.Background(), domain.KindTask, CreateContentInput{ParentID: 1, Title: "by decree"}, admin)

		require.NoError(t, err)
		assert.True(t, result.Elevated)
		assert.Nil(t, result.Package)
		assert.Empty(t, f.ledger.entries[9])
	})

	t.Run("draft solutions are created unfinished", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1)
		f.provision(t, 1)

		result, err := f.svc.CreateContent(context.Background(), domain.KindSolution, CreateContentInput{
			ParentID: 1,
			Title:    "work in progress",
			Draft:    true,
		}, actor)

		require.NoError(t, err)
		solution, ok := result.Content.(domain.Solution)
		require.True(t, ok)
		assert.False(t, solution.Finished)
		assert.True(t, solution.Active)
	})
}

func TestAllocationService_CreateRating(t *testing.T) {
	rater := domain.Participant{ID: 1, Name: "ada"}

	seedTarget := func(f *allocationFixture, authorID uint) uint {
		task := f.contents.add(domain.Task{Node: domain.Node{
			AuthorID: authorID,
			Title:    "rated work",
			Active:   true,
			Finished: true,
		}})

		return contentIDOf(task)
	}

	t.Run("rating credits the rated author with a weighted gain and feedback", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1, 2)
		f.provision(t, 1)
		targetID := seedTarget(f, 2)

		result, err := f.svc.CreateRating(context.Background(), CreateRatingInput{
			ContentID: targetID,
			Value:     4,
			Body:      "solid",
		}, rater)

		require.NoError(t, err)
		require.NotNil(t, result.Package)
		assert.Equal(t, 1, result.Package.RatingsDone)

		rating, ok := result.Content.(domain.Rating)
		require.True(t, ok)
		assert.Equal(t, targetID, rating.TargetID)
		assert.Equal(t, 4, rating.Value)

		// The rater books the flat pair.
		raterEntries := f.ledger.entries[1]
		require.Len(t, raterEntries, 2)
		assert.Equal(t, domain.LedgerGain, raterEntries[0].Kind)
		assert.Equal(t, 1.0, raterEntries[0].Points)

		// The rated author books the weighted gain: the rater has no
		// feedback yet, so their prestige is the default.
		authorEntries := f.ledger.entries[2]
		require.Len(t, authorEntries, 1)
		require.True(t, authorEntries[0].IsWeighted())
		assert.Equal(t, 4.0, authorEntries[0].Points)
		assert.Equal(t, domain.PrestigeDefault, *authorEntries[0].Prestige)
		assert.Equal(t, 10.0, *authorEntries[0].MaxPoints) // task max points

		feedback := f.ledger.feedback[2]
		require.Len(t, feedback, 1)
		assert.Equal(t, uint(1), feedback[0].RaterID)
		assert.Equal(t, 4, feedback[0].Points)
	})

	t.Run("rating uses the rater's accumulated prestige", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1, 2)
		f.provision(t, 1)
		targetID := seedTarget(f, 2)

		// Two prior judgements of the rater's work: mean prestige 4.
		f.ledger.feedback[1] = []domain.PrestigeFeedback{
			{RecipientID: 1, Points: 3},
			{RecipientID: 1, Points: 5},
		}

		_, err := f.svc.CreateRating(context.Background(), CreateRatingInput{
			ContentID: targetID,
			Value:     5,
		}, rater)

		require.NoError(t, err)
		authorEntries := f.ledger.entries[2]
		require.Len(t, authorEntries, 1)
		assert.Equal(t, 4.0, *authorEntries[0].Prestige)
	})

	t.Run("rating your own content is forbidden", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1)
		f.provision(t, 1)
		targetID := seedTarget(f, 1)

		_, err := f.svc.CreateRating(context.Background(), CreateRatingInput{
			ContentID: targetID,
			Value:     5,
		}, rater)

		assert.ErrorIs(t, err, ErrSelfActionForbidden)
		assert.Empty(t, f.ledger.entries[1])
	})

	t.Run("rating a missing content item", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 1)
		f.provision(t, 1)

		_, err := f.svc.CreateRating(context.Background(), CreateRatingInput{
			ContentID: 404,
			Value:     3,
		}, rater)

		assert.ErrorIs(t, err, ErrContentNotFound)
	})

	t.Run("admin rating bypasses quota and ledger", func(t *testing.T) {
		f := newAllocationFixture(t, freeCreationConfig(), 2)
		targetID := seedTarget(f, 2)
		admin := domain.Participant{ID: 9, Admin: true}

		result, err := f.svc.CreateRating(context.Background(), CreateRatingInput{
			ContentID: targetID,
			Value:     5,
		}, admin)

		require.NoError(t, err)
		assert.True(t, result.Elevated)
		assert.Empty(t, f.ledger.entries[2])
		assert.Empty(t, f.ledger.feedback[2])
	})
}
