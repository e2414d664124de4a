package expert

import (
	"context"
	"testing"
	"time"

	expertRepo "equipass/database/repository/expert"
	recordRepo "equipass/database/repository/servicerecord"
	"equipass/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memExpertRepo struct {
	experts map[string]models.Expert
}

func newMemExpertRepo() *memExpertRepo {
	return &memExpertRepo{experts: map[string]models.Expert{}}
}

func (m *memExpertRepo) GetByID(id string) (*models.Expert, error) {
	exp, ok := m.experts[id]
	if !ok {
		return nil, expertRepo.ErrNotFound
	}
	out := exp
	return &out, nil
}

func (m *memExpertRepo) Create(exp *models.Expert) error {
	m.experts[exp.ID] = *exp
	return nil
}

func (m *memExpertRepo) Update(exp *models.Expert) error {
	m.experts[exp.ID] = *exp
	return nil
}

func (m *memExpertRepo) Increment(id, field string, delta int) error {
	exp, ok := m.experts[id]
	if !ok {
		return expertRepo.ErrNotFound
	}
	if field == "completedServices" {
		exp.CompletedServices += delta
	}
	m.experts[id] = exp
	return nil
}

func (m *memExpertRepo) List(criteria expertRepo.ExpertSearchCriteria) ([]models.Expert, error) {
	var out []models.Expert
	for _, exp := range m.experts {
		out = append(out, exp)
	}
	return out, nil
}

// countingRecordRepo only answers CountActiveByExpert; the work-status
// service never touches the rest.
type countingRecordRepo struct {
	active int64
}

func (c *countingRecordRepo) GetByID(string) (*models.ServiceRecord, error) {
	return nil, recordRepo.ErrNotFound
}
func (c *countingRecordRepo) GetByRequestAndExpert(string, string) (*models.ServiceRecord, error) {
	return nil, recordRepo.ErrNotFound
}
func (c *countingRecordRepo) Create(*models.ServiceRecord) error { return nil }
func (c *countingRecordRepo) Update(*models.ServiceRecord) error { return nil }
func (c *countingRecordRepo) FindByExpert(string, *models.ServiceRecordStatus, int64) ([]models.ServiceRecord, error) {
	return nil, nil
}
func (c *countingRecordRepo) FindByCustomer(string, *models.ServiceRecordStatus, int64) ([]models.ServiceRecord, error) {
	return nil, nil
}
func (c *countingRecordRepo) CountActiveByExpert(string) (int64, error) { return c.active, nil }
func (c *countingRecordRepo) NextSequence(string) (int64, error)        { return 1, nil }

func newWorkStatusService(t *testing.T, exp models.Expert) (*DefaultWorkStatusService, *memExpertRepo, *countingRecordRepo) {
	t.Helper()
	repo := newMemExpertRepo()
	require.NoError(t, repo.Create(&exp))
	records := &countingRecordRepo{}
	return &DefaultWorkStatusService{Repo: repo, RecordRepo: records}, repo, records
}

func TestOnAssignmentBooksIdleExpert(t *testing.T) {
	svc, repo, _ := newWorkStatusService(t, models.Expert{ID: "exp-1", WorkStatus: models.WorkStatusIdle})

	require.NoError(t, svc.OnAssignment(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusBooked, exp.WorkStatus)
	assert.Equal(t, 1, exp.ActiveServiceCount)
}

func TestOnAssignmentIsIdempotentWhenBooked(t *testing.T) {
	svc, repo, _ := newWorkStatusService(t, models.Expert{ID: "exp-1", WorkStatus: models.WorkStatusIdle})

	require.NoError(t, svc.OnAssignment(context.Background(), "exp-1"))
	require.NoError(t, svc.OnAssignment(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusBooked, exp.WorkStatus)
	assert.Equal(t, 1, exp.ActiveServiceCount, "second assignment call must not double-count")
}

func TestOnAssignmentClearsRushing(t *testing.T) {
	started := time.Now().Add(-time.Hour)
	svc, repo, _ := newWorkStatusService(t, models.Expert{
		ID:               "exp-1",
		WorkStatus:       models.WorkStatusRushing,
		RushingStartedAt: &started,
	})

	require.NoError(t, svc.OnAssignment(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusBooked, exp.WorkStatus)
	assert.Nil(t, exp.RushingStartedAt)
}

func TestOnAssignmentUnknownExpert(t *testing.T) {
	svc, _, _ := newWorkStatusService(t, models.Expert{ID: "exp-1", WorkStatus: models.WorkStatusIdle})

	err := svc.OnAssignment(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorAs(t, err, &NotFoundError{})
}

func TestRestoreAfterServiceGoesIdle(t *testing.T) {
	svc, repo, _ := newWorkStatusService(t, models.Expert{
		ID:                 "exp-1",
		WorkStatus:         models.WorkStatusInService,
		ActiveServiceCount: 1,
	})

	require.NoError(t, svc.RestoreAfterService(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusIdle, exp.WorkStatus)
	assert.Equal(t, 0, exp.ActiveServiceCount)
}

func TestRestoreAfterServiceStaysBookedWithRemainingWork(t *testing.T) {
	svc, repo, records := newWorkStatusService(t, models.Expert{
		ID:                 "exp-1",
		WorkStatus:         models.WorkStatusInService,
		ActiveServiceCount: 2,
	})
	records.active = 1

	require.NoError(t, svc.RestoreAfterService(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusBooked, exp.WorkStatus)
	assert.Equal(t, 1, exp.ActiveServiceCount)
}

func TestRestoreAfterServiceOverwritesManualToggle(t *testing.T) {
	svc, repo, _ := newWorkStatusService(t, models.Expert{
		ID:                 "exp-1",
		WorkStatus:         models.WorkStatusOffDuty,
		ActiveServiceCount: 1,
	})

	require.NoError(t, svc.RestoreAfterService(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusIdle, exp.WorkStatus, "completion re-derives availability, discarding OFF_DUTY")
}

func TestRestoreAfterServiceFloorsCounterAtZero(t *testing.T) {
	svc, repo, _ := newWorkStatusService(t, models.Expert{
		ID:                 "exp-1",
		WorkStatus:         models.WorkStatusIdle,
		ActiveServiceCount: 0,
	})

	require.NoError(t, svc.RestoreAfterService(context.Background(), "exp-1"))

	exp, err := repo.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, exp.ActiveServiceCount)
}

func TestSetWorkStatus(t *testing.T) {
	svc, _, _ := newWorkStatusService(t, models.Expert{ID: "exp-1", WorkStatus: models.WorkStatusIdle})

	for _, derived := range []models.ExpertWorkStatus{models.WorkStatusBooked, models.WorkStatusInService} {
		_, err := svc.SetWorkStatus(context.Background(), "exp-1", derived)
		require.Error(t, err)
		assert.ErrorAs(t, err, &ValidationError{})
	}

	exp, err := svc.SetWorkStatus(context.Background(), "exp-1", models.WorkStatusRushing)
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusRushing, exp.WorkStatus)
	require.NotNil(t, exp.RushingStartedAt)

	exp, err = svc.SetWorkStatus(context.Background(), "exp-1", models.WorkStatusOffDuty)
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusOffDuty, exp.WorkStatus)
	assert.Nil(t, exp.RushingStartedAt)
}
