package servicerecord

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	recordRepo "equipass/database/repository/servicerecord"
	requestRepo "equipass/database/repository/servicerequest"
	"equipass/models"
	"equipass/services/expert"

	expertRepo "equipass/database/repository/expert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecordRepo struct {
	records map[string]models.ServiceRecord
	seq     map[string]int64
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: map[string]models.ServiceRecord{}, seq: map[string]int64{}}
}

func (m *memRecordRepo) GetByID(id string) (*models.ServiceRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, recordRepo.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (m *memRecordRepo) GetByRequestAndExpert(serviceRequestID, expertID string) (*models.ServiceRecord, error) {
	for _, rec := range m.records {
		if rec.ServiceRequestID == serviceRequestID && rec.ExpertID == expertID {
			out := rec
			return &out, nil
		}
	}
	return nil, recordRepo.ErrNotFound
}

func (m *memRecordRepo) Create(record *models.ServiceRecord) error {
	m.records[record.ID] = *record
	return nil
}

func (m *memRecordRepo) Update(record *models.ServiceRecord) error {
	if _, ok := m.records[record.ID]; !ok {
		return recordRepo.ErrNotFound
	}
	m.records[record.ID] = *record
	return nil
}

func (m *memRecordRepo) find(match func(models.ServiceRecord) bool, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	var out []models.ServiceRecord
	for _, rec := range m.records {
		if !match(rec) {
			continue
		}
		if status != nil && rec.Status != *status {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRecordRepo) FindByExpert(expertID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	return m.find(func(r models.ServiceRecord) bool { return r.ExpertID == expertID }, status, limit)
}

func (m *memRecordRepo) FindByCustomer(customerUserID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	return m.find(func(r models.ServiceRecord) bool { return r.CustomerUserID == customerUserID }, status, limit)
}

func (m *memRecordRepo) CountActiveByExpert(expertID string) (int64, error) {
	var n int64
	for _, rec := range m.records {
		if rec.ExpertID != expertID {
			continue
		}
		if rec.Status == models.RecordStatusPending || rec.Status == models.RecordStatusInProgress {
			n++
		}
	}
	return n, nil
}

func (m *memRecordRepo) NextSequence(monthKey string) (int64, error) {
	m.seq[monthKey]++
	return m.seq[monthKey], nil
}

type memRequestRepo struct {
	requests map[string]models.ServiceRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: map[string]models.ServiceRequest{}}
}

func (m *memRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, requestRepo.ErrNotFound
	}
	out := req
	return &out, nil
}

func (m *memRequestRepo) Create(request *models.ServiceRequest) error {
	m.requests[request.ID] = *request
	return nil
}

func (m *memRequestRepo) Update(request *models.ServiceRequest) error {
	m.requests[request.ID] = *request
	return nil
}

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
	switch field {
	case "completedServices":
		exp.CompletedServices += delta
	case "totalReviews":
		exp.TotalReviews += delta
	default:
		return fmt.Errorf("unknown field %s", field)
	}
	m.experts[id] = exp
	return nil
}

func (m *memExpertRepo) List(criteria expertRepo.ExpertSearchCriteria) ([]models.Expert, error) {
	var out []models.Expert
	for _, exp := range m.experts {
		if criteria.MinRating > 0 && exp.AvgRating < criteria.MinRating {
			continue
		}
		out = append(out, exp)
	}
	return out, nil
}

type stubReminder struct {
	scheduled []string
}

func (s *stubReminder) ScheduleReviewRequest(_ context.Context, record *models.ServiceRecord) error {
	s.scheduled = append(s.scheduled, record.ID)
	return nil
}

type testEnv struct {
	records  *memRecordRepo
	requests *memRequestRepo
	experts  *memExpertRepo
	reminder *stubReminder
	svc      *DefaultServiceRecordService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		records:  newMemRecordRepo(),
		requests: newMemRequestRepo(),
		experts:  newMemExpertRepo(),
		reminder: &stubReminder{},
	}
	env.svc = &DefaultServiceRecordService{
		Repo:        env.records,
		RequestRepo: env.requests,
		ExpertRepo:  env.experts,
		WorkStatus: &expert.DefaultWorkStatusService{
			Repo:       env.experts,
			RecordRepo: env.records,
		},
		Reminder: env.reminder,
	}

	require.NoError(t, env.experts.Create(&models.Expert{
		ID:         "exp-1",
		Name:       "Anna Keller",
		WorkStatus: models.WorkStatusIdle,
	}))
	require.NoError(t, env.requests.Create(&models.ServiceRequest{
		ID:             "req-1",
		CustomerUserID: "user-1",
		CustomerOrgID:  "org-1",
		ServiceType:    "calibration",
		Title:          "Annual flow meter calibration",
		Description:    "Calibrate the two inline flow meters",
		Location:       "Hamburg",
		Status:         models.RequestStatusOpen,
	}))
	return env
}

func (e *testEnv) createRecord(t *testing.T) *models.ServiceRecord {
	t.Helper()
	record, err := e.svc.CreateServiceRecord(context.Background(), models.CreateServiceRecordInput{
		ServiceRequestID: "req-1",
		ExpertID:         "exp-1",
		CustomerUserID:   "user-1",
		CustomerOrgID:    "org-1",
		AgreedPrice:      450,
	})
	require.NoError(t, err)
	return record
}

func statusPtr(s models.ServiceRecordStatus) *models.ServiceRecordStatus { return &s }

func TestCreateServiceRecord(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	assert.Equal(t, models.RecordStatusPending, record.Status)
	assert.Equal(t, "Annual flow meter calibration", record.Title)
	assert.Equal(t, "calibration", record.ServiceType)
	assert.Equal(t, "Hamburg", record.Location)
	assert.Equal(t, 450.0, record.AgreedPrice)
	assert.Equal(t, "EUR", record.PriceCurrency)
	assert.False(t, record.IsReviewed)

	wantPrefix := "ESR-" + time.Now().Format("0601") + "-"
	assert.Equal(t, wantPrefix+"000001", record.RecordCode)

	exp, err := env.experts.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusBooked, exp.WorkStatus)
	assert.Equal(t, 1, exp.ActiveServiceCount)

	req, err := env.requests.GetByID("req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, req.Status)
	assert.Equal(t, "exp-1", req.AssignedExpertID)
}

func TestCreateServiceRecordSequenceIncrements(t *testing.T) {
	env := newTestEnv(t)
	env.createRecord(t)

	require.NoError(t, env.requests.Create(&models.ServiceRequest{
		ID:             "req-2",
		CustomerUserID: "user-2",
		ServiceType:    "repair",
		Title:          "Pump repair",
		Status:         models.RequestStatusOpen,
	}))
	second, err := env.svc.CreateServiceRecord(context.Background(), models.CreateServiceRecordInput{
		ServiceRequestID: "req-2",
		ExpertID:         "exp-1",
		CustomerUserID:   "user-2",
		AgreedPrice:      120,
	})
	require.NoError(t, err)
	assert.Equal(t, "ESR-"+time.Now().Format("0601")+"-000002", second.RecordCode)
}

func TestCreateServiceRecordDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.createRecord(t)

	_, err := env.svc.CreateServiceRecord(context.Background(), models.CreateServiceRecordInput{
		ServiceRequestID: "req-1",
		ExpertID:         "exp-1",
		CustomerUserID:   "user-1",
		AgreedPrice:      450,
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &ConflictError{})
}

func TestCreateServiceRecordUnknownEntities(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateServiceRecord(context.Background(), models.CreateServiceRecordInput{
		ServiceRequestID: "missing",
		ExpertID:         "exp-1",
		CustomerUserID:   "user-1",
		AgreedPrice:      10,
	})
	assert.ErrorAs(t, err, &NotFoundError{})

	_, err = env.svc.CreateServiceRecord(context.Background(), models.CreateServiceRecordInput{
		ServiceRequestID: "req-1",
		ExpertID:         "missing",
		CustomerUserID:   "user-1",
		AgreedPrice:      10,
	})
	assert.ErrorAs(t, err, &NotFoundError{})
}

func TestStatusTransitionTable(t *testing.T) {
	all := []models.ServiceRecordStatus{
		models.RecordStatusPending,
		models.RecordStatusInProgress,
		models.RecordStatusCompleted,
		models.RecordStatusCancelled,
		models.RecordStatusDisputed,
	}
	allowed := map[models.ServiceRecordStatus]map[models.ServiceRecordStatus]bool{
		models.RecordStatusPending:    {models.RecordStatusInProgress: true, models.RecordStatusCancelled: true},
		models.RecordStatusInProgress: {models.RecordStatusCompleted: true, models.RecordStatusCancelled: true, models.RecordStatusDisputed: true},
		models.RecordStatusCompleted:  {models.RecordStatusDisputed: true},
		models.RecordStatusCancelled:  {},
		models.RecordStatusDisputed:   {models.RecordStatusCompleted: true, models.RecordStatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				env := newTestEnv(t)
				record := env.createRecord(t)
				record.Status = from
				require.NoError(t, env.records.Update(record))

				updated, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
					models.ServiceRecordPatch{Status: statusPtr(to)}, "user-1", false)

				if allowed[from][to] {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)
					return
				}
				require.Error(t, err)
				assert.ErrorAs(t, err, &InvalidTransitionError{})

				// A rejected transition must leave the record untouched.
				stored, getErr := env.records.GetByID(record.ID)
				require.NoError(t, getErr)
				assert.Equal(t, from, stored.Status)
			})
		}
	}
}

func TestStartServiceStampsActualStart(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	updated, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{Status: statusPtr(models.RecordStatusInProgress)}, "exp-1", true)
	require.NoError(t, err)
	require.NotNil(t, updated.ActualStart)

	exp, err := env.experts.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusInService, exp.WorkStatus)
}

func TestCompleteService(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	_, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{Status: statusPtr(models.RecordStatusInProgress)}, "exp-1", true)
	require.NoError(t, err)

	price := 475.0
	notes := "Replaced the worn impeller seal."
	updated, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{
			Status:          statusPtr(models.RecordStatusCompleted),
			FinalPrice:      &price,
			CompletionNotes: &notes,
		}, "exp-1", true)
	require.NoError(t, err)

	assert.Equal(t, models.RecordStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	require.NotNil(t, updated.ActualEnd) // falls back to completion time
	require.NotNil(t, updated.FinalPrice)
	assert.Equal(t, 475.0, *updated.FinalPrice)
	assert.Equal(t, notes, updated.CompletionNotes)

	exp, err := env.experts.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, exp.CompletedServices)
	assert.Equal(t, models.WorkStatusIdle, exp.WorkStatus)
	assert.Equal(t, 0, exp.ActiveServiceCount)

	req, err := env.requests.GetByID("req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, req.Status)
	require.NotNil(t, req.CompletedAt)
}

func TestCancelService(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	reason := "customer rescheduled"
	updated, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{
			Status:             statusPtr(models.RecordStatusCancelled),
			CancellationReason: &reason,
		}, "user-1", false)
	require.NoError(t, err)

	assert.Equal(t, models.RecordStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelledAt)
	assert.Equal(t, reason, updated.CancellationReason)
	assert.Equal(t, "user-1", updated.CancelledBy)

	exp, err := env.experts.GetByID("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusIdle, exp.WorkStatus)
	assert.Equal(t, 0, exp.ActiveServiceCount)
}

func TestUpdateForeignRecordForbidden(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	_, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{Status: statusPtr(models.RecordStatusInProgress)}, "exp-other", true)
	require.Error(t, err)
	assert.ErrorAs(t, err, &ForbiddenError{})
}

func TestNotesFieldOwnership(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	expertNote := "brought spare gaskets"
	customerNote := "gate code is 4711"

	// A customer cannot write the expert's notes, and vice versa; the
	// disallowed field is skipped without failing the patch.
	updated, err := env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{ExpertNotes: &expertNote, CustomerNotes: &customerNote}, "user-1", false)
	require.NoError(t, err)
	assert.Empty(t, updated.ExpertNotes)
	assert.Equal(t, customerNote, updated.CustomerNotes)

	updated, err = env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{ExpertNotes: &expertNote}, "exp-1", true)
	require.NoError(t, err)
	assert.Equal(t, expertNote, updated.ExpertNotes)
	assert.Equal(t, customerNote, updated.CustomerNotes)
}

func TestConfirmCompletion(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	_, err := env.svc.ConfirmCompletion(context.Background(), record.ID, "user-1")
	require.Error(t, err)
	assert.ErrorAs(t, err, &InvalidStateError{})

	_, err = env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{Status: statusPtr(models.RecordStatusInProgress)}, "exp-1", true)
	require.NoError(t, err)
	_, err = env.svc.UpdateServiceRecord(context.Background(), record.ID,
		models.ServiceRecordPatch{Status: statusPtr(models.RecordStatusCompleted)}, "exp-1", true)
	require.NoError(t, err)

	_, err = env.svc.ConfirmCompletion(context.Background(), record.ID, "user-other")
	require.Error(t, err)
	assert.ErrorAs(t, err, &ForbiddenError{})

	confirmed, err := env.svc.ConfirmCompletion(context.Background(), record.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, confirmed.ConfirmedByCustomer)
	require.NotNil(t, confirmed.ConfirmedAt)
	require.NotNil(t, confirmed.ReviewRequestedAt)
	assert.Equal(t, []string{record.ID}, env.reminder.scheduled)
}

func TestConfirmUnknownRecord(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ConfirmCompletion(context.Background(), "missing", "user-1")
	require.Error(t, err)
	assert.ErrorAs(t, err, &NotFoundError{})
}

func TestListQueries(t *testing.T) {
	env := newTestEnv(t)
	record := env.createRecord(t)

	byExpert, err := env.svc.GetByExpert(context.Background(), "exp-1", nil, 0)
	require.NoError(t, err)
	require.Len(t, byExpert, 1)
	assert.Equal(t, record.ID, byExpert[0].ID)

	pending := models.RecordStatusPending
	byCustomer, err := env.svc.GetByCustomer(context.Background(), "user-1", &pending, 0)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	completed := models.RecordStatusCompleted
	empty, err := env.svc.GetByCustomer(context.Background(), "user-1", &completed, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
