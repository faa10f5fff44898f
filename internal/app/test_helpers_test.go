package app

import (
	"context"
	"sort"
	"time"

	"github.com/example/stargate/internal/core/duty"
	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement the interfaces
var (
	_ secondary.TransactionManager        = (*mockTxManager)(nil)
	_ secondary.PersonRepository          = (*mockPersonRepository)(nil)
	_ secondary.AstronautDutyRepository   = (*mockDutyRepository)(nil)
	_ secondary.AstronautDetailRepository = (*mockDetailRepository)(nil)
)

// mockTxManager runs fn directly and counts calls.
type mockTxManager struct {
	calls int
	err   error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

// mockPersonRepository implements secondary.PersonRepository for testing.
// Astronaut summaries are read from the linked detail mock when set.
type mockPersonRepository struct {
	people    map[string]*secondary.PersonRecord
	details   *mockDetailRepository
	nextID    int64
	createErr error
	getErr    error
	existsErr error
}

func newMockPersonRepository() *mockPersonRepository {
	return &mockPersonRepository{
		people: make(map[string]*secondary.PersonRecord),
		nextID: 1,
	}
}

func (m *mockPersonRepository) add(name string) *secondary.PersonRecord {
	record := &secondary.PersonRecord{ID: m.nextID, Name: name, CreatedAt: "2024-01-01T00:00:00Z"}
	m.nextID++
	m.people[name] = record
	return record
}

func (m *mockPersonRepository) Create(ctx context.Context, person *secondary.PersonRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.people[person.Name]; ok {
		return domainErr.Conflictf("person %q already exists", person.Name)
	}
	person.ID = m.nextID
	person.CreatedAt = "2024-01-01T00:00:00Z"
	m.nextID++
	m.people[person.Name] = person
	return nil
}

func (m *mockPersonRepository) GetByName(ctx context.Context, name string) (*secondary.PersonRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.people[name]; ok {
		return p, nil
	}
	return nil, domainErr.NotFoundf("person %q not found", name)
}

func (m *mockPersonRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.people[name]
	return ok, nil
}

func (m *mockPersonRepository) GetAstronautByName(ctx context.Context, name string) (*secondary.PersonAstronautRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.people[name]
	if !ok {
		return nil, domainErr.NotFoundf("person %q not found", name)
	}
	return m.toAstronaut(p), nil
}

func (m *mockPersonRepository) ListAstronauts(ctx context.Context) ([]*secondary.PersonAstronautRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []*secondary.PersonAstronautRecord
	for _, p := range m.people {
		result = append(result, m.toAstronaut(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockPersonRepository) toAstronaut(p *secondary.PersonRecord) *secondary.PersonAstronautRecord {
	record := &secondary.PersonAstronautRecord{PersonID: p.ID, Name: p.Name}
	if m.details == nil {
		return record
	}
	if d, ok := m.details.details[p.ID]; ok {
		start := d.CareerStartDate
		record.HasDetail = true
		record.CurrentRank = d.CurrentRank
		record.CurrentDutyTitle = d.CurrentDutyTitle
		record.CareerStartDate = &start
		record.CareerEndDate = d.CareerEndDate
	}
	return record
}

// mockDutyRepository implements secondary.AstronautDutyRepository for testing.
type mockDutyRepository struct {
	duties    []*secondary.AstronautDutyRecord
	nextID    int64
	createErr error
	listErr   error
}

func newMockDutyRepository() *mockDutyRepository {
	return &mockDutyRepository{nextID: 1}
}

func (m *mockDutyRepository) add(personID int64, rank, title string, start time.Time, end *time.Time) *secondary.AstronautDutyRecord {
	record := &secondary.AstronautDutyRecord{
		ID:            m.nextID,
		PersonID:      personID,
		Rank:          rank,
		DutyTitle:     title,
		DutyStartDate: start,
		DutyEndDate:   end,
	}
	m.nextID++
	m.duties = append(m.duties, record)
	return record
}

func (m *mockDutyRepository) Create(ctx context.Context, d *secondary.AstronautDutyRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	d.ID = m.nextID
	m.nextID++
	m.duties = append(m.duties, d)
	return nil
}

func (m *mockDutyRepository) ListByPerson(ctx context.Context, personID int64) ([]*secondary.AstronautDutyRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.AstronautDutyRecord
	for _, d := range m.duties {
		if d.PersonID == personID {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyStartDate.Before(result[j].DutyStartDate) })
	return result, nil
}

func (m *mockDutyRepository) GetOpenByPerson(ctx context.Context, personID int64) (*secondary.AstronautDutyRecord, error) {
	var open *secondary.AstronautDutyRecord
	for _, d := range m.duties {
		if d.PersonID != personID || d.DutyEndDate != nil {
			continue
		}
		if open == nil || d.DutyStartDate.After(open.DutyStartDate) {
			open = d
		}
	}
	return open, nil
}

func (m *mockDutyRepository) ExistsForStartDate(ctx context.Context, personID int64, startDate time.Time) (bool, error) {
	for _, d := range m.duties {
		if d.PersonID == personID && duty.SameDay(d.DutyStartDate, startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDutyRepository) Close(ctx context.Context, dutyID int64, endDate time.Time) error {
	for _, d := range m.duties {
		if d.ID == dutyID {
			end := endDate
			d.DutyEndDate = &end
			return nil
		}
	}
	return domainErr.NotFoundf("astronaut duty %d not found", dutyID)
}

// mockDetailRepository implements secondary.AstronautDetailRepository for testing.
type mockDetailRepository struct {
	details   map[int64]*secondary.AstronautDetailRecord // personID -> detail
	nextID    int64
	updateErr error
}

func newMockDetailRepository() *mockDetailRepository {
	return &mockDetailRepository{
		details: make(map[int64]*secondary.AstronautDetailRecord),
		nextID:  1,
	}
}

func (m *mockDetailRepository) GetByPersonID(ctx context.Context, personID int64) (*secondary.AstronautDetailRecord, error) {
	if d, ok := m.details[personID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (m *mockDetailRepository) Create(ctx context.Context, detail *secondary.AstronautDetailRecord) error {
	if _, ok := m.details[detail.PersonID]; ok {
		return domainErr.Conflictf("astronaut detail already exists for person %d", detail.PersonID)
	}
	detail.ID = m.nextID
	m.nextID++
	m.details[detail.PersonID] = detail
	return nil
}

func (m *mockDetailRepository) Update(ctx context.Context, detail *secondary.AstronautDetailRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.details[detail.PersonID]; !ok {
		return domainErr.NotFoundf("astronaut detail %d not found", detail.ID)
	}
	m.details[detail.PersonID] = detail
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func newDetail(personID int64, rank, title string, start time.Time, end *time.Time) *secondary.AstronautDetailRecord {
	return &secondary.AstronautDetailRecord{
		ID:               personID,
		PersonID:         personID,
		CurrentRank:      rank,
		CurrentDutyTitle: title,
		CareerStartDate:  start,
		CareerEndDate:    end,
	}
}
