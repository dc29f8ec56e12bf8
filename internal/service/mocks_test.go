package service_test

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
)

// --- Mock Account Store ---

type mockAccountRepo struct {
	accounts    map[int]*model.Account
	updateCalls int
	lookupErr   error
	updateErr   error
	statusErr   error
}

func newMockAccountRepo(accounts ...*model.Account) *mockAccountRepo {
	m := &mockAccountRepo{accounts: map[int]*model.Account{}}
	for _, a := range accounts {
		m.accounts[a.UserID] = a
	}
	return m
}

func (m *mockAccountRepo) GetByID(userID int) (*model.Account, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	a, ok := m.accounts[userID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountRepo) EmailInUseByOther(email string, userID int) (bool, error) {
	for id, a := range m.accounts {
		if id != userID && a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccountRepo) UpdateFields(userID int, fields map[string]interface{}) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	m.updateCalls++
	a, ok := m.accounts[userID]
	if !ok {
		return 0, nil
	}
	for col, v := range fields {
		s, _ := v.(string)
		switch col {
		case "firstname":
			a.FirstName = s
		case "lastname":
			a.LastName = s
		case "email":
			a.Email = s
		case "phone":
			a.Phone = s
		case "account_status":
			a.AccountStatus = s
		case "credential_hash":
			a.CredentialHash = s
		case "profile_image_ref":
			a.ProfileImageRef = s
		}
	}
	return 1, nil
}

func (m *mockAccountRepo) SetAccountStatus(userID int, status string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	a, ok := m.accounts[userID]
	if !ok {
		return sql.ErrNoRows
	}
	a.AccountStatus = status
	return nil
}

func (m *mockAccountRepo) ListCustomers() (map[int]model.Account, error) {
	out := map[int]model.Account{}
	for id, a := range m.accounts {
		out[id] = *a
	}
	return out, nil
}

// --- Mock Profile Store ---

type mockProfileRepo struct {
	profiles    map[int]*model.Profile // keyed by user_id
	nextID      int
	insertCalls int
	updateCalls int
	lookupErr   error
	insertErr   error
	updateErr   error
	presenceErr error
	coordRows   []model.Profile
	failInserts map[int]error // per-user insert failures for repair tests
}

func newMockProfileRepo(profiles ...*model.Profile) *mockProfileRepo {
	m := &mockProfileRepo{profiles: map[int]*model.Profile{}, nextID: 1}
	for _, p := range profiles {
		if p.CustomerID == 0 {
			p.CustomerID = m.nextID
		}
		m.nextID++
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *mockProfileRepo) GetByUserID(userID int) (*model.Profile, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.SplitLegacyAddress()
	return &cp, nil
}

func (m *mockProfileRepo) Update(p *model.Profile) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	m.updateCalls++
	existing, ok := m.profiles[p.UserID]
	if !ok {
		return 0, nil
	}
	existing.Address = p.Address
	existing.City = p.City
	existing.State = p.State
	existing.Zip = p.Zip
	if p.Latitude != nil {
		existing.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		existing.Longitude = p.Longitude
	}
	existing.PresenceStatus = p.PresenceStatus
	if p.ProfileImageRef != "" {
		existing.ProfileImageRef = p.ProfileImageRef
	}
	existing.UpdatedAt = time.Now()
	return 1, nil
}

func (m *mockProfileRepo) Insert(p *model.Profile) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertCalls++
	now := time.Now()
	p.CustomerID = m.nextID
	m.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *mockProfileRepo) SetPresence(userID int, presence string) error {
	if m.presenceErr != nil {
		return m.presenceErr
	}
	if p, ok := m.profiles[userID]; ok {
		p.PresenceStatus = presence
		p.UpdatedAt = time.Now()
		return nil
	}
	return m.insertWithPresence(userID, presence)
}

func (m *mockProfileRepo) ListUserIDs() (map[int]bool, error) {
	ids := map[int]bool{}
	for id := range m.profiles {
		ids[id] = true
	}
	return ids, nil
}

func (m *mockProfileRepo) InsertDefault(userID int) error {
	if err, ok := m.failInserts[userID]; ok {
		return err
	}
	return m.insertWithPresence(userID, model.PresenceOffline)
}

func (m *mockProfileRepo) insertWithPresence(userID int, presence string) error {
	now := time.Now()
	m.profiles[userID] = &model.Profile{
		CustomerID:     m.nextID,
		UserID:         userID,
		PresenceStatus: presence,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.nextID++
	return nil
}

func (m *mockProfileRepo) ListWithCoordinates() ([]model.Profile, error) {
	return m.coordRows, nil
}

// --- Mock Booking Store ---

type mockBookingRepo struct {
	bookings map[int]*model.Booking
}

func (m *mockBookingRepo) NextUpcomingForCustomer(userID int) (*model.Booking, error) {
	b, ok := m.bookings[userID]
	if !ok {
		return nil, nil
	}
	return b, nil
}

// --- Mock collaborators ---

type mockImageStore struct {
	fail   bool
	stored int
}

func (m *mockImageStore) Store(data []byte, kind string, subjectID int, hint string) (string, error) {
	if m.fail {
		return "", fmt.Errorf("image store unavailable")
	}
	m.stored++
	return fmt.Sprintf("%s_%d_test.jpg", kind, subjectID), nil
}

type mockRecorder struct {
	events []string
}

func (m *mockRecorder) Record(actorID int, action, description, sourceIP string) {
	m.events = append(m.events, action)
}
