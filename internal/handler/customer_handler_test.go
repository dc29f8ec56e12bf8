package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/handler"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/service"
)

type mockAccountReader struct {
	accounts map[int]*model.Account
}

func (m *mockAccountReader) GetByID(userID int) (*model.Account, error) {
	a, ok := m.accounts[userID]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (m *mockAccountReader) SearchCustomers(offset, limit int, q string) ([]model.Account, int, error) {
	out := []model.Account{}
	for _, a := range m.accounts {
		out = append(out, *a)
	}
	return out, len(out), nil
}

type mockProfileReader struct {
	profiles map[int]*model.Profile
	coords   []model.Profile
}

func (m *mockProfileReader) GetByUserID(userID int) (*model.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.SplitLegacyAddress()
	return &cp, nil
}

func (m *mockProfileReader) Update(p *model.Profile) (int64, error)    { return 0, nil }
func (m *mockProfileReader) Insert(p *model.Profile) error             { return nil }
func (m *mockProfileReader) SetPresence(id int, presence string) error { return nil }
func (m *mockProfileReader) ListUserIDs() (map[int]bool, error)        { return nil, nil }
func (m *mockProfileReader) InsertDefault(userID int) error            { return nil }
func (m *mockProfileReader) ListWithCoordinates() ([]model.Profile, error) {
	return m.coords, nil
}

func newRouter(accounts *mockAccountReader, profiles *mockProfileReader) *chi.Mux {
	h := &handler.CustomerHandler{
		AccountRepo: accounts,
		ProfileRepo: profiles,
		Proximity: &service.ProximityService{
			ProfileRepo: profiles,
			AccountRepo: nil,
			BookingRepo: nil,
		},
	}

	r := chi.NewRouter()
	r.Get("/customers", h.ListCustomers)
	r.Get("/customers/nearby", h.NearbyCustomers)
	r.Get("/customers/{id}", h.GetCustomer)
	return r
}

func TestGetCustomerMergesStoresAndSplitsLegacyAddress(t *testing.T) {
	accounts := &mockAccountReader{accounts: map[int]*model.Account{
		3: {UserID: 3, FirstName: "Ana", Email: "ana@example.com"},
	}}
	profiles := &mockProfileReader{profiles: map[int]*model.Profile{
		3: {UserID: 3, Address: "789 Pine St, Taguig, Metro Manila 1630"},
	}}

	r := newRouter(accounts, profiles)
	req := httptest.NewRequest("GET", "/customers/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res struct {
		Email   string `json:"email"`
		Profile struct {
			Address string `json:"address"`
			City    string `json:"city"`
			State   string `json:"state"`
			Zip     string `json:"zip"`
		} `json:"profile"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Email != "ana@example.com" {
		t.Errorf("expected account data merged in, got %q", res.Email)
	}
	if res.Profile.Address != "789 Pine St" || res.Profile.City != "Taguig" ||
		res.Profile.State != "Metro" || res.Profile.Zip != "Manila 1630" {
		t.Errorf("legacy address not split on read: %+v", res.Profile)
	}
}

func TestGetCustomerWithoutProfile(t *testing.T) {
	accounts := &mockAccountReader{accounts: map[int]*model.Account{
		1: {UserID: 1, FirstName: "Maria"},
	}}
	r := newRouter(accounts, &mockProfileReader{profiles: map[int]*model.Profile{}})

	req := httptest.NewRequest("GET", "/customers/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("a missing profile must not fail the read, got %d", w.Code)
	}

	var res map[string]interface{}
	_ = json.NewDecoder(w.Body).Decode(&res)
	if _, ok := res["profile"]; ok {
		t.Error("expected profile omitted when absent")
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	r := newRouter(
		&mockAccountReader{accounts: map[int]*model.Account{}},
		&mockProfileReader{profiles: map[int]*model.Profile{}},
	)

	req := httptest.NewRequest("GET", "/customers/9", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestNearbyRequiresCoordinates(t *testing.T) {
	r := newRouter(
		&mockAccountReader{accounts: map[int]*model.Account{}},
		&mockProfileReader{},
	)

	req := httptest.NewRequest("GET", "/customers/nearby?lat=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListCustomersPagination(t *testing.T) {
	accounts := &mockAccountReader{accounts: map[int]*model.Account{
		1: {UserID: 1}, 2: {UserID: 2},
	}}
	r := newRouter(accounts, &mockProfileReader{})

	req := httptest.NewRequest("GET", "/customers?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res struct {
		Data       []model.Account `json:"data"`
		Pagination map[string]int  `json:"pagination"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(res.Data) != 2 || res.Pagination["total_count"] != 2 {
		t.Errorf("unexpected listing: %+v", res)
	}
}
