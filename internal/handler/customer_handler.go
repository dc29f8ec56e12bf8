// internal/handler/customer_handler.go
package handler

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/service"
)

// AccountReader is the slice of the Account Store the read endpoints use.
type AccountReader interface {
    GetByID(userID int) (*model.Account, error)
    SearchCustomers(offset, limit int, q string) ([]model.Account, int, error)
}

// CustomerHandler serves the read-only customer endpoints.
type CustomerHandler struct {
    AccountRepo AccountReader
    ProfileRepo repository.ProfileRepositoryInterface
    Proximity   *service.ProximityService
}

// customerView is the merged Account + Profile shape the panel renders.
type customerView struct {
    *model.Account
    Profile *model.Profile `json:"profile,omitempty"`
}

// GetCustomer returns one customer merged from both stores. Legacy
// comma-joined addresses come back already split into components.
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid customer id", http.StatusBadRequest)
        return
    }

    account, err := h.AccountRepo.GetByID(id)
    if err != nil {
        http.Error(w, "failed to fetch customer: "+err.Error(), http.StatusInternalServerError)
        return
    }
    if account == nil {
        w.Header().Set("Content-Type", "application/json")
        w.WriteHeader(http.StatusNotFound)
        _ = json.NewEncoder(w).Encode(map[string]interface{}{
            "success": false,
            "message": "customer not found",
        })
        return
    }

    // profile may legitimately be absent; the view just omits it
    profile, err := h.ProfileRepo.GetByUserID(id)
    if err != nil {
        http.Error(w, "failed to fetch profile: "+err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(customerView{Account: account, Profile: profile})
}

// ListCustomers returns a paginated customer listing with an optional
// name/email filter.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
    page := 1
    pageSize := 20

    if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
        page = p
    }
    if ps, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && ps > 0 {
        pageSize = ps
    }
    if pageSize > 100 {
        pageSize = 100
    }
    q := r.URL.Query().Get("q")

    offset := (page - 1) * pageSize
    accounts, total, err := h.AccountRepo.SearchCustomers(offset, pageSize, q)
    if err != nil {
        http.Error(w, "failed to fetch customers: "+err.Error(), http.StatusInternalServerError)
        return
    }

    totalPages := (total + pageSize - 1) / pageSize
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(map[string]interface{}{
        "data": accounts,
        "pagination": map[string]int{
            "page":        page,
            "page_size":   pageSize,
            "total_count": total,
            "total_pages": totalPages,
        },
    })
}

// NearbyCustomers answers the proximity query.
func (h *CustomerHandler) NearbyCustomers(w http.ResponseWriter, r *http.Request) {
    lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
    lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
    if latErr != nil || lngErr != nil {
        http.Error(w, "lat and lng are required", http.StatusBadRequest)
        return
    }

    limit := 10
    if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
        limit = l
    }
    radiusKm := 5.0
    if rad, err := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64); err == nil && rad > 0 {
        radiusKm = rad
    }

    results, err := h.Proximity.Nearby(lat, lng, limit, radiusKm)
    if err != nil {
        http.Error(w, "failed to run proximity query: "+err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(map[string]interface{}{
        "success": true,
        "count":   len(results),
        "data":    results,
    })
}
