// internal/service/proximity.go
package service

import (
    "log"
    "math"
    "sort"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
)

const earthRadiusKm = 6371.0

// ProximityService answers nearby-customer queries from profile
// coordinates, enriched with account contact details and the next
// upcoming booking where those exist.
type ProximityService struct {
    ProfileRepo repository.ProfileRepositoryInterface
    AccountRepo repository.AccountRepositoryInterface
    BookingRepo repository.BookingRepositoryInterface
}

// NearbyCustomer is one proximity result. Name/Phone/Email are empty
// and NextBooking nil when the matching data is missing; missing data
// never fails the query.
type NearbyCustomer struct {
    UserID      int            `json:"user_id"`
    CustomerID  int            `json:"customer_id"`
    DistanceKm  float64        `json:"distance_km"`
    Latitude    float64        `json:"latitude"`
    Longitude   float64        `json:"longitude"`
    Name        string         `json:"name,omitempty"`
    Phone       string         `json:"phone,omitempty"`
    Email       string         `json:"email,omitempty"`
    NextBooking *model.Booking `json:"next_booking,omitempty"`
}

// Nearby returns up to limit customers within radiusKm of the reference
// point, ordered by ascending great-circle distance. A row exactly at
// the radius boundary is included.
func (s *ProximityService) Nearby(lat, lng float64, limit int, radiusKm float64) ([]NearbyCustomer, error) {
    if limit < 1 {
        limit = 10
    }

    profiles, err := s.ProfileRepo.ListWithCoordinates()
    if err != nil {
        return nil, err
    }

    results := []NearbyCustomer{}
    for _, p := range profiles {
        if p.Latitude == nil || p.Longitude == nil {
            continue
        }
        d := DistanceKm(lat, lng, *p.Latitude, *p.Longitude)
        if d > radiusKm {
            continue
        }
        results = append(results, NearbyCustomer{
            UserID:     p.UserID,
            CustomerID: p.CustomerID,
            DistanceKm: d,
            Latitude:   *p.Latitude,
            Longitude:  *p.Longitude,
        })
    }

    sort.Slice(results, func(i, j int) bool {
        return results[i].DistanceKm < results[j].DistanceKm
    })
    if len(results) > limit {
        results = results[:limit]
    }

    for i := range results {
        s.enrich(&results[i])
    }

    return results, nil
}

func (s *ProximityService) enrich(c *NearbyCustomer) {
    if s.AccountRepo != nil {
        account, err := s.AccountRepo.GetByID(c.UserID)
        if err != nil {
            log.Println("⚠️ proximity: account lookup failed for user", c.UserID, ":", err)
        } else if account != nil {
            c.Name = account.FirstName + " " + account.LastName
            c.Phone = account.Phone
            c.Email = account.Email
        }
    }

    if s.BookingRepo != nil {
        booking, err := s.BookingRepo.NextUpcomingForCustomer(c.UserID)
        if err != nil {
            log.Println("⚠️ proximity: booking lookup failed for user", c.UserID, ":", err)
        } else if booking != nil {
            c.NextBooking = booking
        }
    }
}

// DistanceKm computes great-circle distance with the spherical law of
// cosines.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
    rlat1 := lat1 * math.Pi / 180
    rlat2 := lat2 * math.Pi / 180
    dlng := (lng2 - lng1) * math.Pi / 180

    x := math.Sin(rlat1)*math.Sin(rlat2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlng)
    // floating point can push the argument a hair outside acos' domain
    if x > 1 {
        x = 1
    } else if x < -1 {
        x = -1
    }
    return math.Acos(x) * earthRadiusKm
}
