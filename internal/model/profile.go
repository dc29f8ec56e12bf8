// internal/model/profile.go
package model

import (
    "strings"
    "time"
)

type Profile struct {
    CustomerID        int        `db:"customer_id" json:"customer_id"`
    UserID            int        `db:"user_id" json:"user_id"`
    Address           string     `db:"address" json:"address"`
    City              string     `db:"city" json:"city"`
    State             string     `db:"state" json:"state"`
    Zip               string     `db:"zip" json:"zip"`
    Latitude          *float64   `db:"latitude" json:"latitude,omitempty"`
    Longitude         *float64   `db:"longitude" json:"longitude,omitempty"`
    PresenceStatus    string     `db:"presence_status" json:"presence_status"`
    ProfileImageRef   string     `db:"profile_image_ref" json:"profile_image_ref,omitempty"`
    LocationUpdatedAt *time.Time `db:"location_updated_at" json:"location_updated_at,omitempty"`
    CreatedAt         time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Presence states
const (
    PresenceOnline  = "online"
    PresenceBusy    = "busy"
    PresenceOffline = "offline"
)

// NormalizePresenceStatus coerces unrecognized values to offline.
func NormalizePresenceStatus(s string) string {
    switch s {
    case PresenceOnline, PresenceBusy, PresenceOffline:
        return s
    }
    return PresenceOffline
}

// HasLegacyAddress reports whether the row stores the full address as a
// single comma-joined string, a defect in historical data where city,
// state and zip were left empty.
func (p *Profile) HasLegacyAddress() bool {
    return p.Address != "" && p.City == "" && p.State == "" && p.Zip == ""
}

// SplitLegacyAddress heuristically splits a comma-joined legacy address
// in place: first segment becomes address, second city, and a third
// segment is split on its first whitespace run into state and zip.
// Fewer than two segments leaves the row untouched.
func (p *Profile) SplitLegacyAddress() {
    if !p.HasLegacyAddress() {
        return
    }
    parts := strings.Split(p.Address, ",")
    if len(parts) < 2 {
        return
    }
    p.Address = strings.TrimSpace(parts[0])
    p.City = strings.TrimSpace(parts[1])
    if len(parts) >= 3 {
        rest := strings.TrimSpace(parts[2])
        if i := strings.IndexAny(rest, " \t"); i >= 0 {
            p.State = rest[:i]
            p.Zip = strings.TrimLeft(rest[i:], " \t")
        } else {
            p.State = rest
        }
    }
}
