package repository

import (
    "database/sql"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
)

// ProfileRepositoryInterface defines the Profile Store operations used
// by the reconciler, repair and proximity services.
type ProfileRepositoryInterface interface {
    GetByUserID(userID int) (*model.Profile, error)
    Update(p *model.Profile) (int64, error)
    Insert(p *model.Profile) error
    SetPresence(userID int, presence string) error
    ListUserIDs() (map[int]bool, error)
    InsertDefault(userID int) error
    ListWithCoordinates() ([]model.Profile, error)
}

// ProfileRepository is the Profile Store adapter over the core1
// customers table. No row is guaranteed to exist for a given account.
type ProfileRepository struct {
    DB *sql.DB
}

// GetByUserID fetches the profile for a user id, normalising legacy
// comma-joined addresses on the way out. Returns nil when absent.
func (r *ProfileRepository) GetByUserID(userID int) (*model.Profile, error) {
    query := `
        SELECT customer_id, user_id, COALESCE(address, ''), COALESCE(city, ''),
               COALESCE(state, ''), COALESCE(zip, ''), latitude, longitude,
               presence_status, COALESCE(profile_image_ref, ''),
               location_updated_at, created_at, updated_at
        FROM customers
        WHERE user_id = $1
    `
    row := r.DB.QueryRow(query, userID)

    var p model.Profile
    if err := row.Scan(&p.CustomerID, &p.UserID, &p.Address, &p.City, &p.State,
        &p.Zip, &p.Latitude, &p.Longitude, &p.PresenceStatus, &p.ProfileImageRef,
        &p.LocationUpdatedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
        if err == sql.ErrNoRows {
            return nil, nil // not found
        }
        return nil, err
    }

    p.SplitLegacyAddress()
    return &p, nil
}

// Update rewrites the address/location/presence fields of an existing
// row and bumps updated_at. The asymmetry is deliberate: the panel form
// always submits the text fields, so address/city/state/zip overwrite
// unconditionally, while coordinates and the image ref are optional and
// keep their stored values when absent. Returns affected rows.
func (r *ProfileRepository) Update(p *model.Profile) (int64, error) {
    query := `
        UPDATE customers
        SET address = $1, city = $2, state = $3, zip = $4,
            latitude = COALESCE($5, latitude),
            longitude = COALESCE($6, longitude),
            location_updated_at = CASE WHEN $5 IS NOT NULL THEN NOW() ELSE location_updated_at END,
            presence_status = $7,
            profile_image_ref = COALESCE(NULLIF($8, ''), profile_image_ref),
            updated_at = NOW()
        WHERE user_id = $9
    `
    res, err := r.DB.Exec(query, p.Address, p.City, p.State, p.Zip,
        p.Latitude, p.Longitude, p.PresenceStatus, p.ProfileImageRef, p.UserID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// Insert creates the profile row with created_at == updated_at.
func (r *ProfileRepository) Insert(p *model.Profile) error {
    query := `
        INSERT INTO customers (
            user_id, address, city, state, zip, latitude, longitude,
            presence_status, profile_image_ref, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NOW(), NOW())
        RETURNING customer_id, created_at, updated_at
    `
    return r.DB.QueryRow(query, p.UserID, p.Address, p.City, p.State, p.Zip,
        p.Latitude, p.Longitude, p.PresenceStatus, p.ProfileImageRef,
    ).Scan(&p.CustomerID, &p.CreatedAt, &p.UpdatedAt)
}

// SetPresence upserts only the presence_status for a user.
func (r *ProfileRepository) SetPresence(userID int, presence string) error {
    res, err := r.DB.Exec(
        `UPDATE customers SET presence_status = $1, updated_at = NOW() WHERE user_id = $2`,
        presence, userID,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return r.InsertDefaultWithPresence(userID, presence)
    }
    return nil
}

// ListUserIDs loads the set of user ids that already have a profile row.
func (r *ProfileRepository) ListUserIDs() (map[int]bool, error) {
    rows, err := r.DB.Query(`SELECT user_id FROM customers`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    ids := map[int]bool{}
    for rows.Next() {
        var id int
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids[id] = true
    }
    return ids, rows.Err()
}

// InsertDefault creates the placeholder row the repair pass writes for
// an orphaned account.
func (r *ProfileRepository) InsertDefault(userID int) error {
    return r.InsertDefaultWithPresence(userID, model.PresenceOffline)
}

func (r *ProfileRepository) InsertDefaultWithPresence(userID int, presence string) error {
    _, err := r.DB.Exec(`
        INSERT INTO customers (user_id, address, city, state, zip, presence_status, created_at, updated_at)
        VALUES ($1, '', '', '', '', $2, NOW(), NOW())
    `, userID, presence)
    return err
}

// ListWithCoordinates fetches every profile with usable coordinates for
// the proximity query. Null or zero coordinates are filtered here so the
// distance pass never sees them.
func (r *ProfileRepository) ListWithCoordinates() ([]model.Profile, error) {
    query := `
        SELECT customer_id, user_id, COALESCE(address, ''), COALESCE(city, ''),
               COALESCE(state, ''), COALESCE(zip, ''), latitude, longitude,
               presence_status, created_at, updated_at
        FROM customers
        WHERE latitude IS NOT NULL AND longitude IS NOT NULL
          AND (latitude <> 0 OR longitude <> 0)
    `
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    profiles := []model.Profile{}
    for rows.Next() {
        var p model.Profile
        if err := rows.Scan(&p.CustomerID, &p.UserID, &p.Address, &p.City, &p.State,
            &p.Zip, &p.Latitude, &p.Longitude, &p.PresenceStatus, &p.CreatedAt, &p.UpdatedAt); err != nil {
            return nil, err
        }
        profiles = append(profiles, p)
    }
    return profiles, rows.Err()
}
