package repository

import (
    "database/sql"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
)

// BookingRepositoryInterface exposes the single read the proximity
// query needs from the booking system.
type BookingRepositoryInterface interface {
    NextUpcomingForCustomer(userID int) (*model.Booking, error)
}

// BookingRepository reads the core1 bookings table.
type BookingRepository struct {
    DB *sql.DB
}

// NextUpcomingForCustomer fetches the nearest future booking still in a
// pending or confirmed state. Returns nil when the customer has none.
func (r *BookingRepository) NextUpcomingForCustomer(userID int) (*model.Booking, error) {
    query := `
        SELECT booking_id, customer_user_id, pickup_address, dropoff_address, status, scheduled_at
        FROM bookings
        WHERE customer_user_id = $1
          AND status IN ('pending', 'confirmed')
          AND scheduled_at >= NOW()
        ORDER BY scheduled_at ASC
        LIMIT 1
    `
    row := r.DB.QueryRow(query, userID)

    var b model.Booking
    if err := row.Scan(&b.BookingID, &b.CustomerUserID, &b.PickupAddress,
        &b.DropoffAddress, &b.Status, &b.ScheduledAt); err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &b, nil
}
