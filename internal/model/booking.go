// internal/model/booking.go
package model

import "time"

type Booking struct {
    BookingID      int       `db:"booking_id" json:"booking_id"`
    CustomerUserID int       `db:"customer_user_id" json:"customer_user_id"`
    PickupAddress  string    `db:"pickup_address" json:"pickup_address"`
    DropoffAddress string    `db:"dropoff_address" json:"dropoff_address"`
    Status         string    `db:"status" json:"status"`
    ScheduledAt    time.Time `db:"scheduled_at" json:"scheduled_at"`
}
