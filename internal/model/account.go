// internal/model/account.go
package model

type Account struct {
    UserID          int    `db:"user_id" json:"user_id"`
    FirstName       string `db:"firstname" json:"firstname"`
    LastName        string `db:"lastname" json:"lastname"`
    Email           string `db:"email" json:"email"`
    Phone           string `db:"phone" json:"phone"`
    CredentialHash  string `db:"credential_hash" json:"-"`
    AccountStatus   string `db:"account_status" json:"account_status"`
    ProfileImageRef string `db:"profile_image_ref" json:"profile_image_ref,omitempty"`
}

// Account lifecycle states
const (
    AccountActive    = "active"
    AccountInactive  = "inactive"
    AccountSuspended = "suspended"
)

// NormalizeAccountStatus coerces unrecognized values to active.
// Silent-correct policy: bad enum input is defaulted, never rejected.
func NormalizeAccountStatus(s string) string {
    switch s {
    case AccountActive, AccountInactive, AccountSuspended:
        return s
    }
    return AccountActive
}
