// internal/service/reconciler.go
package service

import (
    "database/sql"
    "errors"
    "fmt"
    "regexp"

    "golang.org/x/crypto/bcrypt"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/audit"
    appErrors "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/errors"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/imagestore"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
)

// Reconciler sequences writes across the Account Store (core2 users)
// and the Profile Store (core1 customers). The two stores cannot share
// a transaction, so a partial-success state is an expected, reported
// outcome rather than something to roll back.
type Reconciler struct {
    AccountRepo repository.AccountRepositoryInterface
    ProfileRepo repository.ProfileRepositoryInterface
    Images      imagestore.Store
    Audit       audit.Recorder
}

var (
    emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
    // PH mobile numbers: +639 or 09 trunk, then nine digits.
    phonePattern = regexp.MustCompile(`^(\+639|09)\d{9}$`)
)

// UpdateRequest is the partial field set accepted by the write path.
type UpdateRequest struct {
    UserID        int
    FirstName     string
    LastName      string
    Email         string
    Phone         string
    AccountStatus string

    PresenceStatus string
    Address        string
    City           string
    State          string
    Zip            string
    Latitude       *float64
    Longitude      *float64

    Password  string // optional; re-hashed when present
    ImageData []byte // optional
    ImageHint string
}

// UpdateResult reports the outcome of the two-step write. FailedStore is
// empty on full success; on failure it names the store that failed while
// the flags say which writes were retained.
type UpdateResult struct {
    UserID         int    `json:"user_id"`
    AccountUpdated bool   `json:"account_updated"`
    ProfileUpdated bool   `json:"profile_updated"`
    ProfileCreated bool   `json:"profile_created"`
    ImageRef       string `json:"image_ref,omitempty"`
    ImageError     string `json:"image_error,omitempty"`
    FailedStore    string `json:"failed_store,omitempty"`
}

// UpdateCustomer runs the write path: validate, conflict probe, optional
// image store call, account update, profile update-or-insert. Each step
// is a precondition for the next; nothing is mutated before validation
// and the duplicate-email probe pass.
func (s *Reconciler) UpdateCustomer(req *UpdateRequest) (*UpdateResult, error) {
    result := &UpdateResult{UserID: req.UserID}

    if err := validateUpdate(req); err != nil {
        return result, err
    }

    account, err := s.AccountRepo.GetByID(req.UserID)
    if err != nil {
        result.FailedStore = appErrors.StoreAccounts
        return result, appErrors.NewStoreFailure(appErrors.StoreAccounts, "lookup", err)
    }
    if account == nil {
        return result, appErrors.ErrCustomerNotFound
    }

    inUse, err := s.AccountRepo.EmailInUseByOther(req.Email, req.UserID)
    if err != nil {
        result.FailedStore = appErrors.StoreAccounts
        return result, appErrors.NewStoreFailure(appErrors.StoreAccounts, "email check", err)
    }
    if inUse {
        return result, appErrors.NewDuplicateEmail(req.Email)
    }

    // Image upload is advisory: failure is recorded, the rest proceeds.
    if len(req.ImageData) > 0 && s.Images != nil {
        ref, imgErr := s.Images.Store(req.ImageData, "customer", req.UserID, req.ImageHint)
        if imgErr != nil {
            result.ImageError = imgErr.Error()
        } else {
            result.ImageRef = ref
        }
    }

    fields := map[string]interface{}{
        "firstname":      req.FirstName,
        "lastname":       req.LastName,
        "email":          req.Email,
        "phone":          req.Phone,
        "account_status": model.NormalizeAccountStatus(req.AccountStatus),
    }
    if result.ImageRef != "" {
        fields["profile_image_ref"] = result.ImageRef
    }
    if req.Password != "" {
        hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
        if hashErr != nil {
            return result, fmt.Errorf("failed to hash credential: %w", hashErr)
        }
        fields["credential_hash"] = string(hash)
    }

    // Password and image land in this one statement with the rest of the
    // account fields; there is no window where one lands without the other.
    if _, err := s.AccountRepo.UpdateFields(req.UserID, fields); err != nil {
        result.FailedStore = appErrors.StoreAccounts
        return result, appErrors.NewStoreFailure(appErrors.StoreAccounts, "update", err)
    }
    result.AccountUpdated = true

    profile, err := s.ProfileRepo.GetByUserID(req.UserID)
    if err != nil {
        result.FailedStore = appErrors.StoreProfiles
        return result, appErrors.NewStoreFailure(appErrors.StoreProfiles, "lookup", err)
    }

    p := &model.Profile{
        UserID:          req.UserID,
        Address:         req.Address,
        City:            req.City,
        State:           req.State,
        Zip:             req.Zip,
        Latitude:        req.Latitude,
        Longitude:       req.Longitude,
        PresenceStatus:  model.NormalizePresenceStatus(req.PresenceStatus),
        ProfileImageRef: result.ImageRef,
    }

    if profile != nil {
        if _, err := s.ProfileRepo.Update(p); err != nil {
            result.FailedStore = appErrors.StoreProfiles
            return result, appErrors.NewStoreFailure(appErrors.StoreProfiles, "update", err)
        }
    } else {
        if err := s.ProfileRepo.Insert(p); err != nil {
            result.FailedStore = appErrors.StoreProfiles
            return result, appErrors.NewStoreFailure(appErrors.StoreProfiles, "insert", err)
        }
        result.ProfileCreated = true
    }
    result.ProfileUpdated = true

    return result, nil
}

func validateUpdate(req *UpdateRequest) error {
    if req.UserID <= 0 {
        return appErrors.ErrInvalidCustomerID
    }
    if req.FirstName == "" || req.LastName == "" {
        return fmt.Errorf("firstname and lastname are required")
    }
    if !emailPattern.MatchString(req.Email) {
        return appErrors.ErrInvalidEmail
    }
    if !phonePattern.MatchString(req.Phone) {
        return appErrors.ErrInvalidPhone
    }
    return nil
}

// StatusTransitionResult reports the narrower status operation.
type StatusTransitionResult struct {
    UserID         int    `json:"user_id"`
    AccountStatus  string `json:"account_status"`
    PresenceStatus string `json:"presence_status"`
}

// SetCustomerStatus applies an account status transition inside an
// Account Store transaction, then separately upserts presence in the
// Profile Store: active maps to online, anything else to offline. A
// prior busy presence is discarded; this operation never writes busy.
// The audit record is best-effort.
func (s *Reconciler) SetCustomerStatus(userID int, status string, actorID int, sourceIP string) (*StatusTransitionResult, error) {
    if userID <= 0 {
        return nil, appErrors.ErrInvalidCustomerID
    }

    status = model.NormalizeAccountStatus(status)

    if err := s.AccountRepo.SetAccountStatus(userID, status); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, appErrors.ErrCustomerNotFound
        }
        return nil, appErrors.NewStoreFailure(appErrors.StoreAccounts, "status update", err)
    }

    presence := model.PresenceOffline
    if status == model.AccountActive {
        presence = model.PresenceOnline
    }

    result := &StatusTransitionResult{
        UserID:         userID,
        AccountStatus:  status,
        PresenceStatus: presence,
    }

    if err := s.ProfileRepo.SetPresence(userID, presence); err != nil {
        return result, appErrors.NewStoreFailure(appErrors.StoreProfiles, "presence update", err)
    }

    if s.Audit != nil {
        desc := fmt.Sprintf("customer %d set to %s", userID, status)
        s.Audit.Record(actorID, "customer_status_update", desc, sourceIP)
    }

    return result, nil
}
