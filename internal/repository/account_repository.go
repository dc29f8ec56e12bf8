package repository

import (
    "database/sql"
    "database/sql/driver"
    "errors"
    "fmt"
    "sort"
    "strings"

    "github.com/lib/pq"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
)

// AccountRepositoryInterface defines the Account Store operations used
// by the reconciler and repair services.
type AccountRepositoryInterface interface {
    GetByID(userID int) (*model.Account, error)
    EmailInUseByOther(email string, userID int) (bool, error)
    UpdateFields(userID int, fields map[string]interface{}) (int64, error)
    SetAccountStatus(userID int, status string) error
    ListCustomers() (map[int]model.Account, error)
}

// AccountRepository is the Account Store adapter over the core2 users table.
type AccountRepository struct {
    DB *sql.DB
}

// GetByID fetches a customer account by user id
func (r *AccountRepository) GetByID(userID int) (*model.Account, error) {
    query := `
        SELECT user_id, firstname, lastname, email, phone, credential_hash,
               account_status, COALESCE(profile_image_ref, '')
        FROM users
        WHERE user_id = $1 AND role = 'customer'
    `
    row := r.DB.QueryRow(query, userID)

    var a model.Account
    if err := row.Scan(&a.UserID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
        &a.CredentialHash, &a.AccountStatus, &a.ProfileImageRef); err != nil {
        if err == sql.ErrNoRows {
            return nil, nil // not found
        }
        return nil, err
    }
    return &a, nil
}

// EmailInUseByOther reports whether any other user already owns the email.
func (r *AccountRepository) EmailInUseByOther(email string, userID int) (bool, error) {
    query := `SELECT COUNT(*) FROM users WHERE email = $1 AND user_id <> $2`

    var n int
    if err := r.DB.QueryRow(query, email, userID).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

// UpdateFields applies a single UPDATE over the given column -> value
// mapping, scoped to role = customer. Optional columns (credential_hash,
// profile_image_ref) are folded into this one statement by the caller so
// they land atomically with the rest of the account fields. Returns the
// number of affected rows.
func (r *AccountRepository) UpdateFields(userID int, fields map[string]interface{}) (int64, error) {
    if len(fields) == 0 {
        return 0, nil
    }

    cols := make([]string, 0, len(fields))
    for col := range fields {
        cols = append(cols, col)
    }
    sort.Strings(cols)

    sets := make([]string, 0, len(cols))
    args := make([]interface{}, 0, len(cols)+1)
    for i, col := range cols {
        sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
        args = append(args, fields[col])
    }
    args = append(args, userID)

    query := fmt.Sprintf(
        "UPDATE users SET %s WHERE user_id = $%d AND role = 'customer'",
        strings.Join(sets, ", "), len(args),
    )

    res, err := r.DB.Exec(query, args...)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// SetAccountStatus updates account_status inside a transaction: existence
// check, update, commit. A commit that dies on a broken connection is
// retried once on a fresh connection from the pool.
func (r *AccountRepository) SetAccountStatus(userID int, status string) error {
    err := r.setAccountStatusTx(userID, status)
    if err != nil && isConnError(err) {
        return r.setAccountStatusTx(userID, status)
    }
    return err
}

func (r *AccountRepository) setAccountStatusTx(userID int, status string) error {
    tx, err := r.DB.Begin()
    if err != nil {
        return err
    }

    var exists int
    err = tx.QueryRow(
        `SELECT 1 FROM users WHERE user_id = $1 AND role = 'customer'`, userID,
    ).Scan(&exists)
    if err != nil {
        _ = tx.Rollback() // tolerate an already-dead connection
        if err == sql.ErrNoRows {
            return sql.ErrNoRows
        }
        return err
    }

    if _, err = tx.Exec(
        `UPDATE users SET account_status = $1 WHERE user_id = $2 AND role = 'customer'`,
        status, userID,
    ); err != nil {
        _ = tx.Rollback()
        return err
    }

    return tx.Commit()
}

// ListCustomers loads every customer account keyed by user id.
func (r *AccountRepository) ListCustomers() (map[int]model.Account, error) {
    query := `
        SELECT user_id, firstname, lastname, email, phone, account_status
        FROM users
        WHERE role = 'customer'
    `
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    accounts := map[int]model.Account{}
    for rows.Next() {
        var a model.Account
        if err := rows.Scan(&a.UserID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.AccountStatus); err != nil {
            return nil, err
        }
        accounts[a.UserID] = a
    }
    return accounts, rows.Err()
}

// SearchCustomers fetches a page of customer accounts, optionally
// filtered by a name/email substring.
func (r *AccountRepository) SearchCustomers(offset, limit int, q string) ([]model.Account, int, error) {
    where := `role = 'customer'`
    args := []interface{}{}
    if q != "" {
        where += ` AND (firstname ILIKE $1 OR lastname ILIKE $1 OR email ILIKE $1)`
        args = append(args, "%"+q+"%")
    }

    var total int
    countQuery := `SELECT COUNT(*) FROM users WHERE ` + where
    if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    query := fmt.Sprintf(`
        SELECT user_id, firstname, lastname, email, phone, account_status,
               COALESCE(profile_image_ref, '')
        FROM users
        WHERE %s
        ORDER BY user_id
        OFFSET $%d LIMIT $%d
    `, where, len(args)+1, len(args)+2)
    args = append(args, offset, limit)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    accounts := []model.Account{}
    for rows.Next() {
        var a model.Account
        if err := rows.Scan(&a.UserID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
            &a.AccountStatus, &a.ProfileImageRef); err != nil {
            return nil, 0, err
        }
        accounts = append(accounts, a)
    }
    return accounts, total, rows.Err()
}

// isConnError reports whether err looks like a dead connection rather
// than a statement-level failure.
func isConnError(err error) bool {
    if err == nil {
        return false
    }
    if errors.Is(err, driver.ErrBadConn) {
        return true
    }
    var pqErr *pq.Error
    if errors.As(err, &pqErr) {
        // class 57: operator intervention (admin_shutdown, crash_shutdown)
        // class 08: connection exception
        return strings.HasPrefix(string(pqErr.Code), "57") || strings.HasPrefix(string(pqErr.Code), "08")
    }
    msg := err.Error()
    return strings.Contains(msg, "connection refused") ||
        strings.Contains(msg, "connection reset") ||
        strings.Contains(msg, "broken pipe")
}
