// internal/service/repair.go
package service

import (
    "fmt"
    "log"
    "sort"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
)

// RepairService restores the one-profile-per-account invariant by
// inserting default profile rows for orphaned customer accounts. The
// reverse direction (profiles without accounts) is deliberately not
// repaired.
type RepairService struct {
    AccountRepo repository.AccountRepositoryInterface
    ProfileRepo repository.ProfileRepositoryInterface
}

// RepairReport summarises one best-effort repair run.
type RepairReport struct {
    AccountsScanned int      `json:"accounts_scanned"`
    OrphansFound    int      `json:"orphans_found"`
    RowsInserted    int      `json:"rows_inserted"`
    Errors          []string `json:"errors,omitempty"`
}

// Run scans all customer accounts, diffs against existing profile rows
// and inserts an offline default profile per orphan. One failed insert
// does not abort the rest of the batch.
func (s *RepairService) Run() (*RepairReport, error) {
    accounts, err := s.AccountRepo.ListCustomers()
    if err != nil {
        return nil, fmt.Errorf("failed to load accounts: %w", err)
    }

    profiled, err := s.ProfileRepo.ListUserIDs()
    if err != nil {
        return nil, fmt.Errorf("failed to load profile user ids: %w", err)
    }

    report := &RepairReport{AccountsScanned: len(accounts)}

    orphans := []int{}
    for userID := range accounts {
        if !profiled[userID] {
            orphans = append(orphans, userID)
        }
    }
    sort.Ints(orphans)
    report.OrphansFound = len(orphans)

    for _, userID := range orphans {
        if err := s.ProfileRepo.InsertDefault(userID); err != nil {
            msg := fmt.Sprintf("user %d: %v", userID, err)
            log.Println("⚠️ repair insert failed:", msg)
            report.Errors = append(report.Errors, msg)
            continue
        }
        report.RowsInserted++
    }

    return report, nil
}
