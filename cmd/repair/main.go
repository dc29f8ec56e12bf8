//cmd/repair/main.go
package main

import (
    "fmt"
    "log"

    "github.com/joho/godotenv"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/db"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/service"
)

// One-shot orphan repair run: inserts a default profile row for every
// customer account lacking one and prints the report.
func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    db.Init()

    repair := &service.RepairService{
        AccountRepo: &repository.AccountRepository{DB: db.Core2},
        ProfileRepo: &repository.ProfileRepository{DB: db.Core1},
    }

    report, err := repair.Run()
    if err != nil {
        log.Fatal("repair failed:", err)
    }

    fmt.Printf("Accounts scanned: %d\n", report.AccountsScanned)
    fmt.Printf("Orphans found:    %d\n", report.OrphansFound)
    fmt.Printf("Rows inserted:    %d\n", report.RowsInserted)
    for _, e := range report.Errors {
        fmt.Println("insert failed:", e)
    }
}
