//cmd/seeder/main.go
package main

import (
    "database/sql"
    "fmt"
    "log"
    "os"

    _ "github.com/lib/pq"
)

func main() {
    seed("CORE2_DATABASE_URL", "seed/core2_users.sql")
    seed("CORE1_DATABASE_URL", "seed/core1_customers.sql")

    fmt.Println("Database seeding completed successfully!")
}

func seed(envVar, file string) {
    dsn := os.Getenv(envVar)
    db, err := sql.Open("postgres", dsn)
    if err != nil {
        log.Fatal(err)
    }
    defer db.Close()

    content, err := os.ReadFile(file)
    if err != nil {
        log.Fatalf("failed to read %s: %v", file, err)
    }

    if _, err = db.Exec(string(content)); err != nil {
        log.Fatalf("failed to execute %s: %v", file, err)
    }
    fmt.Printf("Seeded: %s\n", file)
}
