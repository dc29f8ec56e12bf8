// internal/db/db.go
package db

import (
    "database/sql"
    "fmt"
    _ "github.com/lib/pq"
    "log"
    "os"
)

// Core1 holds customer profiles and bookings; Core2 holds user accounts
// and audit trails. The two databases are physically separate and never
// share a transaction.
var (
    Core1 *sql.DB
    Core2 *sql.DB
)

func Init() {
    Core1 = open("CORE1")
    Core2 = open("CORE2")
    log.Println("✅ Connected to core1 and core2 databases")
}

func open(prefix string) *sql.DB {
    user := os.Getenv(prefix + "_DB_USER")
    pass := os.Getenv(prefix + "_DB_PASSWORD")
    host := os.Getenv(prefix + "_DB_HOST")
    port := os.Getenv(prefix + "_DB_PORT")
    name := os.Getenv(prefix + "_DB_NAME")

    log.Printf("%s DB: %s@%s/%s", prefix, user, host, name)

    dsn := fmt.Sprintf(
        "postgres://%s:%s@%s:%s/%s?sslmode=disable",
        user, pass, host, port, name,
    )

    conn, err := sql.Open("postgres", dsn)
    if err != nil {
        log.Fatalf("failed to connect to %s DB: %v", prefix, err)
    }

    if err = conn.Ping(); err != nil {
        log.Fatalf("failed to ping %s DB: %v", prefix, err)
    }

    return conn
}
