// Package database provides database helper functions
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
)

// slowQueryThreshold is the duration above which a query is reported on the
// database channel.
const slowQueryThreshold = 100 * time.Millisecond

// TestTursoConnection tests a hosted libsql database connection.
func TestTursoConnection(databaseURL, authToken string) error {
	connStr := fmt.Sprintf("%s?authToken=%s", databaseURL, authToken)

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}
	defer db.Close()

	var result int
	err = db.QueryRow("SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("connection test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("unexpected query result: %d", result)
	}

	return nil
}

// CheckAndLogSlowQuery reports queries that exceed the slow query threshold.
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	if duration > slowQueryThreshold {
		logger.LogSlowQuery(query, duration)
	}
}
