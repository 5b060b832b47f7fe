package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const createTableStmt = "CREATE TABLE IF NOT EXISTS namereg_history (" +
	"id VARCHAR(36) NOT NULL PRIMARY KEY, " +
	"created_ns BIGINT NOT NULL, " +
	"account VARCHAR(42) NOT NULL, " +
	"network_id VARCHAR(32) NOT NULL, " +
	"operation VARCHAR(16) NOT NULL, " +
	"name VARCHAR(64) NOT NULL, " +
	"blocks BIGINT UNSIGNED NOT NULL, " +
	"fee VARCHAR(80) NOT NULL, " +
	"tx_hash VARCHAR(66) NOT NULL, " +
	"outcome VARCHAR(16) NOT NULL, " +
	"error TEXT NOT NULL, " +
	"INDEX (created_ns))"

const insertStmt = "INSERT INTO namereg_history (id, created_ns, account, network_id, operation, name, blocks, fee, tx_hash, outcome, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const selectStmt = "SELECT id, created_ns, account, network_id, operation, name, blocks, fee, tx_hash, outcome, error FROM namereg_history ORDER BY created_ns DESC LIMIT ?"

// maxListLimit stands in for "no limit", MySQL requires a LIMIT value.
const maxListLimit = 1 << 30

type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects to the database given by the DSN and creates the
// history table if needed.
func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	// See "Important settings" section.
	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	m := NewMySQL(db)
	if err := m.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

func (m *MySQL) Init() error {
	if _, err := m.db.Exec(createTableStmt); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

func (m *MySQL) Add(e *Entry) error {
	_, err := m.db.Exec(insertStmt, e.ID, e.Time.UnixNano(), e.Account, e.NetworkID, e.Operation,
		e.Name, e.Blocks, e.Fee, e.TxHash, string(e.Outcome), e.Error)
	if err != nil {
		return fmt.Errorf("error executing insert statement: %w", err)
	}
	return nil
}

func (m *MySQL) List(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = maxListLimit
	}
	rows, err := m.db.Query(selectStmt, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing select statement: %w", err)
	}
	defer rows.Close()

	var res []*Entry
	for rows.Next() {
		var (
			e       Entry
			ns      int64
			outcome string
		)
		err := rows.Scan(&e.ID, &ns, &e.Account, &e.NetworkID, &e.Operation, &e.Name,
			&e.Blocks, &e.Fee, &e.TxHash, &outcome, &e.Error)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Time = time.Unix(0, ns).UTC()
		e.Outcome = Outcome(outcome)
		res = append(res, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}
