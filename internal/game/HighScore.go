package game

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// LifeRecord summarises one finished life.
type LifeRecord struct {
	ID         int
	AgentName  string
	Life       int
	Score      int
	TurnsAlive int
	Cause      DeathCause
	CreatedAt  time.Time
}

// LifeRecorder receives every finished life from the engine.
type LifeRecorder interface {
	SaveLife(record LifeRecord) error
}

type HighScoreService struct {
	db *sql.DB
}

const DefaultDBPath = "lives.db"
const tableName = "lives"

func NewHighScoreService(dbPath string) (*HighScoreService, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	// One writer at a time; concurrent games share the service.
	db.SetMaxOpenConns(1)

	service := &HighScoreService{db: db}
	if err := service.createTable(); err != nil {
		db.Close()
		return nil, err
	}

	return service, nil
}

// createTable creates the lives table if it does not exist.
func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		agent_name TEXT NOT NULL,
		life INTEGER NOT NULL,
		score INTEGER NOT NULL,
		turns_alive INTEGER NOT NULL,
		death_cause TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := serviceImpl.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("Lives table ensured.")
	return nil
}

func (serviceImpl *HighScoreService) SaveLife(record LifeRecord) error {
	const insertSQL = `
	INSERT INTO ` + tableName + ` (agent_name, life, score, turns_alive, death_cause)
	VALUES (?, ?, ?, ?, ?);`

	_, err := serviceImpl.db.Exec(insertSQL, record.AgentName, record.Life, record.Score, record.TurnsAlive, string(record.Cause))
	if err != nil {
		return fmt.Errorf("failed to insert life for %s: %w", record.AgentName, err)
	}

	return nil
}

// GetHighScores retrieves a paginated list of lives, best score first.
func (serviceImpl *HighScoreService) GetHighScores(limit, offset int) ([]LifeRecord, error) {
	const selectSQL = `
	SELECT id, agent_name, life, score, turns_alive, death_cause, created_at
	FROM ` + tableName + `
	ORDER BY score DESC, turns_alive DESC, id ASC
	LIMIT ? OFFSET ?;`

	rows, err := serviceImpl.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var records []LifeRecord

	for rows.Next() {
		var record LifeRecord
		var cause string
		var createdAt string
		err := rows.Scan(&record.ID, &record.AgentName, &record.Life, &record.Score, &record.TurnsAlive, &cause, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		record.Cause = DeathCause(cause)

		if parsed, err := parseSQLiteTime(createdAt); err == nil {
			record.CreatedAt = parsed
		} else {
			log.Warn("Time parsing error for life", "id", record.ID, "raw", createdAt, "error", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}

	return records, nil
}

func (serviceImpl *HighScoreService) GetTotalScoreCount() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + tableName + `;`
	var count int
	err := serviceImpl.db.QueryRow(countSQL).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get total score count: %w", err)
	}
	return count, nil
}

func (serviceImpl *HighScoreService) Close() error {
	return serviceImpl.db.Close()
}

// go-sqlite3 hands DATETIME columns back as RFC3339 when it recognises the
// declared type, and as the raw CURRENT_TIMESTAMP text otherwise.
func parseSQLiteTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", raw)
}
