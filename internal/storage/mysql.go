package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hookmock/internal/constants"
	"hookmock/internal/models"

	_ "github.com/go-sql-driver/mysql"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func NewDB(config Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
		config.User,
		config.Password,
		config.Host,
		config.Port,
		config.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	return db, nil
}

// MySQLStore persists records in a single log_records table with
// JSON-serialized headers, query params and body. Every query is
// parameterized; the schema is created idempotently on construction.
type MySQLStore struct {
	db         *sql.DB
	maxRecords int
}

func NewMySQLStore(db *sql.DB, maxRecords int) (*MySQLStore, error) {
	if maxRecords < 1 {
		maxRecords = constants.DefaultMaxRecords
	}
	s := &MySQLStore{db: db, maxRecords: maxRecords}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS log_records (
			id VARCHAR(64) PRIMARY KEY,
			timestamp DATETIME(3) NOT NULL,
			method VARCHAR(10) NOT NULL,
			path VARCHAR(512) NOT NULL,
			url TEXT NOT NULL,
			status_code INT NOT NULL,
			timeout_seconds INT NOT NULL DEFAULT 0,
			start_time DATETIME(3) NULL,
			end_time DATETIME(3) NULL,
			headers TEXT NOT NULL,
			query_params TEXT NOT NULL,
			body LONGTEXT NULL,
			webhook_id VARCHAR(64) NOT NULL DEFAULT '',
			INDEX idx_log_records_timestamp (timestamp),
			INDEX idx_log_records_method (method),
			INDEX idx_log_records_status (status_code),
			INDEX idx_log_records_path (path(255)),
			INDEX idx_log_records_webhook (webhook_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating schema: %v", err)
		}
	}
	return nil
}

func (s *MySQLStore) Add(record models.LogRecord) error {
	headers, err := json.Marshal(record.Headers)
	if err != nil {
		return fmt.Errorf("error encoding headers: %v", err)
	}
	query, err := json.Marshal(record.QueryParams)
	if err != nil {
		return fmt.Errorf("error encoding query params: %v", err)
	}
	var body sql.NullString
	if record.Body != nil {
		encoded, err := json.Marshal(record.Body)
		if err != nil {
			return fmt.Errorf("error encoding body: %v", err)
		}
		body = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err = s.db.Exec(`
        INSERT INTO log_records (
            id, timestamp, method, path, url, status_code, timeout_seconds,
            start_time, end_time, headers, query_params, body, webhook_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp,
		record.Method,
		record.Path,
		record.URL,
		record.StatusCode,
		record.TimeoutSeconds,
		record.StartTime,
		record.EndTime,
		string(headers),
		string(query),
		body,
		record.WebhookID,
	)
	if err != nil {
		return fmt.Errorf("error inserting log record: %v", err)
	}

	// Keep only the N most-recent rows by timestamp.
	_, err = s.db.Exec(`
        DELETE FROM log_records
        WHERE id NOT IN (
            SELECT id FROM (
                SELECT id FROM log_records
                ORDER BY timestamp DESC, id DESC
                LIMIT ?
            ) keep
        )`, s.maxRecords)
	if err != nil {
		return fmt.Errorf("error trimming log records: %v", err)
	}
	return nil
}

func (s *MySQLStore) List(webhookID string) ([]models.LogRecord, error) {
	rows, err := s.db.Query(`
        SELECT id, timestamp, method, path, url, status_code, timeout_seconds,
               start_time, end_time, headers, query_params, body, webhook_id
        FROM log_records
        WHERE (? = '' OR webhook_id = ?)
        ORDER BY timestamp DESC, id DESC`, webhookID, webhookID)
	if err != nil {
		return nil, fmt.Errorf("error listing log records: %v", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *MySQLStore) ListPaged(page, pageSize int, webhookID string) (models.PagedLogs, error) {
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}

	var total int
	err := s.db.QueryRow(`
        SELECT COUNT(*) FROM log_records
        WHERE (? = '' OR webhook_id = ?)`, webhookID, webhookID).Scan(&total)
	if err != nil {
		return models.PagedLogs{}, fmt.Errorf("error counting log records: %v", err)
	}

	pages := totalPages(total, pageSize)
	page = clampPage(page, pages)
	offset := (page - 1) * pageSize

	rows, err := s.db.Query(`
        SELECT id, timestamp, method, path, url, status_code, timeout_seconds,
               start_time, end_time, headers, query_params, body, webhook_id
        FROM log_records
        WHERE (? = '' OR webhook_id = ?)
        ORDER BY timestamp DESC, id DESC
        LIMIT ? OFFSET ?`, webhookID, webhookID, pageSize, offset)
	if err != nil {
		return models.PagedLogs{}, fmt.Errorf("error listing log records: %v", err)
	}
	defer rows.Close()

	logs, err := scanRecords(rows)
	if err != nil {
		return models.PagedLogs{}, err
	}

	return models.PagedLogs{
		Logs:       logs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		HasMore:    page < pages,
	}, nil
}

func (s *MySQLStore) GetByID(id string) (models.LogRecord, error) {
	row := s.db.QueryRow(`
        SELECT id, timestamp, method, path, url, status_code, timeout_seconds,
               start_time, end_time, headers, query_params, body, webhook_id
        FROM log_records
        WHERE id = ?`, id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return models.LogRecord{}, ErrNotFound
	} else if err != nil {
		return models.LogRecord{}, fmt.Errorf("error fetching log record: %v", err)
	}
	return record, nil
}

func (s *MySQLStore) DeleteByID(id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM log_records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting log record: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error verifying deletion: %v", err)
	}
	return affected > 0, nil
}

func (s *MySQLStore) Clear(webhookID string) error {
	_, err := s.db.Exec(`
        DELETE FROM log_records
        WHERE (? = '' OR webhook_id = ?)`, webhookID, webhookID)
	if err != nil {
		return fmt.Errorf("error clearing log records: %v", err)
	}
	return nil
}

func (s *MySQLStore) Stats(webhookID string) (models.Stats, error) {
	stats := models.Stats{
		ByMethod: make(map[string]int),
		ByStatus: make(map[string]int),
		ByPath:   make(map[string]int),
	}

	err := s.db.QueryRow(`
        SELECT COUNT(*) FROM log_records
        WHERE (? = '' OR webhook_id = ?)`, webhookID, webhookID).Scan(&stats.Total)
	if err != nil {
		return models.Stats{}, fmt.Errorf("error counting log records: %v", err)
	}

	rows, err := s.db.Query(`
        SELECT method, COUNT(*) FROM log_records
        WHERE (? = '' OR webhook_id = ?)
        GROUP BY method`, webhookID, webhookID)
	if err != nil {
		return models.Stats{}, fmt.Errorf("error aggregating methods: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var method string
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			continue
		}
		stats.ByMethod[method] = count
	}

	statusRows, err := s.db.Query(`
        SELECT FLOOR(status_code / 100), COUNT(*) FROM log_records
        WHERE (? = '' OR webhook_id = ?)
        GROUP BY FLOOR(status_code / 100)`, webhookID, webhookID)
	if err != nil {
		return models.Stats{}, fmt.Errorf("error aggregating statuses: %v", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var group, count int
		if err := statusRows.Scan(&group, &count); err != nil {
			continue
		}
		stats.ByStatus[fmt.Sprintf("%dxx", group)] = count
	}

	pathRows, err := s.db.Query(`
        SELECT path, COUNT(*) FROM log_records
        WHERE (? = '' OR webhook_id = ?)
        GROUP BY path
        ORDER BY MIN(timestamp) ASC, path ASC`, webhookID, webhookID)
	if err != nil {
		return models.Stats{}, fmt.Errorf("error aggregating paths: %v", err)
	}
	defer pathRows.Close()
	for pathRows.Next() {
		var path string
		var count int
		if err := pathRows.Scan(&path, &count); err != nil {
			continue
		}
		stats.ByPath[path] = count
		stats.PathOrder = append(stats.PathOrder, path)
	}

	now := time.Now()
	windows := []struct {
		cutoff time.Time
		target *int
	}{
		{now.Add(-24 * time.Hour), &stats.Last24h},
		{now.Add(-time.Hour), &stats.LastHour},
		{now.Add(-time.Minute), &stats.LastMinute},
	}
	for _, w := range windows {
		err := s.db.QueryRow(`
            SELECT COUNT(*) FROM log_records
            WHERE (? = '' OR webhook_id = ?) AND timestamp >= ?`,
			webhookID, webhookID, w.cutoff).Scan(w.target)
		if err != nil {
			return models.Stats{}, fmt.Errorf("error aggregating time windows: %v", err)
		}
	}

	return stats, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.LogRecord, error) {
	var record models.LogRecord
	var headers, query string
	var body sql.NullString
	var startTime, endTime sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.Timestamp,
		&record.Method,
		&record.Path,
		&record.URL,
		&record.StatusCode,
		&record.TimeoutSeconds,
		&startTime,
		&endTime,
		&headers,
		&query,
		&body,
		&record.WebhookID,
	)
	if err != nil {
		return models.LogRecord{}, err
	}

	record.Headers = map[string]string{}
	record.QueryParams = map[string]string{}
	_ = json.Unmarshal([]byte(headers), &record.Headers)
	_ = json.Unmarshal([]byte(query), &record.QueryParams)
	if body.Valid {
		var decoded interface{}
		if err := json.Unmarshal([]byte(body.String), &decoded); err == nil {
			record.Body = decoded
		} else {
			record.Body = body.String
		}
	}
	if startTime.Valid {
		t := startTime.Time
		record.StartTime = &t
	}
	if endTime.Valid {
		t := endTime.Time
		record.EndTime = &t
	}
	return record, nil
}

func scanRecords(rows *sql.Rows) ([]models.LogRecord, error) {
	var records []models.LogRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading log records: %v", err)
	}
	return records, nil
}
