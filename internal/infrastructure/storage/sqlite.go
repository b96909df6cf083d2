package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteStore хранит записи в таблице replays; кадры лежат blob-ом.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite открывает базу и применяет встроенные миграции.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Одно соединение: для :memory: каждое соединение видит свою базу
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close закрывает соединение с базой.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Save(rec domain.ReplayRecord) (int, error) {
	blob, err := EncodeFrames(rec.Frames)
	if err != nil {
		return 0, fmt.Errorf("encode frames: %w", err)
	}

	loop := 0
	if rec.Loop {
		loop = 1
	}

	var id int
	err = s.sqlDB.QueryRow(
		`INSERT INTO replays (id, start_time, end_time, speed, loop_enabled, frame_count, frames, created_at)
		 VALUES ((SELECT COALESCE(MAX(id), -1) + 1 FROM replays), ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		rec.StartTime,
		rec.EndTime,
		rec.Speed,
		loop,
		len(rec.Frames),
		blob,
		time.Now().UTC().UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert replay: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) LoadByID(id int) (domain.ReplayRecord, error) {
	var (
		rec  domain.ReplayRecord
		loop int
		blob []byte
	)
	err := s.sqlDB.QueryRow(
		`SELECT start_time, end_time, speed, loop_enabled, frames FROM replays WHERE id = ?`,
		id,
	).Scan(&rec.StartTime, &rec.EndTime, &rec.Speed, &loop, &blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReplayRecord{}, fmt.Errorf("load replay %d: %w", id, domain.ErrRecordNotFound)
		}
		return domain.ReplayRecord{}, fmt.Errorf("load replay %d: %w", id, err)
	}

	frames, err := DecodeFrames(blob)
	if err != nil {
		return domain.ReplayRecord{}, fmt.Errorf("decode replay %d: %w", id, err)
	}
	rec.Frames = frames
	rec.Loop = loop != 0
	return rec, nil
}

func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.sqlDB.QueryRow(`SELECT COUNT(1) FROM replays`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count replays: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) DeleteAll() error {
	if _, err := s.sqlDB.Exec(`DELETE FROM replays`); err != nil {
		return fmt.Errorf("delete replays: %w", err)
	}
	return nil
}
