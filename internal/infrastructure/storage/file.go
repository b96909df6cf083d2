package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	recordFilePrefix = "replay"
	recordFileExt    = ".fwrp"
)

// FileStore хранит каждую запись отдельным файлом replay<id>.fwrp в каталоге.
type FileStore struct {
	mu  sync.Mutex
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// RecordPath возвращает путь к файлу записи с данным id.
func (s *FileStore) RecordPath(id int) string {
	return filepath.Join(s.Dir, recordFilePrefix+strconv.Itoa(id)+recordFileExt)
}

func (s *FileStore) Save(rec domain.ReplayRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.ids()
	if err != nil {
		return 0, err
	}
	id := 0
	for _, existing := range ids {
		if existing >= id {
			id = existing + 1
		}
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		return 0, fmt.Errorf("encode replay %d: %w", id, err)
	}

	// Пишем во временный файл и переименовываем, чтобы не оставить половину записи
	path := s.RecordPath(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return 0, fmt.Errorf("write replay %d: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("write replay %d: %w", id, err)
	}

	logger.For("storage").WithFields(logrus.Fields{
		"id":     id,
		"frames": len(rec.Frames),
		"path":   path,
	}).Debug("Replay saved")
	return id, nil
}

func (s *FileStore) LoadByID(id int) (domain.ReplayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := ReadRecordFile(s.RecordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ReplayRecord{}, fmt.Errorf("load replay %d: %w", id, domain.ErrRecordNotFound)
		}
		return domain.ReplayRecord{}, fmt.Errorf("load replay %d: %w", id, err)
	}
	return rec, nil
}

func (s *FileStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.ids()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *FileStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.ids()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := os.Remove(s.RecordPath(id)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete replay %d: %w", id, err)
		}
	}
	return nil
}

// ids сканирует каталог и возвращает id всех файлов записей.
func (s *FileStore) ids() ([]int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read storage dir: %w", err)
	}

	var ids []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, recordFilePrefix) || !strings.HasSuffix(name, recordFileExt) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, recordFilePrefix), recordFileExt)
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
