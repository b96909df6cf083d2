package storage

import (
	"fmt"
	"strings"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

// Store - контракт хранилища записей. Все вызовы синхронные.
//
// Save выдает следующий свободный неотрицательный id (после DeleteAll
// нумерация снова начинается с 0). LoadByID возвращает domain.ErrRecordNotFound,
// если записи нет. DeleteAll идемпотентен.
type Store interface {
	Save(rec domain.ReplayRecord) (int, error)
	LoadByID(id int) (domain.ReplayRecord, error)
	Count() (int, error)
	DeleteAll() error
}

// Виды хранилища для конфигурации
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open создает хранилище по виду и пути (каталог для file, файл БД для sqlite).
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindFile, "":
		return NewFileStore(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
