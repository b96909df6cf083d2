package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

const (
	MagicHeader string = `FWRP` // 4 байта
	Version1    uint32 = 1
)

// Флаги заголовка и кадра
const (
	recordFlagLoop uint8 = 1 << 0

	frameFlagJump   uint8 = 1 << 0
	frameFlagAction uint8 = 1 << 1
)

// RecordFileHeader — точное представление заголовка файла записи.
// binary.Write пишет его целиком: только массивы и числа фиксированного размера.
type RecordFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	StartTime  float64 // 8 байт
	EndTime    float64 // 8 байт
	Speed      float64 // 8 байт
	Flags      uint8   // 1 байт (loop)
	Reserved   [3]byte // 3 байта выравнивания
	FrameCount uint32  // 4 байта
}

// FrameRow — одна строка кадра (17 байт).
type FrameRow struct {
	Time       float64
	Horizontal float64
	Flags      uint8
}

func writeBinary(w io.Writer, rec domain.ReplayRecord) error {
	if uint64(len(rec.Frames)) > math.MaxUint32 {
		return fmt.Errorf("too many frames: %d", len(rec.Frames))
	}

	// 1. Заголовок
	header := RecordFileHeader{
		Version:    Version1,
		StartTime:  rec.StartTime,
		EndTime:    rec.EndTime,
		Speed:      rec.Speed,
		FrameCount: uint32(len(rec.Frames)),
	}
	if rec.Loop {
		header.Flags |= recordFlagLoop
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Кадры одним вызовом
	return writeFrames(w, rec.Frames)
}

func writeFrames(w io.Writer, frames []domain.InputFrame) error {
	rows := make([]FrameRow, len(frames))
	for i, f := range frames {
		rows[i] = FrameRow{Time: f.Time, Horizontal: f.Horizontal}
		if f.Jump {
			rows[i].Flags |= frameFlagJump
		}
		if f.Action {
			rows[i].Flags |= frameFlagAction
		}
	}
	if err := binary.Write(w, binary.LittleEndian, rows); err != nil {
		return fmt.Errorf("failed to write frames: %w", err)
	}
	return nil
}

// EncodeFrames кодирует только кадры (для blob-колонки SQLite).
func EncodeFrames(frames []domain.InputFrame) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(frames) * binary.Size(FrameRow{}))
	if err := writeFrames(&buf, frames); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeRecord кодирует запись целиком в формат файла.
func EncodeRecord(rec domain.ReplayRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBinary(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
