package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

// ReadRecordFile читает запись из файла формата FWRP.
func ReadRecordFile(path string) (domain.ReplayRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ReplayRecord{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.ReplayRecord{}, err
	}
	return readBinary(f, info.Size())
}

// readBinary читает запись из r; size - полный размер данных в байтах.
func readBinary(r io.Reader, size int64) (domain.ReplayRecord, error) {
	// 1. Заголовок целиком
	var header RecordFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return domain.ReplayRecord{}, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return domain.ReplayRecord{}, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return domain.ReplayRecord{}, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	// 2. Кадры: FrameCount из заголовка не должен выходить за размер данных
	rowSize := int64(binary.Size(FrameRow{}))
	remaining := size - int64(binary.Size(header))
	if int64(header.FrameCount) > remaining/rowSize {
		return domain.ReplayRecord{}, fmt.Errorf("frame count %d exceeds data size (%d bytes after header)", header.FrameCount, remaining)
	}
	frames, err := readFrames(r, int(header.FrameCount))
	if err != nil {
		return domain.ReplayRecord{}, err
	}

	return domain.ReplayRecord{
		Frames:    frames,
		StartTime: header.StartTime,
		EndTime:   header.EndTime,
		Speed:     header.Speed,
		Loop:      header.Flags&recordFlagLoop != 0,
	}, nil
}

func readFrames(r io.Reader, count int) ([]domain.InputFrame, error) {
	rows := make([]FrameRow, count)
	if err := binary.Read(r, binary.LittleEndian, rows); err != nil {
		return nil, fmt.Errorf("failed to read frames: %w", err)
	}

	frames := make([]domain.InputFrame, count)
	for i, row := range rows {
		frames[i] = domain.InputFrame{
			Time:       row.Time,
			Horizontal: row.Horizontal,
			Jump:       row.Flags&frameFlagJump != 0,
			Action:     row.Flags&frameFlagAction != 0,
		}
	}
	return frames, nil
}

// DecodeFrames разбирает blob кадров, записанный EncodeFrames.
func DecodeFrames(blob []byte) ([]domain.InputFrame, error) {
	rowSize := binary.Size(FrameRow{})
	if len(blob)%rowSize != 0 {
		return nil, fmt.Errorf("frame blob length %d is not a multiple of %d", len(blob), rowSize)
	}
	return readFrames(bytes.NewReader(blob), len(blob)/rowSize)
}

// DecodeRecord разбирает запись, закодированную EncodeRecord.
func DecodeRecord(data []byte) (domain.ReplayRecord, error) {
	return readBinary(bytes.NewReader(data), int64(len(data)))
}
