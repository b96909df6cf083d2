package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Shimobouzi/FilmWorker/internal/engine"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	rec, err := storage.ReadRecordFile(os.Args[2])
	if err != nil {
		fmt.Printf("Cannot read replay: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		start, end := rec.Window()
		fmt.Printf("frames:  %d\n", len(rec.Frames))
		fmt.Printf("window:  %.3f .. %.3f s\n", start, end)
		fmt.Printf("speed:   %.2f (clamped %.2f)\n", rec.Speed, rec.ClampedSpeed())
		fmt.Printf("loop:    %v\n", rec.Loop)
	case "frames":
		for i, f := range rec.Frames {
			fmt.Printf("%5d  t=%.4f  h=%+.2f  jump=%-5v action=%v\n", i, f.Time, f.Horizontal, f.Jump, f.Action)
		}
	case "trace":
		trace, err := engine.PlaybackTrace(engine.NewConfig(), rec)
		if err != nil {
			fmt.Printf("Trace failed: %v\n", err)
			os.Exit(1)
		}
		for _, s := range trace {
			fmt.Printf("%5d  t=%.4f  h=%+.2f  pos=(%.3f, %.3f)\n", s.Tick, s.Time, s.Input.Horizontal, s.Pos.X, s.Pos.Y)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			fmt.Printf("Encode failed: %v\n", err)
			os.Exit(1)
		}
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Replay Dump - просмотр файлов записей .fwrp
Commands:
  info <file>    - параметры воспроизведения и окно
  frames <file>  - все кадры ввода
  trace <file>   - путь призрака с параметрами по умолчанию
  json <file>    - запись целиком в JSON`)
}
