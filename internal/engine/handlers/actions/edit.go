package actions

import (
	"fmt"

	"github.com/Shimobouzi/FilmWorker/internal/engine/handlers"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
)

func HandleEditSpeed(ctx handlers.Context, p api.SpeedPayload) (handlers.Result, error) {
	if err := ctx.Turn.SetEditSpeed(p.Speed); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

func HandleEditLoop(ctx handlers.Context, p api.LoopPayload) (handlers.Result, error) {
	if err := ctx.Turn.SetEditLoop(p.Loop); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

// HandleEditRange обрезает отложенную запись. Значения зажимаются автоматом ходов.
func HandleEditRange(ctx handlers.Context, p api.RangePayload) (handlers.Result, error) {
	if err := ctx.Turn.SetEditRange(p.Start, p.End); err != nil {
		return handlers.Result{}, fmt.Errorf("edit range: %w", err)
	}
	return handlers.EmptyResult(), nil
}
