package actions

import (
	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/engine/handlers"
)

// HandleAction: в Idle/Edit начинает новый ход записи,
// во время записи это обычный ввод действия, который попадет в кадр.
func HandleAction(ctx handlers.Context) (handlers.Result, error) {
	phase := ctx.Turn.Phase()
	switch {
	case phase == domain.PhaseCleared:
		return handlers.Result{}, domain.ErrStageCleared
	case phase.AcceptsAction():
		ctx.Triggers.Action = true
	default:
		ctx.Input.PressAction()
	}
	return handlers.EmptyResult(), nil
}

func HandleCut(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Turn.Phase() == domain.PhaseCleared {
		return handlers.Result{}, domain.ErrStageCleared
	}
	ctx.Triggers.Cut = true
	return handlers.EmptyResult(), nil
}

func HandleStop(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Turn.Phase() == domain.PhaseCleared {
		return handlers.Result{}, domain.ErrStageCleared
	}
	ctx.Triggers.Stop = true
	return handlers.EmptyResult(), nil
}

// HandleReset начинает этап заново.
func HandleReset(ctx handlers.Context) (handlers.Result, error) {
	ctx.Input.Release()
	*ctx.Triggers = domain.Triggers{}
	if err := ctx.Turn.StartStage(); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		Msg:     "Этап начат заново.",
		MsgType: "INFO",
	}, nil
}
