package actions

import (
	"github.com/Shimobouzi/FilmWorker/internal/engine/handlers"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
)

// HandleMove удерживает значение оси до следующего MOVE.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	ctx.Input.SetHorizontal(p.Horizontal)
	return handlers.EmptyResult(), nil
}

// HandleJump защелкивает фронт прыжка на один тик.
func HandleJump(ctx handlers.Context) (handlers.Result, error) {
	ctx.Input.PressJump()
	return handlers.EmptyResult(), nil
}
