package actions

import (
	"fmt"

	"github.com/Shimobouzi/FilmWorker/internal/engine/handlers"
)

// HandleSpawnLatest запускает последнюю сохраненную запись как призрака на старте.
func HandleSpawnLatest(ctx handlers.Context) (handlers.Result, error) {
	pos := ctx.StartPos
	g, err := ctx.Ghosts.SpawnLatest(&pos)
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Призрак #%d запущен.", g.SpawnIndex()),
		MsgType: "INFO",
	}, nil
}
