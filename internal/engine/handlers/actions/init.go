package actions

import "github.com/Shimobouzi/FilmWorker/internal/engine/handlers"

func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     "Добро пожаловать в FilmWorker.",
		MsgType: "INFO",
	}, nil
}
