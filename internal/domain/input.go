package domain

// InputFrame - состояние управления, снятое в момент виртуального времени записи.
type InputFrame struct {
	Time       float64 `json:"time"`
	Horizontal float64 `json:"horizontal"`
	Jump       bool    `json:"jump"`
	Action     bool    `json:"action"`
}

// NeutralFrame возвращает "пустой" ввод: ось 0, кнопки не нажаты.
func NeutralFrame() InputFrame {
	return InputFrame{}
}

// IsNeutral true, если кадр не несет никакого ввода (время не учитывается).
func (f InputFrame) IsNeutral() bool {
	return f.Horizontal == 0 && !f.Jump && !f.Action
}
