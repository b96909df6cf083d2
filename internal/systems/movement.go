package systems

import (
	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/input"
)

// Kinematics - константы движения для тела. Одинаковы для игрока и призраков,
// чтобы один и тот же ввод давал одну и ту же траекторию.
type Kinematics struct {
	MoveSpeed float64 // единиц в секунду при |horizontal| = 1
	JumpPower float64 // начальная вертикальная скорость прыжка
	Gravity   float64 // ускорение по Y (отрицательное - вниз)
	FloorY    float64 // уровень пола
}

// DefaultKinematics - значения из оригинального контроллера.
func DefaultKinematics() Kinematics {
	return Kinematics{
		MoveSpeed: 4,
		JumpPower: 8,
		Gravity:   -20,
		FloorY:    0,
	}
}

// Body - кинематическое тело, которое двигается по сигналу input.Source.
// Коллизий нет (физика - внешний компонент), только пол.
type Body struct {
	Kin      Kinematics
	Pos      domain.Vec2
	Velocity domain.Vec2
	enabled  bool
}

// NewBody создает включенное тело в позиции pos.
func NewBody(kin Kinematics, pos domain.Vec2) *Body {
	return &Body{Kin: kin, Pos: pos, enabled: true}
}

// MovementResult - результат одного шага
type MovementResult struct {
	Moved    bool
	Jumped   bool
	Grounded bool
}

// Step продвигает тело на dt по текущему вводу. Выключенное тело стоит.
func (b *Body) Step(src input.Source, dt float64) MovementResult {
	var res MovementResult
	if !b.enabled || src == nil {
		return res
	}

	// 1. Горизонталь
	if h := src.GetHorizontal(); h != 0 {
		b.Pos.X += h * b.Kin.MoveSpeed * dt
		res.Moved = true
	}

	// 2. Вертикаль: прыжок только с пола
	grounded := b.Pos.Y <= b.Kin.FloorY
	if grounded && b.Velocity.Y < 0 {
		b.Velocity.Y = 0
	}
	if grounded && src.GetJumpDown() {
		b.Velocity.Y = b.Kin.JumpPower
		res.Jumped = true
	}

	b.Velocity.Y += b.Kin.Gravity * dt
	b.Pos.Y += b.Velocity.Y * dt

	// 3. Пол
	if b.Pos.Y <= b.Kin.FloorY {
		b.Pos.Y = b.Kin.FloorY
		if b.Velocity.Y < 0 {
			b.Velocity.Y = 0
		}
		res.Grounded = true
	}
	if b.Pos.Y != b.Kin.FloorY || res.Jumped {
		res.Moved = true
	}
	return res
}

// Position реализует handle управляемого агента.
func (b *Body) Position() domain.Vec2 { return b.Pos }

// SetPose ставит тело в позицию (скорость не трогает, см. ResetMotion).
func (b *Body) SetPose(pos domain.Vec2) { b.Pos = pos }

// ResetMotion обнуляет скорость.
func (b *Body) ResetMotion() { b.Velocity = domain.Vec2{} }

func (b *Body) SetEnabled(enabled bool) { b.enabled = enabled }
func (b *Body) Enabled() bool           { return b.enabled }
