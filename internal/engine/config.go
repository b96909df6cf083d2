package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/systems"
	"github.com/caarlos0/env/v11"
)

// Config хранит параметры запуска движка. Значения по умолчанию заданы тегами envDefault.
type Config struct {
	// TickRate - частота логических тиков в секунду; delta = 1/TickRate
	TickRate int `env:"FW_TICK_RATE" envDefault:"60"`

	// Стартовая поза игрока (и точка спавна призраков)
	StartX float64 `env:"FW_START_X" envDefault:"0"`
	StartY float64 `env:"FW_START_Y" envDefault:"0"`

	// Цель этапа
	GoalX      float64 `env:"FW_GOAL_X" envDefault:"12"`
	GoalY      float64 `env:"FW_GOAL_Y" envDefault:"0"`
	GoalRadius float64 `env:"FW_GOAL_RADIUS" envDefault:"0.5"`

	// StopRadius - радиус поиска призрака для Stop
	StopRadius float64 `env:"FW_STOP_RADIUS" envDefault:"3"`
	// AutoTarget - подсветка следует за ближайшим призраком каждый тик
	AutoTarget bool    `env:"FW_AUTO_TARGET" envDefault:"false"`

	// Параметры редактирования
	EditSpeedMin     float64 `env:"FW_EDIT_SPEED_MIN" envDefault:"0.5"`
	EditSpeedMax     float64 `env:"FW_EDIT_SPEED_MAX" envDefault:"2"`
	DefaultEditSpeed float64 `env:"FW_EDIT_SPEED" envDefault:"1"`
	DefaultEditLoop  bool    `env:"FW_EDIT_LOOP" envDefault:"false"`

	// Кинематика тела
	MoveSpeed float64 `env:"FW_MOVE_SPEED" envDefault:"4"`
	JumpPower float64 `env:"FW_JUMP_POWER" envDefault:"8"`
	Gravity   float64 `env:"FW_GRAVITY" envDefault:"-20"`
	FloorY    float64 `env:"FW_FLOOR_Y" envDefault:"0"`

	// Сеть и хранилище
	Port      string `env:"FW_PORT" envDefault:"8080"`
	StoreKind string `env:"FW_STORE" envDefault:"file"`
	StorePath string `env:"FW_STORE_PATH" envDefault:"replays"`
}

// NewConfig создает конфиг по умолчанию, не читая окружение.
func NewConfig() Config {
	var cfg Config
	// Пустое окружение: применяются только envDefault
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("engine: invalid config defaults: %v", err))
	}
	return cfg
}

// LoadConfig читает конфиг из переменных окружения и валидирует его.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate отклоняет значения, с которыми движок не может работать.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %d", c.TickRate))
	}
	if c.GoalRadius < 0 {
		errs = append(errs, fmt.Errorf("goal radius must not be negative, got %v", c.GoalRadius))
	}
	if c.StopRadius <= 0 {
		errs = append(errs, fmt.Errorf("stop radius must be positive, got %v", c.StopRadius))
	}
	if c.EditSpeedMin <= 0 || c.EditSpeedMax < c.EditSpeedMin {
		errs = append(errs, fmt.Errorf("edit speed bounds [%v, %v] are invalid", c.EditSpeedMin, c.EditSpeedMax))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TickDelta - фиксированный шаг симуляции.
func (c Config) TickDelta() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// DeltaSeconds - тот же шаг в секундах виртуального времени.
func (c Config) DeltaSeconds() float64 {
	return 1 / float64(c.TickRate)
}

func (c Config) StartPos() domain.Vec2 { return domain.Vec2{X: c.StartX, Y: c.StartY} }
func (c Config) GoalPos() domain.Vec2  { return domain.Vec2{X: c.GoalX, Y: c.GoalY} }

func (c Config) Kinematics() systems.Kinematics {
	return systems.Kinematics{
		MoveSpeed: c.MoveSpeed,
		JumpPower: c.JumpPower,
		Gravity:   c.Gravity,
		FloorY:    c.FloorY,
	}
}
