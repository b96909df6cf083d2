package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p MovePayload) Validate() error {
	if p.Horizontal < -1 || p.Horizontal > 1 {
		return errors.New("horizontal must be within [-1, 1]")
	}
	return nil
}

func (p SpeedPayload) Validate() error {
	if p.Speed <= 0 {
		return errors.New("speed must be positive")
	}
	return nil
}

func (p RangePayload) Validate() error {
	if p.Start < 0 || p.End < 0 {
		return errors.New("range bounds cannot be negative")
	}
	if p.End < p.Start {
		return errors.New("range end is before start")
	}
	return nil
}
