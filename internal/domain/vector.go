package domain

import "math"

// Vec2 - позиция (или смещение) в плоскости уровня.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo возвращает точное расстояние до другой точки.
func (v Vec2) DistanceTo(other Vec2) float64 {
	return math.Sqrt(v.DistanceSquaredTo(other))
}

// DistanceSquaredTo возвращает квадрат расстояния для сравнения без корней.
func (v Vec2) DistanceSquaredTo(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// Shift возвращает новую позицию со смещением, не меняя текущую.
func (v Vec2) Shift(dx, dy float64) Vec2 {
	return Vec2{X: v.X + dx, Y: v.Y + dy}
}
