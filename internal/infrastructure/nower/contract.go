package nower

import "time"

// Nower предоставляет текущее время для отметок снимков.
// Позволяет фиксировать время в тестах.
type Nower interface {
	Now() time.Time
}
