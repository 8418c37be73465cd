package nower

import "time"

type nowerImpl struct {
	loc *time.Location
}

// New создаёт реализацию на базе системных часов в указанной зоне.
// nil означает UTC.
func New(loc *time.Location) Nower {
	if loc == nil {
		loc = time.UTC
	}
	return &nowerImpl{loc: loc}
}

// Now возвращает текущее время в зоне отчётов.
func (n *nowerImpl) Now() time.Time {
	return time.Now().In(n.loc)
}

// Fixed возвращает Nower, который всегда отдаёт одно и то же время.
func Fixed(t time.Time) Nower {
	return fixedNower(t)
}

type fixedNower time.Time

func (f fixedNower) Now() time.Time {
	return time.Time(f)
}
