// Package clock предоставляет источники текущего времени для запросов к платежам.
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// System возвращает текущее системное время в заданной временной зоне.
type System struct {
	Location *time.Location
}

// New создаёт системные часы для временной зоны с указанным именем. Пустое имя означает UTC.
func New(zone string) (*System, error) {
	if zone == "" {
		return &System{Location: time.UTC}, nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", zone, err)
	}
	return &System{Location: loc}, nil
}

// Now возвращает текущее время.
func (s *System) Now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// Fixed всегда возвращает один и тот же момент.
type Fixed struct {
	At time.Time
}

// Now возвращает зафиксированный момент.
func (f Fixed) Now() time.Time {
	return f.At
}
