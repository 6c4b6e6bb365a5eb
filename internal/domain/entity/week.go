package entity

import (
	"fmt"
	"time"
)

// WeekLayout formato de fecha usado para identificar semanas (inicio de la ventana).
const WeekLayout = "2006-01-02"

// Week ventana de planeación de 7 días [Start, End] en UTC, End = Start + 6 días.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf devuelve la semana que contiene t, comenzando en el día startDay.
func WeekOf(t time.Time, startDay time.Weekday) Week {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) - int(startDay) + 7) % 7
	start := d.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// ParseWeek interpreta "YYYY-MM-DD" y devuelve la semana que la contiene.
func ParseWeek(s string, startDay time.Weekday) (Week, error) {
	t, err := time.Parse(WeekLayout, s)
	if err != nil {
		return Week{}, fmt.Errorf("semana inválida %q: %w", s, err)
	}
	return WeekOf(t, startDay), nil
}

// Key identificador estable de la semana.
func (w Week) Key() string {
	return w.Start.Format(WeekLayout)
}

// Contains indica si t cae dentro de la ventana (por fecha).
func (w Week) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Week) String() string {
	return w.Start.Format(WeekLayout) + "/" + w.End.Format(WeekLayout)
}
