package weekly

import (
	"fmt"
	"time"
)

// Ключ недели имеет формат "YYYY-Www" по ISO-8601: недели начинаются с понедельника,
// первая неделя года — та, что содержит первый четверг года.

// WeekKey возвращает ключ ISO-недели для момента времени.
// Момент приводится к UTC перед вычислением, чтобы результат не зависел
// от локали процесса.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ParseWeekKey разбирает ключ недели "YYYY-Www" и возвращает год и номер недели
func ParseWeekKey(key string) (year int, week int, err error) {
	if _, err := fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("invalid week key %q: %w", key, err)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week key %q: week out of range", key)
	}
	return year, week, nil
}

// MondayOf возвращает полночь UTC понедельника недели с данным ключом.
// 4 января всегда принадлежит первой ISO-неделе года, от него и отсчитываем.
func MondayOf(key string) (time.Time, error) {
	year, week, err := ParseWeekKey(key)
	if err != nil {
		return time.Time{}, err
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // воскресенье, ISO считает его седьмым днем
	}
	firstMonday := jan4.AddDate(0, 0, 1-weekday)
	return firstMonday.AddDate(0, 0, (week-1)*7), nil
}

// PreviousWeekKey возвращает ключ недели, предшествующей неделе момента t
func PreviousWeekKey(t time.Time) string {
	return WeekKey(t.UTC().AddDate(0, 0, -7))
}

// NextWeekKey возвращает ключ недели, следующей за неделей момента t
func NextWeekKey(t time.Time) string {
	return WeekKey(t.UTC().AddDate(0, 0, 7))
}

// ShiftWeekKey сдвигает ключ недели на weeks недель (отрицательное значение — назад)
func ShiftWeekKey(key string, weeks int) (string, error) {
	monday, err := MondayOf(key)
	if err != nil {
		return "", err
	}
	return WeekKey(monday.AddDate(0, 0, weeks*7)), nil
}
