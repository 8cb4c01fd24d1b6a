package weekly

import (
	"time"
)

// Канонические локальные (гражданские) времена фаз недели.
// Локальное время переводится в UTC вычитанием фиксированного смещения из конфига.
//
// ОГРАНИЧЕНИЕ: смещение постоянное и не учитывает переход на летнее время,
// поэтому часть года фактическое локальное время фаз сдвинуто на час.
// Это осознанное решение, унаследованное от исходной версии фичи.
const (
	startHour        = 11 // понедельник 11:00 — старт недели
	editDeadlineHour = 12 // пятница 12:00 — дедлайн редактирования
	voteDeadlineHour = 14 // пятница 14:00 — дедлайн голосования
	freezeHour       = 15 // пятница 15:00 — заморозка
	revealHour       = 16 // пятница 16:00 — оглашение итогов
	endHour          = 11 // следующий понедельник 11:00 — конец недели
)

// Windows содержит шесть канонических меток времени жизненного цикла недели (в UTC)
type Windows struct {
	StartsAt       time.Time
	EditDeadlineAt time.Time
	VoteDeadlineAt time.Time
	FreezeAt       time.Time
	RevealAt       time.Time
	EndsAt         time.Time
}

// WindowsFor вычисляет метки времени фаз для недели с данным ключом.
// utcOffsetHours — смещение локального гражданского времени относительно UTC в часах.
// Функция чистая и детерминированная для одинаковых аргументов.
func WindowsFor(key string, utcOffsetHours int) (Windows, error) {
	monday, err := MondayOf(key)
	if err != nil {
		return Windows{}, err
	}

	offset := time.Duration(utcOffsetHours) * time.Hour
	at := func(dayShift, localHour int) time.Time {
		return monday.AddDate(0, 0, dayShift).
			Add(time.Duration(localHour)*time.Hour - offset)
	}

	return Windows{
		StartsAt:       at(0, startHour),
		EditDeadlineAt: at(4, editDeadlineHour),
		VoteDeadlineAt: at(4, voteDeadlineHour),
		FreezeAt:       at(4, freezeHour),
		RevealAt:       at(4, revealHour),
		EndsAt:         at(7, endHour),
	}, nil
}
