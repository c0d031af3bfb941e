// Package timewindow вычисляет календарные условия тарификации и доступа
// (день скидки, "счастливый час") в фиксированном опорном часовом поясе.
//
// Все функции принимают момент времени явно и не обращаются к системным
// часам, поэтому их можно проверять детерминированно.
package timewindow

import "time"

// referenceZone — единый опорный часовой пояс сервиса (UTC+2, CAT).
// Условия скидок и окна доступа считаются в нём независимо от того,
// откуда пришёл запрос.
var referenceZone = time.FixedZone("CAT", 2*60*60)

const (
	// DiscountWeekday — день недели, в который действует скидка на тарифы.
	DiscountWeekday = time.Wednesday
	// HappyHourWeekday — день недели "счастливого часа".
	HappyHourWeekday = time.Saturday
	// HappyHourStart — час начала "счастливого часа" (включительно).
	HappyHourStart = 19
	// HappyHourEnd — час окончания "счастливого часа" (не включительно).
	HappyHourEnd = 20
)

// Location возвращает опорный часовой пояс сервиса.
func Location() *time.Location {
	return referenceZone
}

// Now возвращает текущее время в опорном часовом поясе.
func Now() time.Time {
	return time.Now().In(referenceZone)
}

// IsDiscountDay сообщает, действует ли в момент t скидка дня недели.
func IsDiscountDay(t time.Time) bool {
	return t.In(referenceZone).Weekday() == DiscountWeekday
}

// IsHappyHour сообщает, попадает ли момент t в окно "счастливого часа":
// суббота, локальный час в интервале [19, 20).
func IsHappyHour(t time.Time) bool {
	local := t.In(referenceZone)
	return local.Weekday() == HappyHourWeekday &&
		local.Hour() >= HappyHourStart && local.Hour() < HappyHourEnd
}

// StartOfDay возвращает локальную полночь дня, которому принадлежит t.
// Используется как граница суток при подсчёте дневных лимитов.
func StartOfDay(t time.Time) time.Time {
	local := t.In(referenceZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, referenceZone)
}
