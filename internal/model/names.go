package model

import "strings"

// Names holds display names for months (January first) and weekdays (Monday
// first). They are presentation-only and never used for parsing.
type Names struct {
	Months       [12]string
	ShortMonths  [12]string
	ShortWeekday [7]string
}

var EnglishNames = Names{
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	ShortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	ShortWeekday: [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
}

var RussianNames = Names{
	Months: [12]string{
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	},
	ShortMonths: [12]string{
		"Янв", "Фев", "Мар", "Апр", "Май", "Июн",
		"Июл", "Авг", "Сен", "Окт", "Ноя", "Дек",
	},
	ShortWeekday: [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"},
}

// NamesFor returns the names for a locale code; unknown codes get English.
func NamesFor(locale string) Names {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "ru", "ru-ru", "russian":
		return RussianNames
	default:
		return EnglishNames
	}
}

// Month returns the full name of a zero-based month, normalizing out-of-range values.
func (n Names) Month(m int) string {
	return n.Months[((m%12)+12)%12]
}
