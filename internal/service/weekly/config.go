package weekly

// Constants for default values
const (
	DefaultUTCOffsetHours = 2 // локальное гражданское время команды (без учета летнего времени)
	DefaultSeedCount      = 3 // сколько AI-затравок создает фаза start
)

// Config содержит настройки недельного жизненного цикла
type Config struct {
	// UTCOffsetHours — фиксированное смещение локального времени фаз относительно UTC.
	// Не DST-aware: см. комментарий в windows.go.
	UTCOffsetHours int

	// SeedCount — количество AI-затравок, создаваемых при старте недели
	SeedCount int

	// SeedTexts — тексты затравок; используются циклически, если SeedCount больше списка
	SeedTexts []string

	// PlaceholderTitle и PlaceholderOriginal используются фазой start,
	// когда внешний источник промптов недоступен или пуст
	PlaceholderTitle    string
	PlaceholderOriginal string
	PlaceholderRules    string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		UTCOffsetHours: DefaultUTCOffsetHours,
		SeedCount:      DefaultSeedCount,
		SeedTexts: []string{
			"Наш продукт продаёт себя сам — мы просто не мешаем.",
			"Скидка 0%: мы настолько уверены в цене.",
			"Купите два — второй тоже придётся оплатить.",
		},
		PlaceholderTitle:    "Челлендж недели",
		PlaceholderOriginal: "Придумайте лучшую подпись к слогану этой недели.",
		PlaceholderRules:    "Одна заявка на участника. Бюджет голосования — 3 балла, максимум 2 на заявку.",
	}
}

// SeedTextAt возвращает текст затравки с номером i (циклически по списку)
func (c *Config) SeedTextAt(i int) string {
	if len(c.SeedTexts) == 0 {
		return c.PlaceholderOriginal
	}
	return c.SeedTexts[i%len(c.SeedTexts)]
}
