package service

import (
	"github.com/yourusername/challenge-api/internal/service/weekly"
)

// Prompt — материал недели: что риффуем и по каким правилам
type Prompt struct {
	Title        string
	OriginalText string
	ContextText  string
	RulesText    string
}

// PromptProvider поставляет материал для новой недели. Реальный бэклог промптов
// живет во внешней системе; ядро принимает любой источник и умеет жить без него.
type PromptProvider interface {
	// NextPrompt возвращает материал для недели weekKey или ошибку,
	// если источник недоступен (тогда start подставит плейсхолдер).
	NextPrompt(weekKey string) (*Prompt, error)
}

// StaticPromptProvider — провайдер-заглушка с плейсхолдерами из конфига.
// Используется, пока внешний бэклог не подключен.
type StaticPromptProvider struct {
	config *weekly.Config
}

// NewStaticPromptProvider создает провайдер плейсхолдеров
func NewStaticPromptProvider(config *weekly.Config) *StaticPromptProvider {
	return &StaticPromptProvider{config: config}
}

// NextPrompt возвращает плейсхолдер недели
func (p *StaticPromptProvider) NextPrompt(weekKey string) (*Prompt, error) {
	return &Prompt{
		Title:        p.config.PlaceholderTitle + " " + weekKey,
		OriginalText: p.config.PlaceholderOriginal,
		ContextText:  "",
		RulesText:    p.config.PlaceholderRules,
	}, nil
}
