package keyboard

import "github.com/go-telegram/bot/models"

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Grid раскладывает кнопки по perRow в ряд
func (b *Builder) Grid(perRow int, buttons ...models.InlineKeyboardButton) *Builder {
	if perRow <= 0 {
		perRow = 1
	}
	for start := 0; start < len(buttons); start += perRow {
		end := min(start+perRow, len(buttons))
		b.Row(buttons[start:end]...)
	}
	return b
}

// AddRows добавляет несколько рядов кнопок
func (b *Builder) AddRows(rows [][]models.InlineKeyboardButton) *Builder {
	for _, row := range rows {
		b.Row(row...)
	}
	return b
}

// Rows ряды, собранные на текущий момент
func (b *Builder) Rows() [][]models.InlineKeyboardButton {
	return b.rows
}

func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Button кнопка с callback data
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}
