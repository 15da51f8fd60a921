package models

import "encoding/json"

// PayloadKind форма поля payload после декодирования
type PayloadKind int

const (
	// PayloadInvalid payload не содержит числового значения
	PayloadInvalid PayloadKind = iota
	// PayloadNumber payload — голое число
	PayloadNumber
	// PayloadWrapped payload — объект с числовым полем value
	PayloadWrapped
)

// ClassifyPayload определяет форму payload и извлекает числовое значение.
// Допустимы ровно две формы: голое число или объект с числовым полем value.
// Вложенные глубже числа, строки, массивы и прочее считаются невалидными.
func ClassifyPayload(payload any) (float64, PayloadKind) {
	switch p := payload.(type) {
	case float64:
		return p, PayloadNumber
	case json.Number:
		if v, err := p.Float64(); err == nil {
			return v, PayloadNumber
		}
	case map[string]any:
		switch v := p["value"].(type) {
		case float64:
			return v, PayloadWrapped
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, PayloadWrapped
			}
		}
	}
	return 0, PayloadInvalid
}

// ExtractValue возвращает числовое значение payload, ok=false для остальных форм
func ExtractValue(payload any) (float64, bool) {
	v, kind := ClassifyPayload(payload)
	return v, kind != PayloadInvalid
}
