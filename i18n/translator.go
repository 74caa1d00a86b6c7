package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "value" for an unknown enum string or "param" for a path parameter).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			msg = "必須プロパティが不足しています"
		case "invalid_type":
			msg = "型が不正です"
		case "invalid_enum":
			msg = "未知の列挙値です: {value}"
		case "invalid_format":
			msg = "形式が不正です"
		case "duplicate_key":
			msg = "キーが重複しています: {key}"
		case "parse_error":
			msg = "解析エラー"
		case "missing_path_param":
			msg = "パスパラメータ {param} は必須です"
		}
	default: // "en"
		switch code {
		case "required":
			msg = "required property missing"
		case "invalid_type":
			msg = "invalid type"
		case "invalid_enum":
			msg = "unknown enum value {value}"
		case "invalid_format":
			msg = "invalid format"
		case "duplicate_key":
			msg = "duplicate key {key}"
		case "parse_error":
			msg = "parse error"
		case "missing_path_param":
			msg = "path parameter {param} is required"
		}
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

func expand(msg string, data map[string]string) string {
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
