package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	assert.Equal(t, "invalid type", T("invalid_type", nil))

	SetLanguage("ja")
	defer SetLanguage("en")
	assert.Equal(t, "型が不正です", T("invalid_type", nil))
	assert.Equal(t, "パスパラメータ payout_id は必須です", T("missing_path_param", map[string]string{"param": "payout_id"}))
}

func TestTranslator_ExpandsData(t *testing.T) {
	assert.Equal(t, "unknown enum value brand_new", T("invalid_enum", map[string]string{"value": "brand_new"}))
	assert.Equal(t, "duplicate key id", T("duplicate_key", map[string]string{"key": "id"}))
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	assert.Equal(t, "not_a_code", T("not_a_code", nil))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	assert.Equal(t, "X:required", T("required", nil))
}
