package i18n

import (
	"testing"
	"testing/fstest"
)

func TestTranslatorEmbeddedBundle(t *testing.T) {
	tr, err := New("ru")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := tr.T("en", MsgSuccess); got != "RSS successfully loaded" {
		t.Errorf("Expected English success message, got: %s", got)
	}
	if got := tr.T("ru", MsgDuplicateURL); got != "RSS уже существует" {
		t.Errorf("Expected Russian duplicate message, got: %s", got)
	}

	langs := tr.Languages()
	if len(langs) != 2 || langs[0] != "ru" {
		t.Errorf("Expected [ru en], got: %v", langs)
	}
}

func TestTranslatorBundlesShareKeys(t *testing.T) {
	en, err := loadBundle(localesFS, "locales/en.yml")
	if err != nil {
		t.Fatal(err)
	}
	ru, err := loadBundle(localesFS, "locales/ru.yml")
	if err != nil {
		t.Fatal(err)
	}

	for key := range en {
		if _, ok := ru[key]; !ok {
			t.Errorf("Key %s missing from ru bundle", key)
		}
	}
	for key := range ru {
		if _, ok := en[key]; !ok {
			t.Errorf("Key %s missing from en bundle", key)
		}
	}
}

func TestTranslatorUnknownKey(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatal(err)
	}

	text := "failed to parse: 100% broken"
	if got := tr.T("en", text); got != text {
		t.Errorf("Expected unknown key to pass through, got: %s", got)
	}
}

func TestTranslatorUnsupportedLanguageFallsBack(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatal(err)
	}

	if got := tr.T("de", MsgNetworkError); got != "Network error" {
		t.Errorf("Expected fallback to default language, got: %s", got)
	}
	if tr.Supports("de") {
		t.Error("Expected de to be unsupported")
	}
}

func TestTranslatorMatch(t *testing.T) {
	tr, err := New("ru")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		preferred []string
		expected  string
	}{
		{[]string{"en"}, "en"},
		{[]string{"", "en-US,en;q=0.9"}, "en"},
		{[]string{"ru-RU"}, "ru"},
		{[]string{"ja", "en"}, "en"},
		{nil, "ru"},
	}

	for _, tt := range tests {
		if got := tr.Match(tt.preferred...); got != tt.expected {
			t.Errorf("Match(%v) = %s, expected %s", tt.preferred, got, tt.expected)
		}
	}
}

func TestNewFromFSInvalidBundle(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yml": &fstest.MapFile{Data: []byte("SUBMIT: [not, a, string]")},
	}

	if _, err := NewFromFS(fsys, "locales", "en"); err == nil {
		t.Error("Expected error for malformed bundle")
	}

	if _, err := NewFromFS(fstest.MapFS{}, "locales", "en"); err == nil {
		t.Error("Expected error for empty bundle directory")
	}
}
