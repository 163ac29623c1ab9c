package output

// T is the i18n contract for every user-facing string of the bot.
type T interface {
	// T renders key for locale; data feeds template placeholders and may be nil.
	// Unknown keys fall back to the default locale, then to the key itself.
	T(locale, key string, data map[string]any) string
}
