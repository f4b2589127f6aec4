// Package i18n resolves user-facing message keys against JSON locale
// bundles. Built-in locales ship embedded; a custom directory can override
// or extend them. Lookup failures fall back to the default locale and
// finally to the key itself, so message resolution never errors.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed locales/*.json
var builtinLocales embed.FS

type Bundle struct {
	translations  map[string]map[string]any
	defaultLocale string
}

// New loads the embedded locales and merges any *.json files found in
// customDir on top of them.
func New(customDir, defaultLocale string) (*Bundle, error) {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	b := &Bundle{
		translations:  make(map[string]map[string]any),
		defaultLocale: defaultLocale,
	}

	entries, err := fs.ReadDir(builtinLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("read built-in locales: %w", err)
	}
	for _, entry := range entries {
		data, err := builtinLocales.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read built-in locale %s: %w", entry.Name(), err)
		}
		if err := b.merge(entry.Name(), data); err != nil {
			return nil, err
		}
	}

	if customDir != "" {
		files, err := os.ReadDir(customDir)
		if err != nil {
			return nil, fmt.Errorf("read locales dir %s: %w", customDir, err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(customDir, f.Name()))
			if err != nil {
				return nil, fmt.Errorf("read locale %s: %w", f.Name(), err)
			}
			if err := b.merge(f.Name(), data); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func (b *Bundle) merge(filename string, data []byte) error {
	locale := strings.TrimSuffix(filename, ".json")
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse locale %s: %w", locale, err)
	}
	existing, ok := b.translations[locale]
	if !ok {
		b.translations[locale] = parsed
		return nil
	}
	b.translations[locale] = deepMerge(existing, parsed)
	return nil
}

func deepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if baseChild, ok := out[k].(map[string]any); ok {
			if overrideChild, ok := v.(map[string]any); ok {
				out[k] = deepMerge(baseChild, overrideChild)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Text resolves a dotted key like "auth.username_taken" for the locale,
// interpolating {param} placeholders from params.
func (b *Bundle) Text(key, locale string, params map[string]any) string {
	msg, ok := b.lookup(key, locale)
	if !ok && locale != b.defaultLocale {
		msg, ok = b.lookup(key, b.defaultLocale)
	}
	if !ok {
		return key
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprintf("%v", value))
	}
	return msg
}

func (b *Bundle) lookup(key, locale string) (string, bool) {
	node, ok := b.translations[locale]
	if !ok {
		return "", false
	}
	parts := strings.Split(key, ".")
	for i, part := range parts {
		value, ok := node[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			s, ok := value.(string)
			return s, ok
		}
		node, ok = value.(map[string]any)
		if !ok {
			return "", false
		}
	}
	return "", false
}

// LocaleFromHeader extracts the primary language subtag from an
// Accept-Language header, falling back to the default locale.
func (b *Bundle) LocaleFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return b.defaultLocale
	}
	first := header
	if idx := strings.IndexByte(first, ','); idx >= 0 {
		first = first[:idx]
	}
	if idx := strings.IndexByte(first, ';'); idx >= 0 {
		first = first[:idx]
	}
	first = strings.TrimSpace(first)
	if idx := strings.IndexByte(first, '-'); idx >= 0 {
		first = first[:idx]
	}
	first = strings.ToLower(first)
	if _, ok := b.translations[first]; !ok {
		return b.defaultLocale
	}
	return first
}

// DefaultLocale returns the fallback locale used when resolution fails.
func (b *Bundle) DefaultLocale() string { return b.defaultLocale }
