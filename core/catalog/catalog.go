package catalog

import "sort"

// Identity addresses a single translation: one key in one language.
type Identity struct {
	Language string `json:"language"`
	Key      string `json:"key"`
}

// Less orders identities by language code, then key name.
// This is the canonical ordering for all diff and plan output.
func (id Identity) Less(other Identity) bool {
	if id.Language != other.Language {
		return id.Language < other.Language
	}
	return id.Key < other.Key
}

// Catalog is a snapshot of translations: language code -> key name -> value.
// The zero value is not usable; construct with New.
type Catalog struct {
	values map[string]map[string]string
}

// New returns an empty catalog.
func New() Catalog {
	return Catalog{values: make(map[string]map[string]string)}
}

// FromMap builds a catalog from a language -> key -> value map.
// The input map is copied; later mutation of it does not affect the catalog.
func FromMap(values map[string]map[string]string) Catalog {
	c := New()
	for lang, keys := range values {
		for key, value := range keys {
			c.Set(lang, key, value)
		}
	}
	return c
}

// Get returns the value for (language, key) and whether it exists.
// An empty string with ok=true is a real (empty) translation.
func (c Catalog) Get(language, key string) (string, bool) {
	keys, ok := c.values[language]
	if !ok {
		return "", false
	}
	value, ok := keys[key]
	return value, ok
}

// Set stores a value for (language, key), replacing any existing value.
func (c Catalog) Set(language, key, value string) {
	keys, ok := c.values[language]
	if !ok {
		keys = make(map[string]string)
		c.values[language] = keys
	}
	keys[key] = value
}

// Delete removes (language, key) if present. Deleting the last key of a
// language removes the language entirely, so Languages stays accurate.
func (c Catalog) Delete(language, key string) {
	keys, ok := c.values[language]
	if !ok {
		return
	}
	delete(keys, key)
	if len(keys) == 0 {
		delete(c.values, language)
	}
}

// Languages returns the sorted list of language codes with at least one key.
func (c Catalog) Languages() []string {
	langs := make([]string, 0, len(c.values))
	for lang := range c.values {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Identities returns every (language, key) identity in canonical order.
func (c Catalog) Identities() []Identity {
	ids := make([]Identity, 0, c.Len())
	for lang, keys := range c.values {
		for key := range keys {
			ids = append(ids, Identity{Language: lang, Key: key})
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Len returns the total number of (language, key) pairs.
func (c Catalog) Len() int {
	n := 0
	for _, keys := range c.values {
		n += len(keys)
	}
	return n
}

// Clone returns a deep copy sharing no state with the receiver.
func (c Catalog) Clone() Catalog {
	clone := New()
	for lang, keys := range c.values {
		for key, value := range keys {
			clone.Set(lang, key, value)
		}
	}
	return clone
}

// Map returns the catalog as a language -> key -> value map.
// The result is a deep copy and safe to serialize or mutate.
func (c Catalog) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.values))
	for lang, keys := range c.values {
		m := make(map[string]string, len(keys))
		for key, value := range keys {
			m[key] = value
		}
		out[lang] = m
	}
	return out
}

// Equal reports whether both catalogs hold exactly the same identities and
// values. Comparison is exact string equality, no normalization.
func (c Catalog) Equal(other Catalog) bool {
	if c.Len() != other.Len() {
		return false
	}
	for lang, keys := range c.values {
		for key, value := range keys {
			otherValue, ok := other.Get(lang, key)
			if !ok || otherValue != value {
				return false
			}
		}
	}
	return true
}
