package browse

// Vocabulary maps a browse category to the set of types XEP-0011 defines for
// it. Instances are read-only after construction; the resolver never mutates
// the table it is given.
type Vocabulary map[string]map[string]bool

// HasCategory reports whether the category is part of the vocabulary.
func (v Vocabulary) HasCategory(category string) bool {
	_, ok := v[category]
	return ok
}

// Allows reports whether the type is a legal type for the category.
func (v Vocabulary) Allows(category, typ string) bool {
	return v[category][typ]
}

// legacyVocabulary is the category/type table from XEP-0011 version 1.3.1.
var legacyVocabulary = Vocabulary{
	"application": set("bot", "calendar", "editor", "fileserver", "game", "whiteboard"),
	"conference":  set("irc", "list", "private", "public", "topic", "url"),
	"headline":    set("logger", "notice", "rss", "stock"),
	"keyword":     set("dictionary", "dns", "software", "thesaurus", "web", "whois"),
	"render":      set("en2fr", "*2*", "tts"),
	"service":     set("aim", "icq", "irc", "jabber", "jud", "msn", "pager", "serverlist", "sms", "smtp", "yahoo"),
	"user":        set("client", "forward", "inbox", "portable", "voice"),
	"validate":    set("grammar", "spell", "xml"),
}

// LegacyVocabulary returns the XEP-0011 category/type table.
func LegacyVocabulary() Vocabulary {
	return legacyVocabulary
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
