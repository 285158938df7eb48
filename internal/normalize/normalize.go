// Package normalize turns raw author, title, year and language strings into
// canonical comparison keys. Every function is pure and degrades malformed
// input to "" or an unknown year instead of failing.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options configures a Normalizer.
type Options struct {
	// AuthorHonorifics are stripped from the start of author names.
	AuthorHonorifics []string `yaml:"author_honorifics" mapstructure:"author_honorifics"`
	// TitleStopwords are tried in order; the first leading match is dropped.
	TitleStopwords []string `yaml:"title_stopwords" mapstructure:"title_stopwords"`
	// TitlePreserve lists punctuation kept in normalized titles.
	TitlePreserve string `yaml:"title_preserve" mapstructure:"title_preserve"`
}

// DefaultOptions returns the stock honorifics, stop-words and preserve set.
func DefaultOptions() Options {
	return Options{
		AuthorHonorifics: []string{"dr", "prof", "professor", "rev", "reverend", "sir", "dom", "fr", "fra"},
		TitleStopwords:   []string{"de", "in", "ad", "liber"},
		TitlePreserve:    ":,",
	}
}

// Normalizer builds author and title keys for one option set.
type Normalizer struct {
	honorifics  *regexp.Regexp
	stopwords   []string
	authorPunct func(rune) rune
	titlePunct  func(rune) rune
}

// New compiles a Normalizer. Empty option fields fall back to the defaults.
func New(opts Options) *Normalizer {
	def := DefaultOptions()
	if len(opts.AuthorHonorifics) == 0 {
		opts.AuthorHonorifics = def.AuthorHonorifics
	}
	if len(opts.TitleStopwords) == 0 {
		opts.TitleStopwords = def.TitleStopwords
	}
	if opts.TitlePreserve == "" {
		opts.TitlePreserve = def.TitlePreserve
	}

	quoted := make([]string, 0, len(opts.AuthorHonorifics))
	for _, h := range opts.AuthorHonorifics {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			quoted = append(quoted, regexp.QuoteMeta(h))
		}
	}

	stopwords := make([]string, 0, len(opts.TitleStopwords))
	for _, w := range opts.TitleStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stopwords = append(stopwords, w)
		}
	}

	n := &Normalizer{
		stopwords:   stopwords,
		authorPunct: punctuationMapper(""),
		titlePunct:  punctuationMapper(opts.TitlePreserve),
	}
	if len(quoted) > 0 {
		n.honorifics = regexp.MustCompile(`^(?:(?:` + strings.Join(quoted, "|") + `)\.?,?\s+)+`)
	}
	return n
}

// Default is the Normalizer built from DefaultOptions.
var Default = New(DefaultOptions())

// punctuationMapper maps every Unicode punctuation or symbol rune outside
// preserve to a space, for use with strings.Map.
func punctuationMapper(preserve string) func(rune) rune {
	return func(r rune) rune {
		if (unicode.IsPunct(r) || unicode.IsSymbol(r)) && !strings.ContainsRune(preserve, r) {
			return ' '
		}
		return r
	}
}

// Author returns a lowercased, diacritic-free author key without leading
// honorifics or punctuation.
func (n *Normalizer) Author(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	value := strings.ToLower(Transliterate(name))
	value = n.stripHonorifics(value)
	value = collapseSpace(strings.Map(n.authorPunct, value))
	// Punctuation removal can expose a honorific ("-dr john"); strip again so
	// the key is a fixed point of Author.
	return n.stripHonorifics(value)
}

// Title returns a lowercased, diacritic-free title key with one leading
// stop-word removed.
func (n *Normalizer) Title(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	value := strings.ToLower(Transliterate(title))
	value = collapseSpace(strings.Map(n.titlePunct, value))

	for _, w := range n.stopwords {
		if strings.HasPrefix(value, w+" ") {
			return value[len(w)+1:]
		}
	}
	return value
}

func (n *Normalizer) stripHonorifics(value string) string {
	if n.honorifics == nil {
		return value
	}
	return n.honorifics.ReplaceAllString(value, "")
}

// Author normalizes an author name with the default options.
func Author(name string) string { return Default.Author(name) }

// Title normalizes a title with the default options.
func Title(title string) string { return Default.Title(title) }

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var combiningMarks = runes.In(unicode.Mn)

// Letters and typography that NFKD leaves alone.
var ligatures = strings.NewReplacer(
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
	"þ", "th", "Þ", "Th",
	"ð", "d", "Ð", "D",
	"‘", "'", "’", "'",
	"“", "\"", "”", "\"",
	"«", "\"", "»", "\"",
	"–", "-", "—", "-",
)

// Transliterate strips diacritics and expands ligatures ("Cæsar" -> "Caesar",
// "Ptolemæus" -> "Ptolemaeus", "ſ" -> "s").
func Transliterate(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain keeps per-call state, so each call builds its own.
	fold := transform.Chain(norm.NFKD, runes.Remove(combiningMarks), norm.NFC)
	out, _, err := transform.String(fold, s)
	if err != nil {
		out = s
	}
	// After the fold, so "ǽ" has already lost its accent and expands too.
	return ligatures.Replace(out)
}
