package config

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/turbot/tailpipe-file-ingest/constants"
)

// TableSpec declares which objects make up a table and how they are parsed
type TableSpec struct {
	TableName     string   `hcl:"name,label"`
	SearchPattern string   `hcl:"search_pattern"`
	SearchPrefix  *string  `hcl:"search_prefix,optional"`
	KeyProperties []string `hcl:"key_properties"`
	DateOverrides []string `hcl:"date_overrides,optional"`

	Delimiter  *string `hcl:"delimiter,optional"`
	QuoteChar  *string `hcl:"quote_char,optional"`
	EscapeChar *string `hcl:"escape_char,optional"`

	// when not set only objects directly under the prefix are listed
	RecursiveSearch *bool `hcl:"recursive_search,optional"`

	matcher *regexp.Regexp
}

func (t *TableSpec) Validate() error {
	var errs []error
	if t.TableName == "" {
		errs = append(errs, errors.New("table name is required"))
	}
	if t.SearchPattern == "" {
		errs = append(errs, fmt.Errorf("table %q: search_pattern is required", t.TableName))
	} else if _, err := t.Matcher(); err != nil {
		errs = append(errs, err)
	}

	for _, c := range []struct {
		name  string
		value *string
	}{{"delimiter", t.Delimiter}, {"quote_char", t.QuoteChar}, {"escape_char", t.EscapeChar}} {
		if c.value != nil && utf8.RuneCountInString(*c.value) != 1 {
			errs = append(errs, fmt.Errorf("table %q: %s must be a single character, got %q", t.TableName, c.name, *c.value))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if esc, ok := t.GetEscapeChar(); ok && (esc == t.GetDelimiter() || esc == t.GetQuoteChar()) {
		return fmt.Errorf("table %q: escape_char must differ from delimiter and quote_char", t.TableName)
	}
	if t.GetDelimiter() == t.GetQuoteChar() {
		return fmt.Errorf("table %q: delimiter and quote_char must differ", t.TableName)
	}
	return nil
}

// Matcher returns the compiled search pattern
func (t *TableSpec) Matcher() (*regexp.Regexp, error) {
	if t.matcher != nil {
		return t.matcher, nil
	}
	re, err := regexp.Compile(t.SearchPattern)
	if err != nil {
		return nil, fmt.Errorf("search_pattern for table %q is not a valid regular expression: %w", t.TableName, err)
	}
	t.matcher = re
	return re, nil
}

func (t *TableSpec) GetSearchPrefix() string {
	if t.SearchPrefix == nil {
		return ""
	}
	return *t.SearchPrefix
}

func (t *TableSpec) IsRecursive() bool {
	return t.RecursiveSearch != nil && *t.RecursiveSearch
}

func (t *TableSpec) GetDelimiter() rune {
	return firstRune(t.Delimiter, constants.DefaultDelimiter)
}

func (t *TableSpec) GetQuoteChar() rune {
	return firstRune(t.QuoteChar, constants.DefaultQuoteChar)
}

// GetEscapeChar returns the escape character, if one is configured
func (t *TableSpec) GetEscapeChar() (rune, bool) {
	if t.EscapeChar == nil || *t.EscapeChar == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(*t.EscapeChar)
	return r, true
}

func firstRune(s *string, def string) rune {
	v := def
	if s != nil && *s != "" {
		v = *s
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r
}
