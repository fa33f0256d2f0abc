package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Errors returned by ParseAttribute, wrapped in an *AttributeError.
var (
	ErrUnknownAttribute   = errors.New("unknown attribute")
	ErrUnknownKey         = errors.New("unknown attribute key")
	ErrMalformedAttribute = errors.New("malformed attribute syntax")
	ErrInvalidBool        = errors.New("literal cannot be parsed as bool")
	ErrInvalidInteger     = errors.New("literal cannot be parsed as integer")
)

// AttributeError describes a field attribute that could not be parsed.
type AttributeError struct {
	Text string // attribute text as written.
	Key  string // offending key, if any.
	Err  error
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("field: attribute %q: key %q: %v", e.Text, e.Key, e.Err)
	}
	return fmt.Sprintf("field: attribute %q: %v", e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *AttributeError) Unwrap() error {
	return e.Err
}

// Attribute is a parsed attribute declaration.
type Attribute struct {
	Kind       string
	Size       *uint64
	Nullable   *bool
	PrimaryKey bool
	Unique     bool
}

// Apply copies the attribute into the descriptor.
func (a *Attribute) Apply(d *Descriptor) {
	d.Attribute = a.Kind
	d.Size = a.Size
	d.Nullable = a.Nullable
	d.PrimaryKey = a.PrimaryKey
	d.Unique = a.Unique
}

// String formats the attribute back into the attribute grammar.
func (a *Attribute) String() string {
	var args []string
	if a.Size != nil {
		args = append(args, "size = "+strconv.FormatUint(*a.Size, 10))
	}
	if a.Nullable != nil {
		args = append(args, "null = "+strconv.FormatBool(*a.Nullable))
	}
	if a.PrimaryKey {
		args = append(args, "primary = true")
	}
	if a.Unique {
		args = append(args, "unique = true")
	}
	return a.Kind + "(" + strings.Join(args, ", ") + ")"
}

var attrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),=]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// attrAST is the raw parse tree of an attribute.
type attrAST struct {
	Kind string    `@Ident`
	Args []*argAST `( "(" ( @@ ( "," @@ )* )? ")" )?`
}

type argAST struct {
	Key   string      `@Ident "="`
	Value *literalAST `@@`
}

type literalAST struct {
	Str   *string `  @String`
	Int   *string `| @Int`
	Ident *string `| @Ident`
}

func (l *literalAST) String() string {
	switch {
	case l.Str != nil:
		return strconv.Quote(*l.Str)
	case l.Int != nil:
		return *l.Int
	case l.Ident != nil:
		return *l.Ident
	}
	return ""
}

var attrParser = participle.MustBuild[attrAST](
	participle.Lexer(attrLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// ParseAttribute parses a field attribute such as `varchar(size = 120, unique = true)`.
// The parentheses may be omitted when no keys are given.
func ParseAttribute(text string) (*Attribute, error) {
	raw, err := attrParser.ParseString("", text)
	if err != nil {
		return nil, &AttributeError{Text: text, Err: fmt.Errorf("%w: %v", ErrMalformedAttribute, err)}
	}
	attr := &Attribute{Kind: strings.ToLower(raw.Kind)}
	switch attr.Kind {
	case AttrInteger, AttrVarchar, AttrText:
	default:
		return nil, &AttributeError{Text: text, Err: fmt.Errorf("%w %q", ErrUnknownAttribute, raw.Kind)}
	}
	for _, arg := range raw.Args {
		if err := attr.set(strings.ToLower(arg.Key), arg.Value); err != nil {
			return nil, &AttributeError{Text: text, Key: arg.Key, Err: err}
		}
	}
	return attr, nil
}

func (a *Attribute) set(key string, v *literalAST) error {
	switch key {
	case "null":
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		a.Nullable = &b
	case "size":
		n, err := parseUint(v)
		if err != nil {
			return err
		}
		a.Size = &n
	case "unique":
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		a.Unique = b
	case "primary":
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		a.PrimaryKey = b
	default:
		return ErrUnknownKey
	}
	return nil
}

func parseBool(v *literalAST) (bool, error) {
	var s string
	switch {
	case v.Ident != nil:
		s = *v.Ident
	case v.Str != nil:
		s = *v.Str
	case v.Int != nil:
		switch *v.Int {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	}
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", ErrInvalidBool, v)
}

func parseUint(v *literalAST) (uint64, error) {
	var s string
	switch {
	case v.Int != nil:
		s = *v.Int
	case v.Str != nil:
		s = *v.Str
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidInteger, v)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidInteger, v)
	}
	return n, nil
}
