package token

import "strings"

// Type is the type of a token.
type Type string

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // An unknown or invalid token
	EOF     Type = "EOF"     // End of file

	// Literals
	WORD  Type = "WORD"  // strt, some/path
	INT   Type = "INT"   // 12345
	FLOAT Type = "FLOAT" // 123.45, 1.0d-3
	TEXT  Type = "TEXT"  // rest of a DFN attribute line

	// Keywords of the input language
	BEGIN     Type = "BEGIN"
	END       Type = "END"
	LAYERED   Type = "LAYERED"
	CONSTANT  Type = "CONSTANT"
	INTERNAL  Type = "INTERNAL"
	OPENCLOSE Type = "OPEN/CLOSE"
	FACTOR    Type = "FACTOR"
	IPRN      Type = "IPRN"
	FILEIN    Type = "FILEIN"
	FILEOUT   Type = "FILEOUT"

	// Whitespace
	NEWLINE Type = "NEWLINE" // \n
	BLANK   Type = "BLANK"   // one or more empty lines (DFN parameter separator)
)

var keywords = map[string]Type{
	"begin":      BEGIN,
	"end":        END,
	"layered":    LAYERED,
	"constant":   CONSTANT,
	"internal":   INTERNAL,
	"open/close": OPENCLOSE,
	"external":   OPENCLOSE,
	"factor":     FACTOR,
	"iprn":       IPRN,
	"filein":     FILEIN,
	"fileout":    FILEOUT,
}

// LookupWord checks the keywords table for a word, ignoring case.
// If the word is a keyword, it returns the keyword's token type.
// Otherwise, it returns WORD.
func LookupWord(word string) Type {
	if tok, ok := keywords[strings.ToLower(word)]; ok {
		return tok
	}
	return WORD
}

// IsNumber reports whether the token is an integer or float literal.
func (t Token) IsNumber() bool {
	return t.Type == INT || t.Type == FLOAT
}

// Is reports whether the token literal equals name, ignoring case.
func (t Token) Is(name string) bool {
	return strings.EqualFold(t.Literal, name)
}
