package titan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexKinds(t *testing.T, src string) []Kind {
	t.Helper()
	toks, err := NewLexer("test.titan", []byte(src)).Lex()
	require.NoError(t, err)
	var kinds []Kind
	for _, tok := range toks {
		if tok.Kind == KindSpace || tok.Kind == KindComment {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestLexerPunctuationLongestMatch(t *testing.T) {
	kinds := lexKinds(t, "<<= >> // / .. ... :: ~= -> ?")
	assert.Equal(t, []Kind{
		KindLShift, KindAssign, KindRShift, KindDSlash, KindSlash,
		KindConcat, KindEllipsis, KindDColon, KindNe, KindArrow, KindQuestion, KindEOF,
	}, kinds)
}

func TestLexerKeywordsVsNames(t *testing.T) {
	kinds := lexKinds(t, "local x = foreign")
	assert.Equal(t, []Kind{KindLocal, KindName, KindAssign, KindForeign, KindEOF}, kinds)
}

func TestLexerIntegerAndFloat(t *testing.T) {
	toks, err := NewLexer("t", []byte("10 3.5 0x1F 1e10")).Lex()
	require.NoError(t, err)
	require.Equal(t, KindInt, toks[0].Kind)
	assert.EqualValues(t, 10, toks[0].IntValue)

	require.Equal(t, KindFloat, toks[2].Kind)
	assert.InDelta(t, 3.5, toks[2].FloatValue, 1e-9)

	require.Equal(t, KindInt, toks[4].Kind)
	assert.EqualValues(t, 31, toks[4].IntValue)

	require.Equal(t, KindFloat, toks[6].Kind)
	assert.InDelta(t, 1e10, toks[6].FloatValue, 1)
}

func TestLexerMalformedNumberTrailingIdent(t *testing.T) {
	_, err := NewLexer("t", []byte("123abc")).Lex()
	require.Error(t, err)
}

func TestLexerDecimalEscapeBoundary(t *testing.T) {
	// \255 is the maximum valid decimal escape; \256 overflows a byte.
	toks, err := NewLexer("t", []byte(`"\255"`)).Lex()
	require.NoError(t, err)
	require.Equal(t, KindString, toks[0].Kind)
	assert.Equal(t, "\xff", toks[0].StrValue)

	_, err = NewLexer("t", []byte(`"\256"`)).Lex()
	require.Error(t, err)
}

func TestLexerShortStringEscapes(t *testing.T) {
	toks, err := NewLexer("t", []byte(`"a\nb\tc\\d\"e"`)).Lex()
	require.NoError(t, err)
	require.Equal(t, KindString, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\\d\"e", toks[0].StrValue)
}

func TestLexerEscapedNewlineNormalizesBothOrders(t *testing.T) {
	toks, err := NewLexer("t", []byte("\"a\\\r\nb\\\n\rc\"")).Lex()
	require.NoError(t, err)
	require.Equal(t, KindString, toks[0].Kind)
	assert.Equal(t, "a\nb\nc", toks[0].StrValue)
}

func TestLexerUnclosedStringIsError(t *testing.T) {
	_, err := NewLexer("t", []byte(`"unterminated`)).Lex()
	assert.Error(t, err)
}

func TestLexerLongBracketString(t *testing.T) {
	toks, err := NewLexer("t", []byte("[==[\nhello ]] world]==]")).Lex()
	require.NoError(t, err)
	require.Equal(t, KindString, toks[0].Kind)
	assert.Equal(t, "hello ]] world", toks[0].StrValue)
}

func TestLexerLineComment(t *testing.T) {
	toks, err := NewLexer("t", []byte("-- a comment\nlocal")).Lex()
	require.NoError(t, err)
	require.Equal(t, KindComment, toks[0].Kind)
	require.Equal(t, KindSpace, toks[1].Kind)
	require.Equal(t, KindLocal, toks[2].Kind)
}
