package titan

import "fmt"

// Parser is a hand-rolled recursive-descent parser over the token
// stream produced by Lexer.Lex. It stops at the first syntax error
// (ParsingError), matching the lex/parse phases' fatal-and-first-wins
// diagnostic policy (§7).
type Parser struct {
	file   string
	tokens []Token
	pos    int
}

func NewParser(file string, tokens []Token) *Parser {
	// COMMENT and SPACE tokens carry no syntax; drop them up front.
	significant := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != KindSpace && t.Kind != KindComment {
			significant = append(significant, t)
		}
	}
	return &Parser{file: file, tokens: significant}
}

// ParseProgram parses an entire module into a *Program.
func ParseProgram(file string, source []byte) (*Program, error) {
	tokens, err := NewLexer(file, source).Lex()
	if err != nil {
		return nil, err
	}
	p := NewParser(file, tokens)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errAt("UnexpectedToken", fmt.Sprintf("unexpected %s after end of program", p.peek()), "Program")
	}
	return prog, nil
}

func (p *Parser) peek() Token    { return p.tokens[p.pos] }
func (p *Parser) atEOF() bool    { return p.peek().Kind == KindEOF }
func (p *Parser) advance() Token { t := p.tokens[p.pos]; if t.Kind != KindEOF { p.pos++ }; return t }

func (p *Parser) check(k Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k Kind) (Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return Token{}, false
}

func (p *Parser) expect(k Kind, label, production string) (Token, error) {
	if t, ok := p.match(k); ok {
		return t, nil
	}
	return Token{}, p.errAt(label, fmt.Sprintf("expected %s, found %s", k, p.peek()), production)
}

func (p *Parser) errAt(label, message, production string) error {
	return NewParsingError(PhaseParse, label, message, production, NewSpan(
		Location{Cursor: p.peek().Range.Start},
		Location{Cursor: p.peek().Range.End},
	))
}

// ---- Program ----

func (p *Parser) parseProgram() (*Program, error) {
	start := p.peek()
	var items []TopLevelNode
	for !p.atEOF() {
		its, err := p.parseTopLevelItem()
		if err != nil {
			return nil, err
		}
		items = append(items, its...)
	}
	return NewProgram(items, p.spanFromTok(start)), nil
}

func (p *Parser) spanFromTok(start Token) Span {
	if p.pos == 0 {
		return NewSpan(Location{Cursor: start.Range.Start}, Location{Cursor: start.Range.Start})
	}
	end := p.tokens[p.pos-1]
	return NewSpan(Location{Cursor: start.Range.Start}, Location{Cursor: end.Range.End})
}

func (p *Parser) parseTopLevelItem() ([]TopLevelNode, error) {
	start := p.peek()
	switch {
	case p.check(KindRecord):
		return p.parseRecordDecl(start)
	case p.check(KindLocal):
		return p.parseTopLevelLocal(start)
	case p.check(KindFunction):
		fn, err := p.parseTopLevelFunc(start, "")
		if err != nil {
			return nil, err
		}
		return []TopLevelNode{fn}, nil
	default:
		return nil, p.errAt("ExpTopLevel", fmt.Sprintf("expected import, record, local or function, found %s", p.peek()), "TopLevelItem")
	}
}

func (p *Parser) parseTopLevelLocal(start Token) ([]TopLevelNode, error) {
	p.advance() // local
	if _, ok := p.match(KindFunction); ok {
		fn, err := p.parseTopLevelFunc(start, "")
		if err != nil {
			return nil, err
		}
		return []TopLevelNode{fn}, nil
	}
	nameTok, err := p.expect(KindName, "ExpName", "TopLevelLocal")
	if err != nil {
		return nil, err
	}
	name := nameTok.StrValue

	if _, ok := p.match(KindAssign); ok {
		if _, ok := p.match(KindForeign); ok {
			if _, err := p.expect(KindImport, "ExpImport", "ForeignImport"); err != nil {
				return nil, err
			}
			headerTok, err := p.expect(KindString, "ExpString", "ForeignImport")
			if err != nil {
				return nil, err
			}
			return []TopLevelNode{NewForeignImportNode(name, headerTok.StrValue, p.spanFromTok(start))}, nil
		}
		if _, ok := p.match(KindImport); ok {
			pathTok, err := p.expect(KindString, "ExpString", "Import")
			if err != nil {
				return nil, err
			}
			return []TopLevelNode{NewImportNode(name, pathTok.StrValue, p.spanFromTok(start))}, nil
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return []TopLevelNode{NewTopLevelVarNode(name, nil, init, p.spanFromTok(start))}, nil
	}

	var ann TypeNode
	if _, ok := p.match(KindColon); ok {
		ann, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(KindAssign, "ExpAssign", "TopLevelVar"); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return []TopLevelNode{NewTopLevelVarNode(name, ann, init, p.spanFromTok(start))}, nil
}

func (p *Parser) parseRecordDecl(start Token) ([]TopLevelNode, error) {
	p.advance() // record
	nameTok, err := p.expect(KindName, "ExpName", "RecordDecl")
	if err != nil {
		return nil, err
	}
	name := nameTok.StrValue
	var fields []RecordFieldDecl
	for !p.check(KindEnd) {
		fieldTok, err := p.expect(KindName, "ExpFieldName", "RecordDecl")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindColon, "ExpColon", "RecordDecl"); err != nil {
			return nil, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, RecordFieldDecl{Name: fieldTok.StrValue, Type: fieldType})
	}
	if _, err := p.expect(KindEnd, "ExpEnd", "RecordDecl"); err != nil {
		return nil, err
	}
	span := p.spanFromTok(start)
	decl := NewRecordDeclNode(name, fields, span)

	// synthesize the implicit `Name.new` constructor (§4.2)
	params := make([]Param, len(fields))
	for i, f := range fields {
		params[i] = Param{Name: f.Name, Type: f.Type}
	}
	ctor := NewTopLevelFuncNode(name+".new", params, []TypeNode{NewTypeNameNode(name, span)}, NewBlockStmt(nil, span), span)
	return []TopLevelNode{decl, ctor}, nil
}

func (p *Parser) parseTopLevelFunc(start Token, _ string) (*TopLevelFuncNode, error) {
	p.advance() // function
	nameTok, err := p.expect(KindName, "ExpName", "FuncDecl")
	if err != nil {
		return nil, err
	}
	name := nameTok.StrValue
	if _, ok := p.match(KindDot); ok {
		memberTok, err := p.expect(KindName, "ExpName", "FuncDecl")
		if err != nil {
			return nil, err
		}
		name = name + "." + memberTok.StrValue
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var rets []TypeNode
	if _, ok := p.match(KindColon); ok {
		rets, err = p.parseTypeList()
		if err != nil {
			return nil, err
		}
		// `: T1, T2` declares several return types without parentheses
		for {
			if _, ok := p.match(KindComma); !ok {
				break
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			rets = append(rets, t)
		}
	}
	body, err := p.parseBlockUntil(KindEnd)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindEnd, "ExpEnd", "FuncDecl"); err != nil {
		return nil, err
	}
	return NewTopLevelFuncNode(name, params, rets, body, p.spanFromTok(start)), nil
}

func (p *Parser) parseParamList() ([]Param, error) {
	if _, err := p.expect(KindLParen, "LParPList", "ParamList"); err != nil {
		return nil, err
	}
	var params []Param
	for !p.check(KindRParen) {
		if len(params) > 0 {
			if _, err := p.expect(KindComma, "ExpComma", "ParamList"); err != nil {
				return nil, err
			}
		}
		nameTok, err := p.expect(KindName, "ExpName", "ParamList")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindColon, "ExpColon", "ParamList"); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: nameTok.StrValue, Type: ptype})
	}
	if _, err := p.expect(KindRParen, "RParPList", "ParamList"); err != nil {
		return nil, err
	}
	return params, nil
}

// ---- Statements ----

func (p *Parser) parseBlockUntil(terminators ...Kind) (*BlockStmt, error) {
	start := p.peek()
	var stmts []Stmt
	for !p.atBlockEnd(terminators) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return NewBlockStmt(stmts, p.spanFromTok(start)), nil
}

func (p *Parser) atBlockEnd(terminators []Kind) bool {
	if p.atEOF() {
		return true
	}
	for _, k := range terminators {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStmt() (Stmt, error) {
	start := p.peek()
	switch {
	case p.check(KindDo):
		p.advance()
		body, err := p.parseBlockUntil(KindEnd)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindEnd, "ExpEnd", "Block"); err != nil {
			return nil, err
		}
		return body, nil

	case p.check(KindWhile):
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindDo, "DoWhile", "While"); err != nil {
			return nil, err
		}
		body, err := p.parseBlockUntil(KindEnd)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindEnd, "ExpEnd", "While"); err != nil {
			return nil, err
		}
		return NewWhileStmt(cond, body, p.spanFromTok(start)), nil

	case p.check(KindRepeat):
		p.advance()
		body, err := p.parseBlockUntil(KindUntil)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindUntil, "ExpUntil", "Repeat"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return NewRepeatStmt(body, cond, p.spanFromTok(start)), nil

	case p.check(KindIf):
		return p.parseIf(start)

	case p.check(KindFor):
		return p.parseFor(start)

	case p.check(KindLocal):
		p.advance()
		nameTok, err := p.expect(KindName, "ExpName", "Decl")
		if err != nil {
			return nil, err
		}
		var ann TypeNode
		if _, ok := p.match(KindColon); ok {
			ann, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(KindAssign, "ExpAssign", "Decl"); err != nil {
			return nil, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return NewDeclStmt(nameTok.StrValue, ann, init, p.spanFromTok(start)), nil

	case p.check(KindReturn):
		p.advance()
		var values []Expr
		if !p.atBlockEnd([]Kind{KindEnd, KindElse, KindElseif, KindUntil, KindSemi}) {
			var err error
			values, err = p.parseExprList()
			if err != nil {
				return nil, err
			}
		}
		return NewReturnStmt(values, p.spanFromTok(start)), nil

	default:
		return p.parseAssignOrCall(start)
	}
}

func (p *Parser) parseIf(start Token) (Stmt, error) {
	p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindThen, "ExpThen", "If"); err != nil {
		return nil, err
	}
	then, err := p.parseBlockUntil(KindEnd, KindElse, KindElseif)
	if err != nil {
		return nil, err
	}
	var els Stmt
	switch {
	case p.check(KindElseif):
		elseifStart := p.peek()
		els, err = p.parseIf(elseifStart)
		if err != nil {
			return nil, err
		}
		return NewIfStmt(cond, then, els, p.spanFromTok(start)), nil
	case p.check(KindElse):
		p.advance()
		elseBlock, err := p.parseBlockUntil(KindEnd)
		if err != nil {
			return nil, err
		}
		els = elseBlock
	}
	if _, err := p.expect(KindEnd, "ExpEnd", "If"); err != nil {
		return nil, err
	}
	return NewIfStmt(cond, then, els, p.spanFromTok(start)), nil
}

func (p *Parser) parseFor(start Token) (Stmt, error) {
	p.advance() // for
	nameTok, err := p.expect(KindName, "ExpName", "For")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindAssign, "ExpAssign", "For"); err != nil {
		return nil, err
	}
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindComma, "ExpComma", "For"); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step Expr
	if _, ok := p.match(KindComma); ok {
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	} else {
		step = NewIntegerExpr(1, to.Span())
	}
	if _, err := p.expect(KindDo, "DoWhile", "For"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(KindEnd)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindEnd, "ExpEnd", "For"); err != nil {
		return nil, err
	}
	return NewForStmt(nameTok.StrValue, from, to, step, body, p.spanFromTok(start)), nil
}

// parseAssignOrCall handles both a bare call statement and a
// (possibly multi-target) assignment, which share a Variable/Call
// prefix and only diverge once `=` or `,` is seen.
func (p *Parser) parseAssignOrCall(start Token) (Stmt, error) {
	first, err := p.parseSuffixedExpr()
	if err != nil {
		return nil, err
	}
	if call, ok := first.(*CallExpr); ok && !p.check(KindComma) && !p.check(KindAssign) {
		return NewCallStmt(call, p.spanFromTok(start)), nil
	}

	targets := []VarNode{exprToVar(first)}
	for {
		if _, ok := p.match(KindComma); !ok {
			break
		}
		next, err := p.parseSuffixedExpr()
		if err != nil {
			return nil, err
		}
		targets = append(targets, exprToVar(next))
	}
	if _, err := p.expect(KindAssign, "ExpAssign", "Assign"); err != nil {
		return nil, err
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return NewAssignStmt(targets, values, p.spanFromTok(start)), nil
}

func exprToVar(e Expr) VarNode {
	if ve, ok := e.(*VarExpr); ok {
		return ve.Var
	}
	return NewNameVar("<invalid>", e.Span())
}

// ---- Expressions ----
//
// Precedence, loosest to tightest (§4.2):
//   or
//   and
//   comparisons (== ~= < > <= >=)
//   |
//   ~ (binary xor)
//   &
//   << >>
//   .. (right-assoc, flattened into ConcatExpr)
//   + -
//   * / // %
//   unary (not - # ~)
//   ^ (right-assoc)
//   as (postfix cast, binds tighter than everything but suffixes)

func (p *Parser) parseExprList() ([]Expr, error) {
	var exprs []Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if _, ok := p.match(KindComma); !ok {
			break
		}
	}
	return adjustExprList(exprs), nil
}

// adjustExprList applies the Adjust/Extra rule: every expression but
// the last is wrapped in AdjustExpr (truncated to one value); the
// last is left as-is so a trailing call can splice in all its results
// at an Extra(Index) site built by the checker once it knows the
// callee's arity.
func adjustExprList(exprs []Expr) []Expr {
	for i := 0; i < len(exprs)-1; i++ {
		if _, ok := exprs[i].(*CallExpr); ok {
			exprs[i] = NewAdjustExpr(exprs[i], exprs[i].Span())
		}
	}
	return exprs
}

func (p *Parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		start := p.peek()
		if _, ok := p.match(KindOr); !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewBinopExpr(BinopOr, left, right, p.spanFromTok(start))
	}
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		start := p.peek()
		if _, ok := p.match(KindAnd); !ok {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = NewBinopExpr(BinopAnd, left, right, p.spanFromTok(start))
	}
}

var comparisonOps = map[Kind]BinaryOp{
	KindEq: BinopEq, KindNe: BinopNe, KindLt: BinopLt,
	KindLe: BinopLe, KindGt: BinopGt, KindGe: BinopGe,
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for {
		start := p.peek()
		op, ok := comparisonOps[start.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = NewBinopExpr(op, left, right, p.spanFromTok(start))
	}
}

func (p *Parser) parseBitOr() (Expr, error) {
	return p.parseLeftAssoc(p.parseBitXor, map[Kind]BinaryOp{KindPipe: BinopBOr})
}

func (p *Parser) parseBitXor() (Expr, error) {
	return p.parseLeftAssoc(p.parseBitAnd, map[Kind]BinaryOp{KindTilde: BinopBXor})
}

func (p *Parser) parseBitAnd() (Expr, error) {
	return p.parseLeftAssoc(p.parseShift, map[Kind]BinaryOp{KindAmp: BinopBAnd})
}

func (p *Parser) parseShift() (Expr, error) {
	return p.parseLeftAssoc(p.parseConcat, map[Kind]BinaryOp{KindLShift: BinopShl, KindRShift: BinopShr})
}

// parseLeftAssoc factors the repeated "parse one level, then fold in
// same-precedence operators left to right" shape shared by every
// binary tier except `..` and `^`.
func (p *Parser) parseLeftAssoc(next func() (Expr, error), ops map[Kind]BinaryOp) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		start := p.peek()
		op, ok := ops[start.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = NewBinopExpr(op, left, right, p.spanFromTok(start))
	}
}

func (p *Parser) parseConcat() (Expr, error) {
	start := p.peek()
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !p.check(KindConcat) {
		return left, nil
	}
	operands := []Expr{left}
	for {
		if _, ok := p.match(KindConcat); !ok {
			break
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	return foldConcat(operands, p.spanFromTok(start)), nil
}

// foldConcat constant-folds any run of adjacent StringExpr operands
// into a single StringExpr, per §4.2.
func foldConcat(operands []Expr, span Span) Expr {
	folded := make([]Expr, 0, len(operands))
	for _, o := range operands {
		if s, ok := o.(*StringExpr); ok {
			if len(folded) > 0 {
				if prev, ok := folded[len(folded)-1].(*StringExpr); ok {
					folded[len(folded)-1] = NewStringExpr(prev.Value+s.Value, prev.Span())
					continue
				}
			}
		}
		folded = append(folded, o)
	}
	if len(folded) == 1 {
		return folded[0]
	}
	return NewConcatExpr(folded, span)
}

func (p *Parser) parseAdditive() (Expr, error) {
	return p.parseLeftAssoc(p.parseMultiplicative, map[Kind]BinaryOp{KindPlus: BinopAdd, KindMinus: BinopSub})
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	return p.parseLeftAssoc(p.parseUnary, map[Kind]BinaryOp{
		KindStar: BinopMul, KindSlash: BinopDiv, KindDSlash: BinopIDiv, KindPercent: BinopMod,
	})
}

var unaryOps = map[Kind]UnaryOp{
	KindNot: UnopNot, KindMinus: UnopNeg, KindHash: UnopLen, KindTilde: UnopBNot,
}

func (p *Parser) parseUnary() (Expr, error) {
	start := p.peek()
	if op, ok := unaryOps[start.Kind]; ok {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnopExpr(op, operand, p.spanFromTok(start)), nil
	}
	return p.parsePow()
}

func (p *Parser) parsePow() (Expr, error) {
	start := p.peek()
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(KindCaret); !ok {
		return left, nil
	}
	right, err := p.parseUnary() // right-associative, binds through unary
	if err != nil {
		return nil, err
	}
	return NewBinopExpr(BinopPow, left, right, p.spanFromTok(start)), nil
}

func (p *Parser) parseCast() (Expr, error) {
	start := p.peek()
	operand, err := p.parseSuffixedExpr()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(KindAs); !ok {
			return operand, nil
		}
		target, err := p.parseType()
		if err != nil {
			return nil, err
		}
		operand = NewCastExpr(operand, target, p.spanFromTok(start))
	}
}

// parseSuffixedExpr parses a primary expression followed by any chain
// of `.field`, `[index]`, `(args)`, and `:method(args)` suffixes. A
// `:` suffix desugars to a DotVar read plus the receiver reinserted as
// the call's first argument, matching Lua's own `:` sugar.
func (p *Parser) parseSuffixedExpr() (Expr, error) {
	start := p.peek()
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(KindDot):
			p.advance()
			fieldTok, err := p.expect(KindName, "ExpName", "DotSuffix")
			if err != nil {
				return nil, err
			}
			e = NewVarExpr(NewDotVar(e, fieldTok.StrValue, p.spanFromTok(start)), p.spanFromTok(start))

		case p.check(KindLBracket):
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(KindRBracket, "ExpRBracket", "BracketSuffix"); err != nil {
				return nil, err
			}
			e = NewVarExpr(NewBracketVar(e, index, p.spanFromTok(start)), p.spanFromTok(start))

		case p.check(KindLParen):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e = NewCallExpr(e, args, p.spanFromTok(start))

		case p.check(KindColon):
			p.advance()
			methodTok, err := p.expect(KindName, "ExpName", "MethodSuffix")
			if err != nil {
				return nil, err
			}
			recv := e
			method := NewVarExpr(NewDotVar(recv, methodTok.StrValue, p.spanFromTok(start)), p.spanFromTok(start))
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e = NewCallExpr(method, append([]Expr{recv}, args...), p.spanFromTok(start))

		default:
			return e, nil
		}
	}
}

func (p *Parser) parseArgs() ([]Expr, error) {
	if _, err := p.expect(KindLParen, "LParPList", "Args"); err != nil {
		return nil, err
	}
	if _, ok := p.match(KindRParen); ok {
		return nil, nil
	}
	args, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindRParen, "RParPList", "Args"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	start := p.peek()
	switch {
	case p.check(KindNil):
		p.advance()
		return NewNilExpr(p.spanFromTok(start)), nil
	case p.check(KindTrue):
		p.advance()
		return NewBoolExpr(true, p.spanFromTok(start)), nil
	case p.check(KindFalse):
		p.advance()
		return NewBoolExpr(false, p.spanFromTok(start)), nil
	case p.check(KindInt):
		p.advance()
		return NewIntegerExpr(start.IntValue, p.spanFromTok(start)), nil
	case p.check(KindFloat):
		p.advance()
		return NewFloatExpr(start.FloatValue, p.spanFromTok(start)), nil
	case p.check(KindString):
		p.advance()
		return NewStringExpr(start.StrValue, p.spanFromTok(start)), nil
	case p.check(KindName):
		p.advance()
		return NewVarExpr(NewNameVar(start.StrValue, p.spanFromTok(start)), p.spanFromTok(start)), nil
	case p.check(KindLParen):
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindRParen, "RParPList", "ParenExpr"); err != nil {
			return nil, err
		}
		if call, ok := inner.(*CallExpr); ok {
			return NewAdjustExpr(call, p.spanFromTok(start)), nil
		}
		return inner, nil
	case p.check(KindLBrace):
		return p.parseInitList(start)
	default:
		return nil, p.errAt("ExpExpr", fmt.Sprintf("expected an expression, found %s", start), "Primary")
	}
}

func (p *Parser) parseInitList(start Token) (Expr, error) {
	p.advance() // {
	var fields []InitField
	for !p.check(KindRBrace) {
		if len(fields) > 0 {
			if _, err := p.expect(KindComma, "ExpComma", "InitList"); err != nil {
				return nil, err
			}
			if p.check(KindRBrace) {
				break
			}
		}
		if p.check(KindName) && p.tokens[p.pos+1].Kind == KindAssign {
			nameTok := p.advance()
			p.advance() // =
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, InitField{Name: nameTok.StrValue, Value: value})
			continue
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, InitField{Value: value})
	}
	if _, err := p.expect(KindRBrace, "ExpRBrace", "InitList"); err != nil {
		return nil, err
	}
	return NewInitListExpr(fields, p.spanFromTok(start)), nil
}

// ---- Type syntax ----

func (p *Parser) parseTypeList() ([]TypeNode, error) {
	if _, ok := p.match(KindLParen); ok {
		var types []TypeNode
		for !p.check(KindRParen) {
			if len(types) > 0 {
				if _, err := p.expect(KindComma, "ExpComma", "TypeList"); err != nil {
					return nil, err
				}
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		if _, err := p.expect(KindRParen, "RParPList", "TypeList"); err != nil {
			return nil, err
		}
		return types, nil
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return []TypeNode{t}, nil
}

func (p *Parser) parseType() (TypeNode, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	for {
		start := p.peek()
		if _, ok := p.match(KindQuestion); ok {
			base = NewTypeOptionNode(base, p.spanFromTok(start))
			continue
		}
		if _, ok := p.match(KindArrow); ok {
			rets, err := p.parseTypeList()
			if err != nil {
				return nil, err
			}
			base = NewTypeFunctionNode([]TypeNode{base}, rets, p.spanFromTok(start))
			continue
		}
		return base, nil
	}
}

func (p *Parser) parseBaseType() (TypeNode, error) {
	start := p.peek()
	switch {
	case p.check(KindNil):
		p.advance()
		return NewTypeNilNode(p.spanFromTok(start)), nil
	case p.check(KindLBrace):
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindRBrace, "ExpRBrace", "TypeArray"); err != nil {
			return nil, err
		}
		return NewTypeArrayNode(elem, p.spanFromTok(start)), nil
	case p.check(KindLParen):
		params, err := p.parseTypeList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindArrow, "ExpArrow", "TypeFunction"); err != nil {
			return nil, err
		}
		rets, err := p.parseTypeList()
		if err != nil {
			return nil, err
		}
		return NewTypeFunctionNode(params, rets, p.spanFromTok(start)), nil
	case p.check(KindName):
		p.advance()
		switch start.StrValue {
		case "boolean":
			return NewTypeBooleanNode(p.spanFromTok(start)), nil
		case "integer":
			return NewTypeIntegerNode(p.spanFromTok(start)), nil
		case "float":
			return NewTypeFloatNode(p.spanFromTok(start)), nil
		case "string":
			return NewTypeStringNode(p.spanFromTok(start)), nil
		case "value":
			return NewTypeValueNode(p.spanFromTok(start)), nil
		}
		if _, ok := p.match(KindDot); ok {
			memberTok, err := p.expect(KindName, "ExpName", "TypeQualName")
			if err != nil {
				return nil, err
			}
			return NewTypeQualNameNode(start.StrValue, memberTok.StrValue, p.spanFromTok(start)), nil
		}
		return NewTypeNameNode(start.StrValue, p.spanFromTok(start)), nil
	default:
		return nil, p.errAt("ExpType", fmt.Sprintf("expected a type, found %s", start), "Type")
	}
}
