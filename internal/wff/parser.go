package wff

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

// Parse reads the parenthesized infix notation into a formula tree.
// Spellings resolve through the lexicon as they are read, so the returned
// tree carries canonical names and the resolution log gains every spelling
// the text used. Unary connectives are prefix ("-. ph"); binary
// applications are fully parenthesized except at the outermost level
// ("ph -> ( ps -> ph )").
func Parse(src string, sk *Skeleton, lex *symbols.Lexicon) (Expr, error) {
	p := &parser{
		tokens:   NewLexer(src).Tokenize(),
		skeleton: sk,
		lexicon:  lex,
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		if tok.Type == TokenSymbol {
			if class, _, cerr := p.classify(tok); cerr == nil && class == classBinary {
				return nil, &ParseError{
					Line: tok.Line, Col: tok.Col,
					Msg: fmt.Sprintf("unexpected %q: nested applications must be parenthesized", tok.Value),
				}
			}
		}
		return nil, p.unexpected(tok)
	}
	return expr, nil
}

type parser struct {
	tokens   []Token
	pos      int
	skeleton *Skeleton
	lexicon  *symbols.Lexicon
}

type symbolClass int

const (
	classVariable symbolClass = iota
	classUnary
	classBinary
	classOther
)

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// parseExpr parses an operand optionally followed by one binary
// application. A second connective at the same level is rejected; nesting
// requires parentheses.
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Type != TokenSymbol {
		return left, nil
	}
	class, name, err := p.classify(tok)
	if err != nil {
		return nil, err
	}
	if class != classBinary {
		return left, nil
	}
	p.next()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return App(name, left, right), nil
}

func (p *parser) parseOperand() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenLParen:
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.Type != TokenRParen {
			return nil, p.unexpected(closing)
		}
		return expr, nil
	case TokenSymbol:
		class, name, err := p.classify(tok)
		if err != nil {
			return nil, err
		}
		switch class {
		case classVariable:
			p.next()
			return V(name), nil
		case classUnary:
			p.next()
			arg, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			return App(name, arg), nil
		case classBinary:
			return nil, &ParseError{
				Line: tok.Line, Col: tok.Col,
				Msg: fmt.Sprintf("connective %q needs a left operand", tok.Value),
			}
		default:
			return nil, &ParseError{
				Line: tok.Line, Col: tok.Col,
				Msg: fmt.Sprintf("symbol %q cannot start an operand", tok.Value),
			}
		}
	case TokenRParen:
		return nil, p.unexpected(tok)
	default:
		return nil, &ParseError{Line: tok.Line, Col: tok.Col, Msg: "unexpected end of formula"}
	}
}

// classify resolves a symbol token and reports how the grammar may use
// it. Resolution failures (unknown spellings) propagate unchanged.
func (p *parser) classify(tok Token) (symbolClass, string, error) {
	id, err := p.lexicon.Resolve(tok.Value)
	if err != nil {
		return classOther, "", err
	}
	if conn, ok := p.skeleton.ConnectiveByID(id); ok {
		switch conn.Arity {
		case 1:
			return classUnary, conn.Name, nil
		case 2:
			return classBinary, conn.Name, nil
		default:
			return classOther, "", &ParseError{
				Line: tok.Line, Col: tok.Col,
				Msg: fmt.Sprintf("connective %q with arity %d has no infix form", conn.Name, conn.Arity),
			}
		}
	}
	if decl, ok := p.skeleton.VariableByID(id); ok {
		return classVariable, decl.Name, nil
	}
	return classOther, p.skeleton.Interner().Name(id), nil
}

func (p *parser) unexpected(tok Token) *ParseError {
	if tok.Type == TokenEOF {
		return &ParseError{Line: tok.Line, Col: tok.Col, Msg: "unexpected end of formula"}
	}
	return &ParseError{
		Line: tok.Line, Col: tok.Col,
		Msg: fmt.Sprintf("unexpected %q", tok.Value),
	}
}
