package wff

import (
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

// Compiler lowers formula trees into canonical token sequences for one
// build context.
type Compiler struct {
	skeleton *Skeleton
	lexicon  *symbols.Lexicon
}

func NewCompiler(sk *Skeleton, lex *symbols.Lexicon) *Compiler {
	return &Compiler{skeleton: sk, lexicon: lex}
}

func (c *Compiler) Skeleton() *Skeleton         { return c.skeleton }
func (c *Compiler) Lexicon() *symbols.Lexicon   { return c.lexicon }
func (c *Compiler) Interner() *symbols.Interner { return c.skeleton.Interner() }

// Compile lowers e to its prefix TokenSeq. Spellings resolve through the
// lexicon; variables must be declared schema variables and applications
// must match their connective's declared arity. Equal trees compiled in
// the same context always yield identical sequences.
func (c *Compiler) Compile(e Expr) (TokenSeq, error) {
	var seq TokenSeq
	if err := c.compileInto(e, &seq); err != nil {
		return nil, err
	}
	return seq, nil
}

func (c *Compiler) compileInto(e Expr, seq *TokenSeq) error {
	switch node := e.(type) {
	case Var:
		id, err := c.lexicon.Resolve(node.Name)
		if err != nil {
			return err
		}
		if _, ok := c.skeleton.VariableByID(id); !ok {
			return &CompileError{Kind: UnboundVariable, Variable: c.Interner().Name(id)}
		}
		*seq = append(*seq, id)
		return nil
	case Apply:
		id, err := c.lexicon.Resolve(node.Op)
		if err != nil {
			return err
		}
		conn, ok := c.skeleton.ConnectiveByID(id)
		if !ok {
			// a variable or typecode used in operator position
			return &CompileError{Kind: ArityMismatch, Op: c.Interner().Name(id), Want: 0, Got: len(node.Args)}
		}
		if len(node.Args) != conn.Arity {
			return &CompileError{Kind: ArityMismatch, Op: conn.Name, Want: conn.Arity, Got: len(node.Args)}
		}
		*seq = append(*seq, id)
		for _, arg := range node.Args {
			if err := c.compileInto(arg, seq); err != nil {
				return err
			}
		}
		return nil
	default:
		return &CompileError{Kind: UnboundVariable, Variable: e.String()}
	}
}

// CompileText parses formula text and compiles the resulting tree.
func (c *Compiler) CompileText(src string) (TokenSeq, error) {
	expr, err := Parse(src, c.skeleton, c.lexicon)
	if err != nil {
		return nil, err
	}
	return c.Compile(expr)
}
