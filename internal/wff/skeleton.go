package wff

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

// Connective is one declared formula constructor.
type Connective struct {
	// Label names the syntax rule emitted for the connective ("wi", "wn").
	Label string
	Name  string
	ID    symbols.ID
	Arity int
}

// VarDecl is one declared schema variable with its typecode.
type VarDecl struct {
	Name     string
	ID       symbols.ID
	Typecode string
}

// Skeleton is the language declaration of a build context: the typecode,
// the connective table, the schema variables, and the implication
// connective that proof composition decomposes.
type Skeleton struct {
	interner *symbols.Interner

	typecode   string
	typecodeID symbols.ID

	connectives map[string]Connective
	connOrder   []string
	byIDConn    map[symbols.ID]Connective

	vars     map[string]VarDecl
	varOrder []string
	byIDVar  map[symbols.ID]VarDecl

	implication string
}

// NewSkeleton starts a skeleton for the given typecode constant, interning
// it into the context.
func NewSkeleton(in *symbols.Interner, typecode string) (*Skeleton, error) {
	id, err := in.Intern(typecode, symbols.KindConstant)
	if err != nil {
		return nil, fmt.Errorf("declare typecode: %w", err)
	}
	return &Skeleton{
		interner:    in,
		typecode:    typecode,
		typecodeID:  id,
		connectives: make(map[string]Connective),
		byIDConn:    make(map[symbols.ID]Connective),
		vars:        make(map[string]VarDecl),
		byIDVar:     make(map[symbols.ID]VarDecl),
	}, nil
}

// DeclareConnective registers a constructor with its arity and the label
// its syntax rule will carry.
func (s *Skeleton) DeclareConnective(label, name string, arity int) error {
	if _, ok := s.connectives[name]; ok {
		return fmt.Errorf("connective %q declared twice", name)
	}
	if arity < 1 {
		return fmt.Errorf("connective %q: arity must be positive, got %d", name, arity)
	}
	id, err := s.interner.Intern(name, symbols.KindConstant)
	if err != nil {
		return err
	}
	conn := Connective{Label: label, Name: name, ID: id, Arity: arity}
	s.connectives[name] = conn
	s.byIDConn[id] = conn
	s.connOrder = append(s.connOrder, name)
	return nil
}

// DeclareVariable registers a schema variable under the skeleton typecode.
func (s *Skeleton) DeclareVariable(name string) error {
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("variable %q declared twice", name)
	}
	id, err := s.interner.Intern(name, symbols.KindVariable)
	if err != nil {
		return err
	}
	decl := VarDecl{Name: name, ID: id, Typecode: s.typecode}
	s.vars[name] = decl
	s.byIDVar[id] = decl
	s.varOrder = append(s.varOrder, name)
	return nil
}

// SetImplication designates the binary connective Compose steps decompose.
func (s *Skeleton) SetImplication(name string) error {
	conn, ok := s.connectives[name]
	if !ok {
		return fmt.Errorf("implication %q is not a declared connective", name)
	}
	if conn.Arity != 2 {
		return fmt.Errorf("implication %q must be binary, has arity %d", name, conn.Arity)
	}
	s.implication = name
	return nil
}

func (s *Skeleton) Typecode() string            { return s.typecode }
func (s *Skeleton) TypecodeID() symbols.ID      { return s.typecodeID }
func (s *Skeleton) Interner() *symbols.Interner { return s.interner }

// Implication returns the designated implication connective.
func (s *Skeleton) Implication() (Connective, bool) {
	if s.implication == "" {
		return Connective{}, false
	}
	conn, ok := s.connectives[s.implication]
	return conn, ok
}

func (s *Skeleton) Connective(name string) (Connective, bool) {
	conn, ok := s.connectives[name]
	return conn, ok
}

func (s *Skeleton) ConnectiveByID(id symbols.ID) (Connective, bool) {
	conn, ok := s.byIDConn[id]
	return conn, ok
}

func (s *Skeleton) Variable(name string) (VarDecl, bool) {
	decl, ok := s.vars[name]
	return decl, ok
}

func (s *Skeleton) VariableByID(id symbols.ID) (VarDecl, bool) {
	decl, ok := s.byIDVar[id]
	return decl, ok
}

// Connectives lists the constructor table in declaration order.
func (s *Skeleton) Connectives() []Connective {
	out := make([]Connective, 0, len(s.connOrder))
	for _, name := range s.connOrder {
		out = append(out, s.connectives[name])
	}
	return out
}

// Variables lists the schema variables in declaration order.
func (s *Skeleton) Variables() []VarDecl {
	out := make([]VarDecl, 0, len(s.varOrder))
	for _, name := range s.varOrder {
		out = append(out, s.vars[name])
	}
	return out
}

// Subterms decodes the head application of a prefix token sequence,
// returning the connective and the operand subsequences. ok is false when
// the sequence is not a well-formed application over this skeleton.
func (s *Skeleton) Subterms(seq TokenSeq) (Connective, []TokenSeq, bool) {
	if len(seq) == 0 {
		return Connective{}, nil, false
	}
	conn, ok := s.byIDConn[seq[0]]
	if !ok {
		return Connective{}, nil, false
	}
	args := make([]TokenSeq, 0, conn.Arity)
	pos := 1
	for i := 0; i < conn.Arity; i++ {
		end, ok := s.termEnd(seq, pos)
		if !ok {
			return Connective{}, nil, false
		}
		args = append(args, seq[pos:end])
		pos = end
	}
	if pos != len(seq) {
		return Connective{}, nil, false
	}
	return conn, args, true
}

// termEnd finds the end of the prefix-encoded subterm starting at pos.
func (s *Skeleton) termEnd(seq TokenSeq, pos int) (int, bool) {
	if pos >= len(seq) {
		return 0, false
	}
	if conn, ok := s.byIDConn[seq[pos]]; ok {
		end := pos + 1
		for i := 0; i < conn.Arity; i++ {
			next, ok := s.termEnd(seq, end)
			if !ok {
				return 0, false
			}
			end = next
		}
		return end, true
	}
	if _, ok := s.byIDVar[seq[pos]]; ok {
		return pos + 1, true
	}
	return 0, false
}
