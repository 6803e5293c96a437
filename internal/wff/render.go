package wff

import "fmt"

// RenderInfix decodes a prefix token sequence back into the display
// notation authored content uses.
func (s *Skeleton) RenderInfix(seq TokenSeq) (string, error) {
	text, next, err := s.renderAt(seq, 0)
	if err != nil {
		return "", err
	}
	if next != len(seq) {
		return "", fmt.Errorf("render: %d trailing tokens after a complete formula", len(seq)-next)
	}
	return text, nil
}

func (s *Skeleton) renderAt(seq TokenSeq, pos int) (string, int, error) {
	if pos >= len(seq) {
		return "", 0, fmt.Errorf("render: truncated token sequence")
	}
	id := seq[pos]
	if decl, ok := s.byIDVar[id]; ok {
		return decl.Name, pos + 1, nil
	}
	conn, ok := s.byIDConn[id]
	if !ok {
		return "", 0, fmt.Errorf("render: token %d (%s) is neither variable nor connective", pos, s.interner.Name(id))
	}
	args := make([]string, 0, conn.Arity)
	next := pos + 1
	for i := 0; i < conn.Arity; i++ {
		text, n, err := s.renderAt(seq, next)
		if err != nil {
			return "", 0, err
		}
		args = append(args, text)
		next = n
	}
	switch conn.Arity {
	case 1:
		return conn.Name + " " + args[0], next, nil
	case 2:
		return "( " + args[0] + " " + conn.Name + " " + args[1] + " )", next, nil
	default:
		text := "( " + conn.Name
		for _, a := range args {
			text += " " + a
		}
		return text + " )", next, nil
	}
}
