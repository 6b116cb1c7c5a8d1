package query

import "strings"

// maxDepth bounds parenthesis nesting. Deeper '(' tokens are ignored.
const maxDepth = 64

// Parse parses a query into a ParsedQuery. It never fails: malformed input
// degrades to the expression that can be recovered from it.
func Parse(input string) ParsedQuery {
	out := ParsedQuery{
		Terms:       []string{},
		Fields:      []FieldFilter{},
		DateFilters: []DateFilter{},
		FuzzyTerms:  []string{},
	}
	if strings.TrimSpace(input) == "" {
		return out
	}

	tokens := Tokenize(input)
	for _, tok := range tokens {
		if tok.Kind != TokTerm && tok.Kind != TokEOF {
			out.HasAdvancedSyntax = true
			break
		}
	}

	p := &parser{tokens: tokens, pos: 0, out: &out, seen: map[string]bool{}}
	out.AST = p.parseQuery()
	return out
}

type parser struct {
	tokens []Token
	pos    int
	depth  int
	out    *ParsedQuery
	seen   map[string]bool
}

// parseQuery parses expressions until EOF, skipping stray ')' and joining
// the pieces with AND.
func (p *parser) parseQuery() Node {
	var root Node
	for !p.match(TokEOF) {
		before := p.pos
		root = join(NodeAnd, root, p.parseOr())
		if p.match(TokRParen) || p.pos == before {
			p.advance()
		}
	}
	return root
}

func (p *parser) parseOr() Node {
	left := p.parseAnd()

	for p.match(TokOr) {
		p.advance()
		left = join(NodeOr, left, p.parseAnd())
	}

	return left
}

func (p *parser) parseAnd() Node {
	left := p.parseNot()

	for {
		switch {
		case p.match(TokAnd):
			p.advance()
		case p.current().Kind.startsOperand():
			// implicit AND
		default:
			return left
		}
		left = join(NodeAnd, left, p.parseNot())
	}
}

func (p *parser) parseNot() Node {
	negations := 0
	for p.match(TokNot) {
		p.advance()
		negations++
	}

	node := p.parseAtom()
	if node == nil {
		return nil
	}
	for range negations {
		node = Not{Child: node}
	}
	return node
}

func (p *parser) parseAtom() Node {
	tok := p.current()
	switch tok.Kind {
	case TokLParen:
		p.advance()
		if p.depth >= maxDepth {
			for p.match(TokLParen) {
				p.advance()
			}
			return p.parseAtom()
		}
		p.depth++
		node := p.parseOr()
		p.depth--
		if p.match(TokRParen) {
			p.advance()
		}
		return node

	case TokTerm:
		p.advance()
		p.addTerm(tok.Value)
		return Term{Value: tok.Value}

	case TokPhrase:
		p.advance()
		p.addTerm(tok.Value)
		return Phrase{Value: tok.Value}

	case TokField:
		p.advance()
		filter, date := classifyField(tok.Value)
		if date != nil {
			p.out.DateFilters = append(p.out.DateFilters, *date)
		} else {
			p.out.Fields = append(p.out.Fields, *filter)
		}
		return Field{Value: tok.Value, Filter: filter, Date: date}

	case TokFuzzy:
		p.advance()
		p.out.FuzzyTerms = append(p.out.FuzzyTerms, tok.Value)
		return Fuzzy{Value: tok.Value}
	}

	// AND, OR, ')' and EOF cannot start an atom; leave them for the caller.
	return nil
}

func (p *parser) addTerm(value string) {
	if p.seen[value] {
		return
	}
	p.seen[value] = true
	p.out.Terms = append(p.out.Terms, value)
}

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: TokEOF}
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) match(kind TokenKind) bool {
	return p.current().Kind == kind
}

// join combines two operands, dropping whichever side is missing.
func join(op NodeType, left, right Node) Node {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	case op == NodeOr:
		return Or{Left: left, Right: right}
	default:
		return And{Left: left, Right: right}
	}
}
