package query

import "strings"

// NodeType discriminates AST nodes
type NodeType string

const (
	NodeAnd    NodeType = "AND"
	NodeOr     NodeType = "OR"
	NodeNot    NodeType = "NOT"
	NodeTerm   NodeType = "TERM"
	NodePhrase NodeType = "PHRASE"
	NodeField  NodeType = "FIELD"
	NodeFuzzy  NodeType = "FUZZY"
)

// Node is a boolean query expression. The concrete types are And, Or, Not,
// Term, Phrase, Field and Fuzzy.
type Node interface {
	Type() NodeType
	String() string
}

// And represents a boolean AND of two expressions
type And struct {
	Left  Node
	Right Node
}

func (And) Type() NodeType { return NodeAnd }

func (n And) String() string { return render(n) }

// Or represents a boolean OR of two expressions
type Or struct {
	Left  Node
	Right Node
}

func (Or) Type() NodeType { return NodeOr }

func (n Or) String() string { return render(n) }

// Not represents a boolean NOT of an expression
type Not struct {
	Child Node
}

func (Not) Type() NodeType { return NodeNot }

func (n Not) String() string { return render(n) }

// Term is a bare word
type Term struct {
	Value string
}

func (Term) Type() NodeType { return NodeTerm }

func (n Term) String() string { return n.Value }

// Phrase is a quoted run of text
type Phrase struct {
	Value string
}

func (Phrase) Type() NodeType { return NodePhrase }

func (n Phrase) String() string { return `"` + n.Value + `"` }

// Field is a field:value leaf. Exactly one of Filter or Date is set.
type Field struct {
	Value  string
	Filter *FieldFilter
	Date   *DateFilter
}

func (Field) Type() NodeType { return NodeField }

func (n Field) String() string { return n.Value }

// Fuzzy is a term marked for typo-tolerant matching
type Fuzzy struct {
	Value string
}

func (Fuzzy) Type() NodeType { return NodeFuzzy }

func (n Fuzzy) String() string { return n.Value + "~" }

// render writes n into a single builder so long chains stay linear.
func render(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	for {
		not, ok := n.(Not)
		if !ok {
			break
		}
		b.WriteString("NOT ")
		n = not.Child
	}
	switch n := n.(type) {
	case And:
		b.WriteByte('(')
		writeNode(b, n.Left)
		b.WriteString(" AND ")
		writeNode(b, n.Right)
		b.WriteByte(')')
	case Or:
		b.WriteByte('(')
		writeNode(b, n.Left)
		b.WriteString(" OR ")
		writeNode(b, n.Right)
		b.WriteByte(')')
	case nil:
	default:
		b.WriteString(n.String())
	}
}

// FieldFilter restricts results to documents whose field matches value.
type FieldFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Exact bool   `json:"exact"`
}

// DateOp is a date comparison operator
type DateOp string

const (
	DateAfter  DateOp = ">"
	DateBefore DateOp = "<"
	DateRange  DateOp = "range"
)

// DateFilter compares a date field. EndValue is only set for DateRange.
type DateFilter struct {
	Field    string `json:"field"`
	Operator DateOp `json:"operator"`
	Value    string `json:"value"`
	EndValue string `json:"endValue,omitempty"`
}

// ParsedQuery is the result of Parse. AST is nil only when the query carries
// no usable expression.
type ParsedQuery struct {
	Terms             []string      `json:"terms"`
	Fields            []FieldFilter `json:"fields"`
	DateFilters       []DateFilter  `json:"dateFilters"`
	FuzzyTerms        []string      `json:"fuzzyTerms"`
	AST               Node          `json:"-"`
	HasAdvancedSyntax bool          `json:"hasAdvancedSyntax"`
}

// Expression renders the AST in fully parenthesized form, or "" when empty.
func (q ParsedQuery) Expression() string {
	if q.AST == nil {
		return ""
	}
	return q.AST.String()
}

// dateFields lists the fields whose comparison values are parsed as dates.
var dateFields = map[string]bool{
	"created":   true,
	"updated":   true,
	"completed": true,
	"due":       true,
}

// classifyField splits a field:value token into a date or exact filter.
func classifyField(raw string) (*FieldFilter, *DateFilter) {
	name, value, _ := strings.Cut(raw, ":")
	if dateFields[strings.ToLower(name)] {
		switch {
		case strings.HasPrefix(value, ">") && len(value) > 1:
			return nil, &DateFilter{Field: name, Operator: DateAfter, Value: value[1:]}
		case strings.HasPrefix(value, "<") && len(value) > 1:
			return nil, &DateFilter{Field: name, Operator: DateBefore, Value: value[1:]}
		}
		if lo, hi, found := strings.Cut(value, ".."); found && lo != "" && hi != "" {
			return nil, &DateFilter{Field: name, Operator: DateRange, Value: lo, EndValue: hi}
		}
	}
	return &FieldFilter{Field: name, Value: value, Exact: true}, nil
}
