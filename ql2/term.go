package ql2

import "strconv"

// TermType identifies the operation a Term performs.
type TermType uint16

const (
	DATUM        TermType = 1
	MAKE_ARRAY   TermType = 2
	MAKE_OBJ     TermType = 3
	VAR          TermType = 10
	JAVASCRIPT   TermType = 11
	ERROR        TermType = 12
	IMPLICIT_VAR TermType = 13
	DB           TermType = 14
	TABLE        TermType = 15
	GET          TermType = 16
	EQ           TermType = 17
	NE           TermType = 18
	LT           TermType = 19
	LE           TermType = 20
	GT           TermType = 21
	GE           TermType = 22
	NOT          TermType = 23
	ADD          TermType = 24
	SUB          TermType = 25
	MUL          TermType = 26
	DIV          TermType = 27
	MOD          TermType = 28
	APPEND       TermType = 29
	SLICE        TermType = 30
	GETATTR      TermType = 31
	CONTAINS     TermType = 32
	PLUCK        TermType = 33
	WITHOUT      TermType = 34
	MERGE        TermType = 35
	BETWEEN      TermType = 36
	REDUCE       TermType = 37
	MAP          TermType = 38
	FILTER       TermType = 39
	CONCATMAP    TermType = 40
	ORDERBY      TermType = 41
	DISTINCT     TermType = 42
	COUNT        TermType = 43
	UNION        TermType = 44
	NTH          TermType = 45
	INNER_JOIN   TermType = 48
	OUTER_JOIN   TermType = 49
	EQ_JOIN      TermType = 50
	COERCE_TO    TermType = 51
	TYPEOF       TermType = 52
	UPDATE       TermType = 53
	DELETE       TermType = 54
	REPLACE      TermType = 55
	INSERT       TermType = 56
	DB_CREATE    TermType = 57
	DB_DROP      TermType = 58
	DB_LIST      TermType = 59
	TABLE_CREATE TermType = 60
	TABLE_DROP   TermType = 61
	TABLE_LIST   TermType = 62
	FUNCALL      TermType = 64
	BRANCH       TermType = 65
	ANY          TermType = 66
	ALL          TermType = 67
	FOREACH      TermType = 68
	FUNC         TermType = 69
	SKIP         TermType = 70
	LIMIT        TermType = 71
	ZIP          TermType = 72
	ASC          TermType = 73
	DESC         TermType = 74
	JSON         TermType = 98
)

type termInfo struct {
	name   string
	method string
}

var termInfos = map[TermType]termInfo{
	DATUM:        {"DATUM", "expr"},
	MAKE_ARRAY:   {"MAKE_ARRAY", "expr"},
	MAKE_OBJ:     {"MAKE_OBJ", "expr"},
	VAR:          {"VAR", "var"},
	JAVASCRIPT:   {"JAVASCRIPT", "js"},
	ERROR:        {"ERROR", "error"},
	IMPLICIT_VAR: {"IMPLICIT_VAR", "row"},
	DB:           {"DB", "db"},
	TABLE:        {"TABLE", "table"},
	GET:          {"GET", "get"},
	EQ:           {"EQ", "eq"},
	NE:           {"NE", "ne"},
	LT:           {"LT", "lt"},
	LE:           {"LE", "le"},
	GT:           {"GT", "gt"},
	GE:           {"GE", "ge"},
	NOT:          {"NOT", "not"},
	ADD:          {"ADD", "add"},
	SUB:          {"SUB", "sub"},
	MUL:          {"MUL", "mul"},
	DIV:          {"DIV", "div"},
	MOD:          {"MOD", "mod"},
	APPEND:       {"APPEND", "append"},
	SLICE:        {"SLICE", "slice"},
	GETATTR:      {"GETATTR", "getattr"},
	CONTAINS:     {"CONTAINS", "contains"},
	PLUCK:        {"PLUCK", "pluck"},
	WITHOUT:      {"WITHOUT", "without"},
	MERGE:        {"MERGE", "merge"},
	BETWEEN:      {"BETWEEN", "between"},
	REDUCE:       {"REDUCE", "reduce"},
	MAP:          {"MAP", "map"},
	FILTER:       {"FILTER", "filter"},
	CONCATMAP:    {"CONCATMAP", "concat_map"},
	ORDERBY:      {"ORDERBY", "order_by"},
	DISTINCT:     {"DISTINCT", "distinct"},
	COUNT:        {"COUNT", "count"},
	UNION:        {"UNION", "union"},
	NTH:          {"NTH", "nth"},
	INNER_JOIN:   {"INNER_JOIN", "inner_join"},
	OUTER_JOIN:   {"OUTER_JOIN", "outer_join"},
	EQ_JOIN:      {"EQ_JOIN", "eq_join"},
	COERCE_TO:    {"COERCE_TO", "coerce_to"},
	TYPEOF:       {"TYPEOF", "typeof"},
	UPDATE:       {"UPDATE", "update"},
	DELETE:       {"DELETE", "delete"},
	REPLACE:      {"REPLACE", "replace"},
	INSERT:       {"INSERT", "insert"},
	DB_CREATE:    {"DB_CREATE", "db_create"},
	DB_DROP:      {"DB_DROP", "db_drop"},
	DB_LIST:      {"DB_LIST", "db_list"},
	TABLE_CREATE: {"TABLE_CREATE", "table_create"},
	TABLE_DROP:   {"TABLE_DROP", "table_drop"},
	TABLE_LIST:   {"TABLE_LIST", "table_list"},
	FUNCALL:      {"FUNCALL", "do"},
	BRANCH:       {"BRANCH", "branch"},
	ANY:          {"ANY", "any"},
	ALL:          {"ALL", "all"},
	FOREACH:      {"FOREACH", "for_each"},
	FUNC:         {"FUNC", "func"},
	SKIP:         {"SKIP", "skip"},
	LIMIT:        {"LIMIT", "limit"},
	ZIP:          {"ZIP", "zip"},
	ASC:          {"ASC", "asc"},
	DESC:         {"DESC", "desc"},
	JSON:         {"JSON", "json"},
}

func (t TermType) String() string {
	if info, ok := termInfos[t]; ok {
		return info.name
	}
	return "TermType(" + strconv.Itoa(int(t)) + ")"
}

// Method returns the query-language method name of t, as shown by the
// pretty-printer. Unknown types fall back to term_N.
func (t TermType) Method() string {
	if info, ok := termInfos[t]; ok {
		return info.method
	}
	return "term_" + strconv.Itoa(int(t))
}

// Term is one node of a query expression tree.
type Term struct {
	Datum   *Datum
	Args    []*Term
	OptArgs []TermPair
	Type    TermType
}

// TermPair is a named argument. Order is insertion order.
type TermPair struct {
	Val *Term
	Key string
}

// DatumTerm wraps d into a DATUM term.
func DatumTerm(d *Datum) *Term {
	return &Term{Type: DATUM, Datum: d}
}

// OptArg returns the named argument key, or nil when absent.
// When a key repeats, the first occurrence wins.
func (t *Term) OptArg(key string) *Term {
	for _, p := range t.OptArgs {
		if p.Key == key {
			return p.Val
		}
	}
	return nil
}

// Clone returns a deep copy of t. Mutating the copy never affects t.
func (t *Term) Clone() *Term {
	if t == nil {
		return nil
	}
	c := &Term{Type: t.Type, Datum: t.Datum.Clone()}
	if t.Args != nil {
		c.Args = make([]*Term, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	if t.OptArgs != nil {
		c.OptArgs = make([]TermPair, len(t.OptArgs))
		for i, p := range t.OptArgs {
			c.OptArgs[i] = TermPair{Key: p.Key, Val: p.Val.Clone()}
		}
	}
	return c
}
