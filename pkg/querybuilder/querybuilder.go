// Package querybuilder translates filter, sort and page parameters into query fragments.
//
// Every function is pure: the same input always yields the same output and nothing
// touches a database. A Cond can be rendered to parameterized PostgreSQL (Cond.SQL)
// or evaluated against an in-memory record (Cond.Match).
package querybuilder

import (
	"fmt"
	"sort"
	"strings"
)

// Default pagination values. Pages past MaxPage are clamped to it.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPage      = 100000
	MaxLimit     = 100
)

// ── Pagination ────────────────────────────────────────────────────────────────

// Page is a skip/take window.
type Page struct {
	Skip int
	Take int
}

// Paginate returns skip=(page-1)*limit, take=limit. Non-positive page or limit fall back to 1 and 10;
// page is capped at MaxPage and limit at MaxLimit, so Skip never overflows.
func Paginate(page, limit int) Page {
	if page <= 0 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Skip: (page - 1) * limit, Take: limit}
}

// TotalPages is ceil(total/limit); 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Slice applies p to items in memory.
func Slice[T any](items []T, p Page) []T {
	skip := max(p.Skip, 0)
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Take > 0 && p.Take < end-skip {
		end = skip + p.Take
	}
	return items[skip:end]
}

// ── Sorting ───────────────────────────────────────────────────────────────────

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder maps "asc"/"desc" (any case) to an Order, defaulting to Asc.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// OrderBy is a single-field ordering. The zero value means "no ordering".
type OrderBy struct {
	Field string
	Order Order
}

// Sort returns an empty OrderBy when field is absent, otherwise an ordering on field.
func Sort(field string, order Order) OrderBy {
	if field == "" {
		return OrderBy{}
	}
	if order != Desc {
		order = Asc
	}
	return OrderBy{Field: field, Order: order}
}

// IsZero reports whether no ordering was requested.
func (o OrderBy) IsZero() bool { return o.Field == "" }

// SQL renders " ORDER BY <column> ASC|DESC" when Field maps to a whitelisted column.
// The boolean is false when the field is not a column (e.g. a derived value sorted in memory).
func (o OrderBy) SQL(columns map[string]string) (string, bool) {
	if o.IsZero() {
		return "", false
	}
	col, ok := columns[o.Field]
	if !ok {
		return "", false
	}
	return " ORDER BY " + col + " " + strings.ToUpper(string(o.Order)), true
}

// ── Conditions ────────────────────────────────────────────────────────────────

type op int

const (
	opNone op = iota
	opContains
	opEqual
	opAnd
	opOr
)

// Cond is a where-clause tree. The zero value is the empty (always-true) condition.
type Cond struct {
	op       op
	field    string
	value    any
	children []Cond
}

// IsEmpty reports whether c imposes no restriction.
func (c Cond) IsEmpty() bool { return c.op == opNone }

// Contains is a case-insensitive substring match. An empty value yields the empty condition.
func Contains(field, value string) Cond {
	if value == "" {
		return Cond{}
	}
	return Cond{op: opContains, field: field, value: value}
}

// Equal is an exact match. A nil, empty-string or zero-int value yields the empty condition.
func Equal(field string, value any) Cond {
	switch v := value.(type) {
	case nil:
		return Cond{}
	case string:
		if v == "" {
			return Cond{}
		}
	case int:
		if v == 0 {
			return Cond{}
		}
	}
	return Cond{op: opEqual, field: field, value: value}
}

// And combines clauses conjunctively: empty clauses are dropped, a single survivor is
// returned unwrapped and no survivors yield the empty condition.
func And(clauses ...Cond) Cond { return combine(opAnd, clauses) }

// Or combines clauses disjunctively with the same dropping rules as And.
func Or(clauses ...Cond) Cond { return combine(opOr, clauses) }

func combine(kind op, clauses []Cond) Cond {
	valid := make([]Cond, 0, len(clauses))
	for _, c := range clauses {
		if !c.IsEmpty() {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return Cond{}
	case 1:
		return valid[0]
	}
	return Cond{op: kind, children: valid}
}

// WhereFromFilters builds the conjunction of substring matches for text and exact matches
// for exact. Keys are processed in sorted order so the output is deterministic; absent or
// empty values contribute nothing.
func WhereFromFilters(text map[string]string, exact map[string]any) Cond {
	clauses := make([]Cond, 0, len(text)+len(exact))
	for _, k := range sortedKeys(text) {
		clauses = append(clauses, Contains(k, text[k]))
	}
	for _, k := range sortedKeys(exact) {
		clauses = append(clauses, Equal(k, exact[k]))
	}
	return And(clauses...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SQL renders c as a PostgreSQL boolean expression with $n placeholders numbered from
// argOffset+1. Field names are translated through columns; an unknown field is an error.
// The empty condition renders as "TRUE".
func (c Cond) SQL(columns map[string]string, argOffset int) (string, []any, error) {
	var args []any
	sql, err := c.render(columns, argOffset, &args)
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

func (c Cond) render(columns map[string]string, offset int, args *[]any) (string, error) {
	switch c.op {
	case opNone:
		return "TRUE", nil
	case opContains, opEqual:
		col, ok := columns[c.field]
		if !ok {
			return "", fmt.Errorf("querybuilder: unknown field %q", c.field)
		}
		if c.op == opContains {
			*args = append(*args, "%"+escapeLike(fmt.Sprint(c.value))+"%")
			return fmt.Sprintf("%s ILIKE $%d", col, offset+len(*args)), nil
		}
		*args = append(*args, c.value)
		return fmt.Sprintf("%s = $%d", col, offset+len(*args)), nil
	}
	sep := " AND "
	if c.op == opOr {
		sep = " OR "
	}
	parts := make([]string, 0, len(c.children))
	for _, child := range c.children {
		s, err := child.render(columns, offset, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// escapeLike neutralizes LIKE wildcards so user input only matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Match evaluates c against a record whose fields are read through get.
func (c Cond) Match(get func(field string) any) bool {
	switch c.op {
	case opNone:
		return true
	case opContains:
		s, ok := get(c.field).(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(c.value)))
	case opEqual:
		return fmt.Sprint(get(c.field)) == fmt.Sprint(c.value)
	case opAnd:
		for _, child := range c.children {
			if !child.Match(get) {
				return false
			}
		}
		return true
	case opOr:
		for _, child := range c.children {
			if child.Match(get) {
				return true
			}
		}
		return false
	}
	return false
}
