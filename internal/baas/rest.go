package baas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Tables is row-level CRUD against the BaaS relational store.
type Tables interface {
	Select(ctx context.Context, table string, q Query, out any) error
	Insert(ctx context.Context, table string, row any, out any) error
	Update(ctx context.Context, table string, q Query, patch any, out any) error
	Delete(ctx context.Context, table string, q Query) error
}

// Op is a PostgREST filter operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

// Filter restricts rows by column.
type Filter struct {
	Column string
	Op     Op
	Value  string
}

// Eq matches rows where column equals value.
func Eq(column, value string) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

// Gt matches rows where column is greater than value.
func Gt(column, value string) Filter { return Filter{Column: column, Op: OpGt, Value: value} }

// Gte matches rows where column is greater than or equal to value.
func Gte(column, value string) Filter { return Filter{Column: column, Op: OpGte, Value: value} }

// In matches rows where column is one of values.
func In(column string, values ...string) Filter {
	return Filter{Column: column, Op: OpIn, Value: strings.Join(values, ",")}
}

// Order sorts rows by column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a select/update/delete target.
type Query struct {
	Columns string
	Filters []Filter
	Order   []Order
	Limit   int
}

// Where returns a Query with the given filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

// Newest orders by created_at descending.
func (q Query) Newest() Query {
	q.Order = append(q.Order, Order{Column: "created_at", Desc: true})
	return q
}

// WithLimit caps the number of rows.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Encode renders q as a PostgREST query string.
func (q Query) Encode(includeSelect bool) string {
	values := url.Values{}
	if includeSelect {
		cols := q.Columns
		if cols == "" {
			cols = "*"
		}
		values.Set("select", cols)
	}
	for _, f := range q.Filters {
		value := f.Value
		if f.Op == OpIn {
			value = "(" + value + ")"
		}
		values.Add(f.Column, string(f.Op)+"."+value)
	}
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		values.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values.Encode()
}

func tablePath(table, query string) string {
	path := "/rest/v1/" + url.PathEscape(table)
	if query != "" {
		path += "?" + query
	}
	return path
}

// Select reads rows into out, which must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   tablePath(table, q.Encode(true)),
		bearer: c.bearerFor(ctx),
	}, out)
}

// Insert writes row and decodes the stored representation into out.
func (c *Client) Insert(ctx context.Context, table string, row any, out any) error {
	return c.do(ctx, request{
		method:  http.MethodPost,
		path:    tablePath(table, ""),
		body:    row,
		bearer:  c.bearerFor(ctx),
		headers: map[string]string{"Prefer": "return=representation"},
	}, out)
}

// Update patches every row matched by q.
func (c *Client) Update(ctx context.Context, table string, q Query, patch any, out any) error {
	if len(q.Filters) == 0 {
		return fmt.Errorf("baas update %s: refusing unfiltered update", table)
	}
	return c.do(ctx, request{
		method:  http.MethodPatch,
		path:    tablePath(table, q.Encode(false)),
		body:    patch,
		bearer:  c.bearerFor(ctx),
		headers: map[string]string{"Prefer": "return=representation"},
	}, out)
}

// Delete removes every row matched by q.
func (c *Client) Delete(ctx context.Context, table string, q Query) error {
	if len(q.Filters) == 0 {
		return fmt.Errorf("baas delete %s: refusing unfiltered delete", table)
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   tablePath(table, q.Encode(false)),
		bearer: c.bearerFor(ctx),
	}, nil)
}

var _ Tables = (*Client)(nil)
