package company

import (
	"fmt"
	"strings"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
)

// taxRankExpr is the ranking key: the tax figure for the most recent
// fiscal year with data. Sorting this typed numeric expression (never a
// textual proxy) with NULLS LAST puts companies without tax data after
// every company that has any.
const taxRankExpr = "COALESCE(tax_2025, tax_2024, tax_2023, tax_2022, tax_2021, tax_2020)"

const selectColumns = "bin, name, oked, activity, kato, locality, krp, size, " +
	"contacts, website, " +
	"tax_2020, tax_2021, tax_2022, tax_2023, tax_2024, tax_2025, last_tax_update"

// Query is an executable statement with positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// BuildSearch compiles criteria into a page query and a count query.
// Both share the exact same WHERE clause so the total can never
// disagree with the page set.
//
// Predicates:
//   - location: exact-or-prefix equality on the normalized locality
//     column (btree, text_pattern_ops);
//   - freeText: tsquery match against the precomputed search vector
//     (GIN) — never ILIKE, which degrades linearly with table size;
//   - both present: AND. Broader matching is the caller's problem.
//
// Ordering: most-recent tax figure descending with nulls last, then
// name ascending, then bin ascending. The trailing keys make paging
// deterministic: without them, rows with equal or null tax values
// would shuffle between pages with physical storage order.
func BuildSearch(c criteria.Criteria) (pageQ, countQ Query) {
	var where []string
	var args []any

	if loc := c.Location(); loc != "" {
		args = append(args, loc)
		n := len(args)
		where = append(where, fmt.Sprintf("(locality = $%d OR locality LIKE $%d || '%%')", n, n))
	}
	if q := c.FreeText(); q != "" {
		args = append(args, q)
		where = append(where, fmt.Sprintf("search_vec @@ websearch_to_tsquery('simple', $%d)", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	countQ = Query{
		SQL:  "SELECT count(*) FROM companies" + whereClause,
		Args: args,
	}

	pageArgs := make([]any, len(args), len(args)+2)
	copy(pageArgs, args)
	pageArgs = append(pageArgs, c.PageSize(), c.Offset())

	pageQ = Query{
		SQL: "SELECT " + selectColumns + " FROM companies" + whereClause +
			" ORDER BY " + taxRankExpr + " DESC NULLS LAST, name ASC, bin ASC" +
			fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2),
		Args: pageArgs,
	}
	return pageQ, countQ
}

// BuildGetByBIN compiles the point lookup.
func BuildGetByBIN(bin string) Query {
	return Query{
		SQL:  "SELECT " + selectColumns + " FROM companies WHERE bin = $1",
		Args: []any{bin},
	}
}

// BuildLocations compiles the locality listing with per-locality counts.
func BuildLocations() Query {
	return Query{
		SQL: "SELECT locality, count(*) FROM companies WHERE locality <> ''" +
			" GROUP BY locality ORDER BY count(*) DESC, locality ASC",
	}
}
