package duckdb

// windowFunctions are added to FunctionNames; duckdb_functions() does not
// report them.
var windowFunctions = []string{
	"cume_dist",
	"dense_rank",
	"first_value",
	"lag",
	"last_value",
	"lead",
	"nth_value",
	"ntile",
	"percent_rank",
	"rank",
	"row_number",
}

const functionsQuery = `SELECT DISTINCT function_name
FROM duckdb_functions()
WHERE function_type IN ('scalar', 'aggregate', 'macro', 'table', 'table_macro')
ORDER BY function_name`

const viewsQuery = `SELECT view_name FROM duckdb_views()
WHERE NOT internal`
