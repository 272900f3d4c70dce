package duckdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Option keys understood by the DuckDB adapter.
const (
	// OptionExtensions is a comma separated list of extensions to install
	// and load, e.g. "httpfs,json".
	OptionExtensions = "extensions"

	// OptionSettingPrefix marks session settings: "set.threads" = "4"
	// becomes SET threads = '4'.
	OptionSettingPrefix = "set."
)

// Params holds DuckDB session configuration parsed from adapter options.
type Params struct {
	// Extensions to install and load (e.g., "httpfs", "spatial", "json")
	Extensions []string

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string
}

// ParseParams extracts DuckDB parameters from adapter options.
func ParseParams(opts map[string]string) Params {
	var p Params
	if raw, ok := opts[OptionExtensions]; ok {
		p.Extensions = lo.Uniq(lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
			return strings.ToLower(strings.TrimSpace(s))
		})))
	}
	for k, v := range opts {
		name, ok := strings.CutPrefix(k, OptionSettingPrefix)
		if !ok || name == "" {
			continue
		}
		if p.Settings == nil {
			p.Settings = make(map[string]string)
		}
		p.Settings[name] = v
	}
	return p
}

// Statements returns the session statements that apply p, extensions
// first and settings in name order.
func (p Params) Statements() []string {
	var stmts []string
	for _, ext := range p.Extensions {
		stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
	}
	names := lo.Keys(p.Settings)
	sort.Strings(names)
	for _, name := range names {
		value := strings.ReplaceAll(p.Settings[name], "'", "''")
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", name, value))
	}
	return stmts
}
