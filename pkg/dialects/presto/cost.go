package presto

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// EstimateStatementCost runs EXPLAIN (TYPE IO, FORMAT JSON) for a single
// statement and decodes the plan.
func EstimateStatementCost(ctx context.Context, conn core.Connection, statement string) (map[string]any, error) {
	res, err := conn.Query(ctx, "EXPLAIN (TYPE IO, FORMAT JSON) "+statement)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate cost: %w", err)
	}
	if res.Empty() || len(res.Rows[0]) == 0 {
		return nil, ErrMalformedPlan.New("no rows")
	}

	var raw []byte
	switch v := res.Rows[0][0].(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil, ErrMalformedPlan.New(fmt.Sprintf("%T", v))
	}

	var plan map[string]any
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, ErrMalformedPlan.New(err)
	}
	return plan, nil
}

type costField struct {
	key    string
	label  string
	suffix string
}

var costFields = []costField{
	{"outputRowCount", "Output count", " rows"},
	{"outputSizeInBytes", "Output size", "B"},
	{"cpuCost", "CPU cost", ""},
	{"maxMemory", "Max memory", "B"},
	{"networkCost", "Network cost", ""},
}

// FormatCost turns raw plans into human readable estimates, one map per
// statement keyed by label.
func FormatCost(raw []map[string]any) []map[string]string {
	out := make([]map[string]string, 0, len(raw))
	for _, plan := range raw {
		estimate, _ := plan["estimate"].(map[string]any)
		cost := map[string]string{}
		for _, f := range costFields {
			if v, ok := estimate[f.key]; ok {
				cost[f.label] = strings.TrimSpace(Humanize(v, f.suffix))
			}
		}
		out = append(out, cost)
	}
	return out
}

var prefixes = []string{"K", "M", "G", "T", "P", "E", "Z", "Y"}

// Humanize scales value down by 1000 while it exceeds 1000, adding
// K, M, G, ... in front of suffix. Non-numeric values are printed as is.
func Humanize(value any, suffix string) string {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return v
		}
		n = f
	default:
		return fmt.Sprint(v)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Sprint(n)
	}

	i := int64(n)
	prefix := ""
	for k := 0; i > 1000 && k < len(prefixes); k++ {
		prefix = prefixes[k]
		i /= 1000
	}
	return fmt.Sprintf("%d %s%s", i, prefix, suffix)
}
