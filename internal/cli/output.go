package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/transform"
)

// rowToMap flattens a row for JSON output, prefixing system fields so
// scripts get stable keys that cannot collide with entity fields.
func rowToMap(row *model.Row) map[string]any {
	m := map[string]any{
		"_id":         row.ID,
		"_tenant":     row.TenantID,
		"_created_at": row.CreatedAt.Format(transform.TimeLayout),
		"_updated_at": row.UpdatedAt.Format(transform.TimeLayout),
	}
	if row.DeletedAt != nil {
		m["_deleted_at"] = row.DeletedAt.Format(transform.TimeLayout)
	}
	for k, v := range row.Fields {
		m[k] = v
	}
	return m
}

// printRow writes one row as JSON or an aligned field listing.
func printRow(row *model.Row) error {
	if jsonOutput {
		data, err := json.MarshalIndent(rowToMap(row), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal row: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("id: %s\n", row.ID)
	if row.DeletedAt != nil {
		fmt.Printf("deleted: %s\n", row.DeletedAt.Format(transform.TimeLayout))
	}
	names := make([]string, 0, len(row.Fields))
	for k := range row.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("%s: %s\n", k, formatValue(row.Fields[k]))
	}
	return nil
}

// printRows writes a connection's rows as a JSON array or one line per row.
func printRows(rows []*model.Row) error {
	if jsonOutput {
		out := make([]map[string]any, len(rows))
		for i, r := range rows {
			out[i] = rowToMap(r)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rows: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, r := range rows {
		var parts []string
		names := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(r.Fields[k])))
		}
		fmt.Printf("%s  %s\n", r.ID, strings.Join(parts, " "))
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// parseFieldArgs turns k=v pairs into a field map. Values parse as JSON
// when possible (numbers, booleans, arrays, objects) and fall back to
// plain strings.
func parseFieldArgs(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=value", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			fields[k] = parsed
		} else {
			fields[k] = v
		}
	}
	return fields, nil
}
