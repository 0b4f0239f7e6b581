package BlaneAPI

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

// PaginationMeta is the normalized pagination block attached to every
// resolved listing, regardless of which envelope shape the backend used.
type PaginationMeta struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// Envelope is the resolver output: a flat record list plus normalized meta.
type Envelope struct {
	Data []map[string]any `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// The Blane backend has shipped at least six different envelope shapes for
// the same listing over its lifetime. Each shape is handled by one pure
// extractor; they are tried in priority order and the first match wins.
// The ordering matters because several shapes structurally overlap
// (a Laravel {data, meta} body also satisfies the root-pagination check).
type shapeExtractor struct {
	name    string
	extract func(v any, requestedSize int) (Envelope, bool)
}

var shapeExtractors = []shapeExtractor{
	{"laravel_data_meta", extractLaravel},
	{"direct_array", extractDirectArray},
	{"payments_total", extractPaymentsKey},
	{"results_count", extractResultsKey},
	{"root_pagination", extractRootPagination},
	{"nested_data_object", extractNestedData},
	{"deep_search", extractDeepSearch},
}

// ResolveEnvelope normalizes an arbitrary decoded JSON value into a record
// list and pagination meta. It never panics and never returns nil data;
// completely unrecognizable input degrades to an empty list.
func ResolveEnvelope(v any, requestedSize int) Envelope {
	for _, shape := range shapeExtractors {
		if env, ok := shape.extract(v, requestedSize); ok {
			logrus.WithFields(logrus.Fields{
				"shape":   shape.name,
				"records": len(env.Data),
				"total":   env.Meta.Total,
			}).Debug("Resolved payment envelope")
			return env
		}
	}
	logrus.Warn("No recognizable envelope shape, returning empty list")
	return Envelope{Data: []map[string]any{}, Meta: synthesizeMeta(0, requestedSize)}
}

// Shape 1: Laravel-style {data: [...], meta: {...}}.
func extractLaravel(v any, requestedSize int) (Envelope, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Envelope{}, false
	}
	arr, ok := asArray(obj["data"])
	if !ok {
		return Envelope{}, false
	}
	records := toRecords(arr)
	if metaObj, ok := asObject(obj["meta"]); ok {
		return Envelope{Data: records, Meta: metaFromObject(metaObj, len(records), requestedSize)}, true
	}
	return Envelope{Data: records, Meta: synthesizeMeta(len(records), requestedSize)}, true
}

// Shape 2: the body itself is the record array.
func extractDirectArray(v any, requestedSize int) (Envelope, bool) {
	arr, ok := asArray(v)
	if !ok {
		return Envelope{}, false
	}
	records := toRecords(arr)
	return Envelope{Data: records, Meta: synthesizeMeta(len(records), requestedSize)}, true
}

// Shape 3: {payments: [...], total, current_page|page, last_page|totalPages, per_page}.
func extractPaymentsKey(v any, requestedSize int) (Envelope, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Envelope{}, false
	}
	arr, ok := asArray(obj["payments"])
	if !ok {
		return Envelope{}, false
	}
	records := toRecords(arr)
	meta := PaginationMeta{
		Total:       intField(obj, len(records), "total"),
		CurrentPage: intField(obj, 1, "current_page", "page"),
		LastPage:    intField(obj, 1, "last_page", "totalPages"),
		PerPage:     intField(obj, defaultSize(requestedSize, len(records)), "per_page"),
	}
	meta.From, meta.To = rangeFromTotal(meta.Total)
	return Envelope{Data: records, Meta: meta}, true
}

// Shape 4: {results: [...], count}.
func extractResultsKey(v any, requestedSize int) (Envelope, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Envelope{}, false
	}
	arr, ok := asArray(obj["results"])
	if !ok {
		return Envelope{}, false
	}
	records := toRecords(arr)
	meta := synthesizeMeta(len(records), requestedSize)
	meta.Total = intField(obj, len(records), "count")
	return Envelope{Data: records, Meta: meta}, true
}

// Shape 5: pagination fields at the root with the record list under some
// other key. The first array-valued key (in sorted key order, since JSON
// object order is not preserved after decoding) is taken as the list.
func extractRootPagination(v any, requestedSize int) (Envelope, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Envelope{}, false
	}
	if _, hasCurrent := obj["current_page"]; !hasCurrent {
		return Envelope{}, false
	}
	if _, hasLast := obj["last_page"]; !hasLast {
		return Envelope{}, false
	}
	var records []map[string]any
	for _, key := range sortedKeys(obj) {
		if arr, ok := asArray(obj[key]); ok {
			records = toRecords(arr)
			break
		}
	}
	if records == nil {
		records = []map[string]any{}
	}
	meta := metaFromObject(obj, len(records), requestedSize)
	return Envelope{Data: records, Meta: meta}, true
}

// Shape 6: {data: {...}} where the payload is nested one level deeper,
// under .payments or .data inside the inner object.
func extractNestedData(v any, requestedSize int) (Envelope, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Envelope{}, false
	}
	inner, ok := asObject(obj["data"])
	if !ok {
		return Envelope{}, false
	}
	for _, key := range []string{"payments", "data"} {
		if arr, ok := asArray(inner[key]); ok {
			records := toRecords(arr)
			return Envelope{Data: records, Meta: metaFromObject(inner, len(records), requestedSize)}, true
		}
	}
	return Envelope{}, false
}

// Shape 7: last resort. Depth-first search over all keys for the first
// array anywhere in the structure.
func extractDeepSearch(v any, requestedSize int) (Envelope, bool) {
	arr, found := findFirstArray(v, 0)
	if !found {
		return Envelope{}, false
	}
	records := toRecords(arr)
	return Envelope{Data: records, Meta: synthesizeMeta(len(records), requestedSize)}, true
}

const maxSearchDepth = 16

func findFirstArray(v any, depth int) ([]any, bool) {
	if depth > maxSearchDepth {
		return nil, false
	}
	if arr, ok := asArray(v); ok {
		return arr, true
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	for _, key := range sortedKeys(obj) {
		if arr, found := findFirstArray(obj[key], depth+1); found {
			return arr, true
		}
	}
	return nil, false
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// toRecords keeps object entries and drops scalar noise the backend has
// been known to mix into record arrays.
func toRecords(arr []any) []map[string]any {
	records := make([]map[string]any, 0, len(arr))
	for _, entry := range arr {
		if obj, ok := asObject(entry); ok {
			records = append(records, obj)
		}
	}
	return records
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// intField reads the first present key from obj as an integer, tolerating
// float64, json.Number and numeric-string encodings.
func intField(obj map[string]any, fallback int, keys ...string) int {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if n, ok := toInt(raw); ok {
				return n
			}
		}
	}
	return fallback
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func metaFromObject(obj map[string]any, recordCount, requestedSize int) PaginationMeta {
	meta := PaginationMeta{
		Total:       intField(obj, recordCount, "total"),
		CurrentPage: intField(obj, 1, "current_page"),
		LastPage:    intField(obj, 1, "last_page"),
		PerPage:     intField(obj, defaultSize(requestedSize, recordCount), "per_page"),
		From:        intField(obj, 0, "from"),
		To:          intField(obj, 0, "to"),
	}
	if meta.From == 0 && meta.To == 0 {
		meta.From, meta.To = rangeFromTotal(recordCount)
	}
	return meta
}

func synthesizeMeta(recordCount, requestedSize int) PaginationMeta {
	from, to := rangeFromTotal(recordCount)
	return PaginationMeta{
		Total:       recordCount,
		CurrentPage: 1,
		LastPage:    1,
		PerPage:     defaultSize(requestedSize, recordCount),
		From:        from,
		To:          to,
	}
}

func rangeFromTotal(n int) (from, to int) {
	if n <= 0 {
		return 0, 0
	}
	return 1, n
}

func defaultSize(requestedSize, recordCount int) int {
	if requestedSize > 0 {
		return requestedSize
	}
	if recordCount > 0 {
		return recordCount
	}
	return 10
}
