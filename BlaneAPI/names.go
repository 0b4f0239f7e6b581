package BlaneAPI

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// NameMap is an ephemeral id -> display-name lookup built per listing load.
type NameMap map[int]string

// Enrichment fetches are bounded so a backend stuck reporting ever more
// pages cannot drag the resolver into an unbounded crawl.
const (
	maxNamePages   = 10
	namePageSize   = 100
	vendorsPath    = "/vendors"
	categoriesPath = "/categories"
)

// CollectVendorIDs returns the distinct positive vendor ids referenced by
// the records, either through the flat vendor_id field or an embedded
// vendor sub-object.
func CollectVendorIDs(records []map[string]any) []int {
	return collectIDs(records, "vendor_id", "vendor")
}

// CollectCategoryIDs is the category counterpart of CollectVendorIDs.
func CollectCategoryIDs(records []map[string]any) []int {
	return collectIDs(records, "category_id", "category")
}

func collectIDs(records []map[string]any, flatKey, embeddedKey string) []int {
	seen := make(map[int]bool)
	for _, record := range records {
		if id, ok := toInt(record[flatKey]); ok && id > 0 {
			seen[id] = true
		}
		if sub, ok := asObject(record[embeddedKey]); ok {
			if id, ok := toInt(sub["id"]); ok && id > 0 {
				seen[id] = true
			}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// BuildVendorNames resolves vendor names embedded in the records themselves,
// at zero network cost. It returns a new map; existing entries are copied in
// and never overwritten by weaker data.
func BuildVendorNames(records []map[string]any, existing NameMap) NameMap {
	names := cloneNames(existing)
	for _, record := range records {
		id, name := embeddedName(record, "vendor_id", "vendor", "vendor_name", true)
		if id > 0 && name != "" {
			names[id] = name
		}
	}
	return names
}

// BuildCategoryNames is the category counterpart of BuildVendorNames.
func BuildCategoryNames(records []map[string]any, existing NameMap) NameMap {
	names := cloneNames(existing)
	for _, record := range records {
		id, name := embeddedName(record, "category_id", "category", "category_name", false)
		if id > 0 && name != "" {
			names[id] = name
		}
	}
	return names
}

func embeddedName(record map[string]any, flatKey, embeddedKey, scalarKey string, preferCompany bool) (int, string) {
	id, _ := toInt(record[flatKey])
	var name string

	if sub, ok := asObject(record[embeddedKey]); ok {
		if subID, ok := toInt(sub["id"]); ok && subID > 0 {
			id = subID
		}
		name = pickName(sub, preferCompany)
	}
	if name == "" {
		name = strings.TrimSpace(fieldString(record, scalarKey))
	}
	return id, name
}

// pickName prefers company_name over name for vendors; categories only
// carry name.
func pickName(sub map[string]any, preferCompany bool) string {
	if preferCompany {
		if company := strings.TrimSpace(fieldString(sub, "company_name")); company != "" {
			return company
		}
	}
	return strings.TrimSpace(fieldString(sub, "name"))
}

// FetchMissingVendorNames pages through the vendor listing for any ids the
// records did not resolve themselves. Failures are logged and swallowed:
// enrichment is best-effort and must never block the payment list.
func FetchMissingVendorNames(ids []int, existing NameMap) NameMap {
	return fetchMissingNames(vendorsPath, ids, existing, true)
}

// FetchMissingCategoryNames is the category counterpart.
func FetchMissingCategoryNames(ids []int, existing NameMap) NameMap {
	return fetchMissingNames(categoriesPath, ids, existing, false)
}

func fetchMissingNames(path string, ids []int, existing NameMap, preferCompany bool) NameMap {
	names := cloneNames(existing)

	missing := make(map[int]bool)
	for _, id := range ids {
		if _, ok := names[id]; !ok && id > 0 {
			missing[id] = true
		}
	}
	if len(missing) == 0 {
		return names
	}

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"missing": len(missing),
	}).Debug("Fetching names for unresolved ids")

	for page := 1; page <= maxNamePages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pagination_size", strconv.Itoa(namePageSize))

		body, err := getJSON(path, params)
		if err != nil {
			logrus.WithError(err).Warnf("Name enrichment fetch failed on page %d of %s, keeping placeholders", page, path)
			return names
		}

		env := ResolveEnvelope(body, namePageSize)
		if len(env.Data) == 0 {
			break
		}

		for _, entry := range env.Data {
			id, ok := toInt(entry["id"])
			if !ok || id <= 0 {
				continue
			}
			if name := pickName(entry, preferCompany); name != "" {
				names[id] = name
				delete(missing, id)
			}
		}

		if len(missing) == 0 {
			break
		}
		if env.Meta.LastPage > 0 && page >= env.Meta.LastPage {
			break
		}
	}

	if len(missing) > 0 {
		logrus.Debugf("%d ids still unresolved after enrichment of %s", len(missing), path)
	}
	return names
}

// VendorDisplayName returns the resolved name or a "Vendor #<id>"
// placeholder; unresolved names are a degraded outcome, not an error.
func VendorDisplayName(names NameMap, id int) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Vendor #%d", id)
}

// CategoryDisplayName is the category counterpart of VendorDisplayName.
func CategoryDisplayName(names NameMap, id int) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Category #%d", id)
}

func cloneNames(existing NameMap) NameMap {
	names := make(NameMap, len(existing))
	for id, name := range existing {
		names[id] = name
	}
	return names
}

func fieldString(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
