// Package cluster groups raw item records into display clusters and
// filters them by user criteria. It is read-only: it never touches the
// assignment registry and is recomputed whenever the item list or the
// active filters change.
package cluster

import "github.com/erazemk/odprema/internal/model"

// Key is the 5-tuple items are grouped by.
type Key struct {
	TypeName      string `json:"item_type_name"`
	MakeName      string `json:"item_make_name"`
	ModelName     string `json:"item_model_name"`
	PartCode      string `json:"item_part_code"`
	ProjectNumber string `json:"project_number"`
}

// Cluster is a display-only grouping of items sharing a key.
type Cluster struct {
	Key   Key          `json:"key"`
	Items []model.Item `json:"items"`
}

// keyOf derives the grouping key from an item. Missing fields are empty
// strings, so items with partial metadata still cluster deterministically
// instead of being dropped.
func keyOf(it model.Item) Key {
	return Key{
		TypeName:      it.TypeName,
		MakeName:      it.MakeName,
		ModelName:     it.ModelName,
		PartCode:      it.PartCode,
		ProjectNumber: it.ProjectNumber,
	}
}

// Build groups items by key. Clusters appear in first-seen order and
// items keep their input order within a cluster.
func Build(items []model.Item) []Cluster {
	var clusters []Cluster
	index := make(map[Key]int)

	for _, it := range items {
		k := keyOf(it)
		if i, ok := index[k]; ok {
			clusters[i].Items = append(clusters[i].Items, it)
			continue
		}
		index[k] = len(clusters)
		clusters = append(clusters, Cluster{Key: k, Items: []model.Item{it}})
	}
	return clusters
}

// FilterRow is one partial match criterion. Empty fields are unset. A
// row with all fields unset matches nothing, so a blank row cannot
// vacuously pass every cluster.
type FilterRow struct {
	Make    string `json:"make"`
	Model   string `json:"model"`
	Part    string `json:"part"`
	Project string `json:"project"`
}

// matches reports whether every set field of the row equals the
// cluster's corresponding field, with at least one field set.
func (f FilterRow) matches(k Key) bool {
	set := false
	if f.Make != "" {
		if f.Make != k.MakeName {
			return false
		}
		set = true
	}
	if f.Model != "" {
		if f.Model != k.ModelName {
			return false
		}
		set = true
	}
	if f.Part != "" {
		if f.Part != k.PartCode {
			return false
		}
		set = true
	}
	if f.Project != "" {
		if f.Project != k.ProjectNumber {
			return false
		}
		set = true
	}
	return set
}

// Filter returns the clusters matching at least one row. With no rows,
// all clusters pass unfiltered.
func Filter(clusters []Cluster, rows []FilterRow) []Cluster {
	if len(rows) == 0 {
		return clusters
	}

	var out []Cluster
	for _, c := range clusters {
		for _, row := range rows {
			if row.matches(c.Key) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
