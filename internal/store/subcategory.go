package store

import "racketoutlet/pkg/domain"

// SubCategoryEntry is one category's cached subcategories. Entries are fully
// independent: a failure for one category never touches another's data or
// in-flight status.
type SubCategoryEntry struct {
	Items   []domain.SubCategory
	Loaded  bool
	Loading bool
	Err     string
}

// SubCategoryState caches subcategories per category id for the life of the
// session.
type SubCategoryState struct {
	Entries map[int64]SubCategoryEntry
}

func initialSubCategoryState() SubCategoryState {
	return SubCategoryState{Entries: make(map[int64]SubCategoryEntry)}
}

func (s SubCategoryState) clone() SubCategoryState {
	entries := make(map[int64]SubCategoryEntry, len(s.Entries))
	for id, entry := range s.Entries {
		entry.Items = append([]domain.SubCategory(nil), entry.Items...)
		entries[id] = entry
	}
	return SubCategoryState{Entries: entries}
}

// SubCategoriesPending marks one category's fetch in flight.
type SubCategoriesPending struct {
	CategoryID int64
}

// SubCategoriesLoaded caches one category's subcategories.
type SubCategoriesLoaded struct {
	CategoryID int64
	Items      []domain.SubCategory
}

// SubCategoriesFailed records one category's fetch failure.
type SubCategoriesFailed struct {
	CategoryID int64
	Err        string
}

func reduceSubCategories(state SubCategoryState, action Action) (SubCategoryState, bool) {
	switch a := action.(type) {
	case SubCategoriesPending:
		state = state.clone()
		entry := state.Entries[a.CategoryID]
		entry.Loading = true
		entry.Err = ""
		state.Entries[a.CategoryID] = entry
		return state, true
	case SubCategoriesLoaded:
		state = state.clone()
		state.Entries[a.CategoryID] = SubCategoryEntry{
			Items:  append([]domain.SubCategory(nil), a.Items...),
			Loaded: true,
		}
		return state, true
	case SubCategoriesFailed:
		state = state.clone()
		entry := state.Entries[a.CategoryID]
		entry.Loading = false
		entry.Err = a.Err
		state.Entries[a.CategoryID] = entry
		return state, true
	default:
		return state, false
	}
}
