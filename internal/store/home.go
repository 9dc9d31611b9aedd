package store

import "racketoutlet/pkg/domain"

// HomeState is the homepage content slice, plus the product highlight lists.
// Version is the server-announced content version backing the persisted cache.
type HomeState struct {
	Data    domain.HomeData
	Version string
	Loaded  bool
	Loading bool
	Err     string

	Featured     []domain.Product
	DealOfTheDay []domain.Product
	Exclusive    []domain.Product
}

func (s HomeState) clone() HomeState {
	s.Featured = append([]domain.Product(nil), s.Featured...)
	s.DealOfTheDay = append([]domain.Product(nil), s.DealOfTheDay...)
	s.Exclusive = append([]domain.Product(nil), s.Exclusive...)
	return s
}

// HomePending marks a home content load in flight.
type HomePending struct{}

// HomeLoaded stores the home payload and its content version.
type HomeLoaded struct {
	Version string
	Data    domain.HomeData
}

// HomeFailed records a failed home content load.
type HomeFailed struct {
	Err string
}

// HighlightsLoaded stores the featured, deal-of-the-day and exclusive lists.
type HighlightsLoaded struct {
	Featured     []domain.Product
	DealOfTheDay []domain.Product
	Exclusive    []domain.Product
}

func reduceHome(state HomeState, action Action) (HomeState, bool) {
	switch a := action.(type) {
	case HomePending:
		state.Loading = true
		state.Err = ""
		return state, true
	case HomeLoaded:
		state = state.clone()
		state.Data = a.Data
		state.Version = a.Version
		state.Loaded = true
		state.Loading = false
		state.Err = ""
		return state, true
	case HomeFailed:
		state.Loading = false
		state.Err = a.Err
		return state, true
	case HighlightsLoaded:
		state = state.clone()
		state.Featured = append([]domain.Product(nil), a.Featured...)
		state.DealOfTheDay = append([]domain.Product(nil), a.DealOfTheDay...)
		state.Exclusive = append([]domain.Product(nil), a.Exclusive...)
		return state, true
	case SessionCleared:
		return HomeState{}, true
	default:
		return state, false
	}
}
