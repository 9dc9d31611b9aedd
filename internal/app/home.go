package app

import (
	"context"
	"encoding/json"
	"errors"

	"racketoutlet/internal/api"
	"racketoutlet/internal/localstore"
	"racketoutlet/internal/store"
)

// LoadHome fills the home slice through the versioned content cache. The
// server is probed for its current content version first; when the persisted
// payload carries the same version it is served without fetching the payload
// again. Only a version change (or an empty cache) costs a full payload
// fetch, which is then persisted under the new version.
func (a *App) LoadHome(ctx context.Context) error {
	a.store.Dispatch(store.HomePending{})

	cached, haveCache := a.loadHomeCache(ctx)
	version, err := a.api.HomeVersion(ctx)
	if err == nil && haveCache && cached.Version == version {
		a.store.Dispatch(store.HomeLoaded{Version: cached.Version, Data: cached.Data})
		return nil
	}

	payload, err := a.api.Home(ctx)
	if err != nil {
		if haveCache {
			// Offline fallback: stale content beats an empty home page.
			a.store.Dispatch(store.HomeLoaded{Version: cached.Version, Data: cached.Data})
			return nil
		}
		a.store.Dispatch(store.HomeFailed{Err: errMessage(err)})
		return err
	}
	a.saveHomeCache(ctx, payload)
	a.store.Dispatch(store.HomeLoaded{Version: payload.Version, Data: payload.Data})
	return nil
}

func (a *App) loadHomeCache(ctx context.Context) (api.HomePayload, bool) {
	raw, err := a.kv.Get(ctx, homeKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return api.HomePayload{}, false
	}
	if err != nil {
		a.logger.Warn("loading home cache failed", "error", err)
		return api.HomePayload{}, false
	}
	var payload api.HomePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		a.logger.Warn("decoding home cache failed", "error", err)
		return api.HomePayload{}, false
	}
	return payload, true
}

func (a *App) saveHomeCache(ctx context.Context, payload api.HomePayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		a.logger.Warn("encoding home cache failed", "error", err)
		return
	}
	if err := a.kv.Set(ctx, homeKey, string(data)); err != nil {
		a.logger.Warn("persisting home cache failed", "error", err)
	}
}
