package domain

// Catalog is the derived view handed to the UI: every launchable app sorted
// by label, plus the favorites in rank order. It is never persisted.
type Catalog struct {
	AllApps   []AppRecord
	Favorites []AppRecord
}

// Find returns the app with the given identity.
func (c Catalog) Find(id ActivityIdentity) (AppRecord, bool) {
	for _, app := range c.AllApps {
		if app.Identity == id {
			return app, true
		}
	}
	return AppRecord{}, false
}

// FindSerialized returns the app whose persisted identity is id.
func (c Catalog) FindSerialized(id ActivityIdentitySer) (AppRecord, bool) {
	for _, app := range c.AllApps {
		if app.Serial == id {
			return app, true
		}
	}
	return AppRecord{}, false
}
