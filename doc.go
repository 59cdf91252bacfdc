// Package keep is the Composition Root for the keep notes client.
//
// It connects the note domain (pkg/core) and the page controllers (pkg/board)
// with a storage backend chosen by configuration, using the Hexagonal
// Architecture pattern: the domain only sees core.Repository.
//
// Backends:
//
//   - **rest**: the hosted backend, a PostgREST data API plus token auth.
//   - **sqlite**: a single local database file.
//   - **memory**: process-lifetime storage, mostly for tests and demos.
//
// Usage:
//
//	cfg, err := keep.LoadConfig(keep.ConfigPath())
//	app, err := keep.Open(cfg, keep.WithLogger(logger))
//	defer app.Close()
//
//	if _, err := app.Sessions.Init(ctx); err != nil {
//		// not signed in: app.Sessions.SignIn(ctx, email, password)
//	}
//	page, err := app.Board(keep.ViewActive)
//	err = page.Load(ctx)
package keep
