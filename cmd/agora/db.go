package main

import (
	"fmt"

	"agora/pkg/archive"
)

// openStore opens (or creates) the archive database for writing,
// bootstrapping the agora directory first.
func openStore(paths *Paths) (*archive.Store, error) {
	if err := bootstrapAgoraDir(paths.AgoraHome); err != nil {
		return nil, err
	}
	store, err := archive.Open(paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return store, nil
}

// openReader opens the archive database read-only. Fails with a hint
// when no debate has ever been archived.
func openReader(paths *Paths) (*archive.Reader, error) {
	reader, err := archive.NewReader(paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("no archive at %s (run a debate first): %w", paths.DBPath, err)
	}
	return reader, nil
}
