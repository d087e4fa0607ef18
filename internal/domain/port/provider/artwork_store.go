package provider

import "context"

// StoredArtwork is a persisted image
type StoredArtwork struct {
	Key string
	URL string
}

// ArtworkStore persists generated artwork so orders can reference it by URL
type ArtworkStore interface {
	// Put stores the image under key and returns its public location
	Put(ctx context.Context, key string, image []byte, contentType string) (*StoredArtwork, error)
}
