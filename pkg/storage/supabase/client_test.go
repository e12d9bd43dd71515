package supabase

import (
	"strings"
	"testing"

	"github.com/animetoken/anime-token-backend/pkg/config"
)

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(config.StorageConfig{}); err == nil {
		t.Fatal("expected error for missing project url")
	}
	if _, err := New(config.StorageConfig{ProjectURL: "https://proj.supabase.co"}); err == nil {
		t.Fatal("expected error for missing service role key")
	}
}

func TestPublicURLTrimsTrailingSlash(t *testing.T) {
	client, err := New(config.StorageConfig{
		ProjectURL:     "https://proj.supabase.co/",
		ServiceRoleKey: "service-key",
		MediaBucket:    "nft-assets",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := client.PublicURL("nft-assets", "avatar/123-ab.png")
	want := "https://proj.supabase.co/storage/v1/object/public/nft-assets/avatar/123-ab.png"
	if got != want {
		t.Fatalf("public url mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestObjectKeyShape(t *testing.T) {
	key := ObjectKey("avatar", "My Cool Art.PNG")
	if !strings.HasPrefix(key, "avatar/") {
		t.Fatalf("expected slot prefix, got %s", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected lowercased extension, got %s", key)
	}

	if ObjectKey("avatar", "a.png") == ObjectKey("avatar", "a.png") {
		t.Fatal("expected distinct keys for identical inputs")
	}
}

func TestObjectKeyWithoutExtension(t *testing.T) {
	key := ObjectKey("primary", "rawfile")
	if !strings.HasPrefix(key, "primary/") {
		t.Fatalf("expected slot prefix, got %s", key)
	}
	if strings.Contains(key[len("primary/"):], ".") {
		t.Fatalf("expected no extension, got %s", key)
	}
}
