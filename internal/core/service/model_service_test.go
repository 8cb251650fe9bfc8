package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/core/domain"
)

type stubLister struct {
	ids []string
	err error
}

func (l *stubLister) ListModelIDs(context.Context) ([]string, error) { return l.ids, l.err }

type stubSource struct {
	bodies  map[string][]byte
	err     error
	fetches int
}

func (s *stubSource) FetchManifest(_ context.Context, modelID string) ([]byte, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.bodies[modelID]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return b, nil
}

func (s *stubSource) ManifestURL(modelID string) string {
	return "https://cdn.example.com/" + modelID + "/manifest.json"
}

type memCache struct {
	entries map[string][]byte
	getErr  error
	sets    int
}

func (c *memCache) Get(_ context.Context, modelID string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[modelID], nil
}

func (c *memCache) Set(_ context.Context, modelID string, body []byte, _ time.Duration) error {
	c.sets++
	c.entries[modelID] = body
	return nil
}

const phiManifest = `{"model_id":"phi-3-mini-4k-instruct","display_name":"Phi-3 Mini 4K Instruct (INT4)","version":"2025-07-23","license":"mit","max_sequence_len":4096,"tokenizer_url":"https://cdn.example.com/phi-3-mini-4k-instruct/tokenizer.json","shards":[{"url":"https://cdn.example.com/phi-3-mini-4k-instruct/model-00001.safetensors","sha256":"aa"}]}`

func TestModelService_ListModels(t *testing.T) {
	svc := NewModelService(&stubLister{ids: []string{"a", "b"}}, &stubSource{}, nil, 0, zerolog.Nop())

	models, err := svc.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(models) != 2 || models[0].ID != "a" || models[1].ManifestURL != "https://cdn.example.com/b/manifest.json" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

func TestModelService_ListModels_Error(t *testing.T) {
	boom := errors.New("s3 down")
	svc := NewModelService(&stubLister{err: boom}, &stubSource{}, nil, 0, zerolog.Nop())

	if _, err := svc.ListModels(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestModelService_GetManifest_CachesUpstream(t *testing.T) {
	src := &stubSource{bodies: map[string][]byte{"phi-3-mini-4k-instruct": []byte(phiManifest)}}
	cache := &memCache{entries: map[string][]byte{}}
	svc := NewModelService(&stubLister{}, src, cache, time.Minute, zerolog.Nop())

	for i := 0; i < 3; i++ {
		doc, err := svc.GetManifest(context.Background(), "phi-3-mini-4k-instruct")
		if err != nil {
			t.Fatalf("get manifest: %v", err)
		}
		if doc.Manifest.MaxSequenceLen != 4096 || len(doc.Manifest.Shards) != 1 {
			t.Fatalf("unexpected manifest: %+v", doc.Manifest)
		}
		if string(doc.Raw) != phiManifest {
			t.Fatalf("raw body not mirrored")
		}
	}
	if src.fetches != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", src.fetches)
	}
	if cache.sets != 1 {
		t.Fatalf("expected a single cache write, got %d", cache.sets)
	}
}

func TestModelService_GetManifest_CacheFailureFallsBack(t *testing.T) {
	src := &stubSource{bodies: map[string][]byte{"m": []byte(phiManifest)}}
	cache := &memCache{entries: map[string][]byte{}, getErr: errors.New("redis down")}
	svc := NewModelService(&stubLister{}, src, cache, time.Minute, zerolog.Nop())

	if _, err := svc.GetManifest(context.Background(), "m"); err != nil {
		t.Fatalf("expected fallback to upstream, got %v", err)
	}
	if src.fetches != 1 {
		t.Fatalf("expected upstream fetch")
	}
}

func TestModelService_GetManifest_Errors(t *testing.T) {
	src := &stubSource{bodies: map[string][]byte{"broken": []byte("<html>")}}
	svc := NewModelService(&stubLister{}, src, nil, 0, zerolog.Nop())

	cases := []struct {
		id   string
		want error
	}{
		{"../etc", domain.ErrInvalidModelID},
		{"", domain.ErrInvalidModelID},
		{"a/b", domain.ErrInvalidModelID},
		{"missing", domain.ErrModelNotFound},
		{"broken", domain.ErrUpstream},
	}
	for _, tc := range cases {
		_, err := svc.GetManifest(context.Background(), tc.id)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.id, tc.want, err)
		}
	}
}
