package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

type stubDownloadRepo struct {
	inserted  []*domain.ShardDownload
	insertErr error
}

func (r *stubDownloadRepo) Insert(_ context.Context, d *domain.ShardDownload) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, d)
	return nil
}

func (r *stubDownloadRepo) ListByUserAndModel(_ context.Context, email, modelID string) ([]*domain.ShardDownload, error) {
	var out []*domain.ShardDownload
	for i := len(r.inserted) - 1; i >= 0; i-- {
		d := r.inserted[i]
		if d.UserEmail == email && d.ModelID == modelID {
			out = append(out, d)
		}
	}
	return out, nil
}

type stubDedup struct {
	seen    map[string]bool
	dupErr  error
	markErr error
}

func newStubDedup() *stubDedup { return &stubDedup{seen: map[string]bool{}} }

func (d *stubDedup) IsDuplicate(_ context.Context, key string) (bool, error) {
	if d.dupErr != nil {
		return false, d.dupErr
	}
	return d.seen[key], nil
}

func (d *stubDedup) Mark(_ context.Context, key string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.seen[key] = true
	return nil
}

func validReport() ports.DownloadReport {
	return ports.DownloadReport{
		UserEmail: "a@x.com",
		ModelID:   "phi-3-mini-4k-instruct",
		ShardURL:  "https://cdn.example.com/phi-3-mini-4k-instruct/model-00001.safetensors",
		SHA256:    strings.Repeat("ab", 32),
		Size:      1024,
		Status:    string(domain.DownloadCompleted),
	}
}

func TestDownloadService_Process_Records(t *testing.T) {
	repo := &stubDownloadRepo{}
	svc := NewDownloadService(repo, newStubDedup(), zerolog.Nop())

	if err := svc.Process(context.Background(), validReport()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.ID == "" || rec.RecordedAt.IsZero() || rec.Status != domain.DownloadCompleted {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDownloadService_Process_SkipsDuplicates(t *testing.T) {
	repo := &stubDownloadRepo{}
	svc := NewDownloadService(repo, newStubDedup(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := svc.Process(context.Background(), validReport()); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected duplicates to be skipped, got %d records", len(repo.inserted))
	}

	failed := validReport()
	failed.Status = string(domain.DownloadFailed)
	if err := svc.Process(context.Background(), failed); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("a different status is a different report")
	}
}

func TestDownloadService_Process_DedupFailureStillRecords(t *testing.T) {
	repo := &stubDownloadRepo{}
	dedup := newStubDedup()
	dedup.dupErr = errors.New("redis down")
	dedup.markErr = errors.New("redis down")
	svc := NewDownloadService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), validReport()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected record despite dedup failure")
	}
}

func TestDownloadService_Process_InsertFailure(t *testing.T) {
	boom := errors.New("mongo down")
	dedup := newStubDedup()
	svc := NewDownloadService(&stubDownloadRepo{insertErr: boom}, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), validReport()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	if len(dedup.seen) != 0 {
		t.Fatalf("failed inserts must not be marked as processed")
	}
}

func TestDownloadService_Validate(t *testing.T) {
	svc := NewDownloadService(&stubDownloadRepo{}, newStubDedup(), zerolog.Nop())

	mutate := map[string]func(r *ports.DownloadReport){
		"no user":    func(r *ports.DownloadReport) { r.UserEmail = "" },
		"bad model":  func(r *ports.DownloadReport) { r.ModelID = "../x" },
		"no url":     func(r *ports.DownloadReport) { r.ShardURL = "" },
		"short sha":  func(r *ports.DownloadReport) { r.SHA256 = "abc" },
		"upper sha":  func(r *ports.DownloadReport) { r.SHA256 = strings.Repeat("AB", 32) },
		"neg size":   func(r *ports.DownloadReport) { r.Size = -1 },
		"bad status": func(r *ports.DownloadReport) { r.Status = "pending" },
	}
	for name, fn := range mutate {
		r := validReport()
		fn(&r)
		if err := svc.Validate(r); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := svc.Validate(validReport()); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}
}

func TestDownloadService_List(t *testing.T) {
	repo := &stubDownloadRepo{}
	svc := NewDownloadService(repo, newStubDedup(), zerolog.Nop())

	first := validReport()
	second := validReport()
	second.SHA256 = strings.Repeat("cd", 32)
	other := validReport()
	other.UserEmail = "b@x.com"
	for _, r := range []ports.DownloadReport{first, second, other} {
		if err := svc.Process(context.Background(), r); err != nil {
			t.Fatalf("process: %v", err)
		}
	}

	out, err := svc.List(context.Background(), "a@x.com", "phi-3-mini-4k-instruct")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 || out[0].SHA256 != second.SHA256 {
		t.Fatalf("unexpected listing: %+v", out)
	}

	if _, err := svc.List(context.Background(), "", "m"); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
