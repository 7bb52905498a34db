package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/vistahogar/listings/internal/domain"
)

type fakePropertyRepo struct {
	listQuery   *domain.PropertyQuery
	listResult  []domain.Property
	listErr     error
	getResult   domain.Property
	getErr      error
	similarArgs []any
}

func (f *fakePropertyRepo) List(_ context.Context, q domain.PropertyQuery) ([]domain.Property, error) {
	f.listQuery = &q
	return f.listResult, f.listErr
}

func (f *fakePropertyRepo) GetByID(context.Context, int64) (domain.Property, error) {
	return f.getResult, f.getErr
}

func (f *fakePropertyRepo) Featured(context.Context, int) ([]domain.Property, error) {
	return f.listResult, f.listErr
}

func (f *fakePropertyRepo) Similar(_ context.Context, excludeID int64, propertyType, district string, limit int) ([]domain.Property, error) {
	f.similarArgs = []any{excludeID, propertyType, district, limit}
	return f.listResult, f.listErr
}

func (f *fakePropertyRepo) Create(_ context.Context, p domain.Property) (domain.Property, error) {
	return p, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, p domain.Property) (domain.Property, error) {
	return p, nil
}

func (f *fakePropertyRepo) Delete(context.Context, int64) error { return nil }

func (f *fakePropertyRepo) Stats(context.Context) (domain.PropertyStats, error) {
	return domain.PropertyStats{}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestSearch_PassesNormalizedQuery(t *testing.T) {
	repo := &fakePropertyRepo{listResult: []domain.Property{{ID: 1}}}
	svc := NewService(repo, testLogger())

	result := svc.Search(context.Background(), domain.FilterRequest{
		PropertyType: "Casa",
		District:     "all",
		Bedrooms:     "4+",
	})

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if repo.listQuery == nil {
		t.Fatal("repository was not called")
	}
	if repo.listQuery.Status != domain.PropertyStatusActive {
		t.Fatalf("expected active status default, got %q", repo.listQuery.Status)
	}
	if repo.listQuery.District != "" {
		t.Fatalf("district sentinel must be stripped, got %q", repo.listQuery.District)
	}
	if repo.listQuery.BedroomsMin == nil || *repo.listQuery.BedroomsMin != 4 {
		t.Fatalf("expected bedrooms >= 4, got %v", repo.listQuery.BedroomsMin)
	}
}

func TestSearch_InvalidFilterFailsWithoutRoundTrip(t *testing.T) {
	repo := &fakePropertyRepo{}
	svc := NewService(repo, testLogger())

	result := svc.Search(context.Background(), domain.FilterRequest{Offset: "40"})

	if result.Success {
		t.Fatal("expected failure for offset without limit")
	}
	if repo.listQuery != nil {
		t.Fatal("invalid filters must not reach the repository")
	}
}

func TestSearch_RemoteFailureBecomesResult(t *testing.T) {
	repo := &fakePropertyRepo{listErr: errors.New("connection reset")}
	svc := NewService(repo, testLogger())

	result := svc.Search(context.Background(), domain.FilterRequest{})

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error != "connection reset" {
		t.Fatalf("expected remote message to be carried, got %q", result.Error)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakePropertyRepo{getErr: domain.ErrNotFound}
	svc := NewService(repo, testLogger())

	result := svc.GetByID(context.Background(), 999)

	if result.Success {
		t.Fatal("expected failure for missing row")
	}
	if result.Data != nil {
		t.Fatal("failure result must carry no data")
	}
}

func TestSimilar_ForwardsExclusion(t *testing.T) {
	repo := &fakePropertyRepo{listResult: []domain.Property{}}
	svc := NewService(repo, testLogger())

	result := svc.Similar(context.Background(), 42, "Casa", "Miraflores", 3)

	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	want := []any{int64(42), "Casa", "Miraflores", 3}
	for i, arg := range repo.similarArgs {
		if arg != want[i] {
			t.Fatalf("similar args = %v, want %v", repo.similarArgs, want)
		}
	}
}
