package patient

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Patient{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type fakeGeocoder struct {
	lat, lng float64
	err      error
	asked    []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	f.asked = append(f.asked, address)
	return f.lat, f.lng, f.err
}

type fakeCleaner struct {
	deleted []string
	err     error
}

func (f *fakeCleaner) DeleteByPatient(ctx context.Context, patientID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, patientID)
	return nil
}

type fakeEnqueuer struct {
	jobs []string
	err  error
}

func (f *fakeEnqueuer) EnqueuePatientCreated(ctx context.Context, patientID, createdByUserID string) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, patientID)
	return nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)), nil, nil, nil)

	if _, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{Name: "   "}); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreate_GeocodesWhenOnlyAddressGiven(t *testing.T) {
	geo := &fakeGeocoder{lat: 41.88, lng: -87.63}
	svc := NewService(NewRepo(openTestDB(t)), geo, nil, nil)

	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{
		Name:    "Jane Doe",
		Address: "1653 W Congress Pkwy, Chicago",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Latitude != 41.88 || p.Longitude != -87.63 {
		t.Fatalf("geocoded coordinates not stored: %f,%f", p.Latitude, p.Longitude)
	}
	if len(geo.asked) != 1 {
		t.Fatalf("geocoder called %d times", len(geo.asked))
	}
}

func TestCreate_ExplicitCoordinatesSkipGeocoder(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("should not be called")}
	svc := NewService(NewRepo(openTestDB(t)), geo, nil, nil)

	lat, lng := 40.0, -88.0
	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{
		Name:      "Jane Doe",
		Latitude:  &lat,
		Longitude: &lng,
		Address:   "somewhere",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Latitude != 40.0 || p.Longitude != -88.0 {
		t.Fatalf("explicit coordinates overwritten: %f,%f", p.Latitude, p.Longitude)
	}
	if len(geo.asked) != 0 {
		t.Fatalf("geocoder called despite explicit coordinates")
	}
}

func TestCreate_ZeroCoordinatesAreARealLocation(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("should not be called")}
	svc := NewService(NewRepo(openTestDB(t)), geo, nil, nil)

	lat, lng := 0.0, 0.0
	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{
		Name:      "Jane Doe",
		Latitude:  &lat,
		Longitude: &lng,
		Address:   "Null Island weather station",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		t.Fatalf("supplied 0,0 was replaced: %f,%f", p.Latitude, p.Longitude)
	}
	if len(geo.asked) != 0 {
		t.Fatalf("geocoder called despite supplied coordinates")
	}
}

func TestCreate_EnqueueFailureDoesNotUndoPatient(t *testing.T) {
	db := openTestDB(t)
	enq := &fakeEnqueuer{err: errors.New("rabbit down")}
	svc := NewService(NewRepo(db), nil, nil, enq)

	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("patient row lost after enqueue failure: %v", err)
	}
	if got.Name != "Jane Doe" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestCreate_EnqueuesFanout(t *testing.T) {
	enq := &fakeEnqueuer{}
	svc := NewService(NewRepo(openTestDB(t)), nil, nil, enq)

	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(enq.jobs) != 1 || enq.jobs[0] != p.ID {
		t.Fatalf("fan-out not enqueued for new patient: %+v", enq.jobs)
	}
}

func TestDelete_CleansNotificationsFirst(t *testing.T) {
	db := openTestDB(t)
	cleaner := &fakeCleaner{}
	svc := NewService(NewRepo(db), nil, cleaner, nil)

	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.Delete(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != p.ID {
		t.Fatalf("deleted wrong patient: %s", deleted.ID)
	}
	if len(cleaner.deleted) != 1 || cleaner.deleted[0] != p.ID {
		t.Fatalf("notifications not cleaned: %+v", cleaner.deleted)
	}
	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("patient row survived delete: %v", err)
	}
}

func TestDelete_NotificationFailureKeepsPatient(t *testing.T) {
	db := openTestDB(t)
	cleaner := &fakeCleaner{err: errors.New("db hiccup")}
	svc := NewService(NewRepo(db), nil, cleaner, nil)

	p, err := svc.Create(context.Background(), uuid.NewString(), CreateInput{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Delete(context.Background(), p.ID); err == nil {
		t.Fatalf("expected delete to fail")
	}
	if _, err := svc.Get(context.Background(), p.ID); err != nil {
		t.Fatalf("patient removed despite failed notification cleanup: %v", err)
	}
}
