package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/storage"
	"github.com/rs/zerolog"
	"github.com/supabase-community/gotrue-go/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errInjected = errors.New("injected failure")

type memStore struct {
	mu      sync.Mutex
	events  map[primitive.ObjectID]*models.Event
	guests  map[primitive.ObjectID]*models.Guest
	gallery map[primitive.ObjectID]*models.GalleryItem
	plans   map[primitive.ObjectID]*models.CaptureLimit
	users   map[string]*models.User

	failGuestDelete   map[primitive.ObjectID]bool
	failStatusUpdates bool
	statusUpdates     int
}

func newMemStore() *memStore {
	return &memStore{
		events:          map[primitive.ObjectID]*models.Event{},
		guests:          map[primitive.ObjectID]*models.Guest{},
		gallery:         map[primitive.ObjectID]*models.GalleryItem{},
		plans:           map[primitive.ObjectID]*models.CaptureLimit{},
		users:           map[string]*models.User{},
		failGuestDelete: map[primitive.ObjectID]bool{},
	}
}

// events

func (m *memStore) CreateEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	cp.ID = primitive.NewObjectID()
	m.events[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetEventByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) ListEventsByOwner(_ context.Context, ownerID string) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Event{}
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memStore) ListEventsNotInStatus(_ context.Context, status models.EventStatus) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Event{}
	for _, e := range m.events {
		if e.Status != status {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) CountEventsByOwner(_ context.Context, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpdateEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return nil, models.ErrEventNotFound
	}
	cp := *e
	m.events[e.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateEventStatus(_ context.Context, id primitive.ObjectID, status models.EventStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStatusUpdates {
		return errInjected
	}
	e, ok := m.events[id]
	if !ok {
		return models.ErrEventNotFound
	}
	e.Status = status
	m.statusUpdates++
	return nil
}

func (m *memStore) DeleteEvent(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

// guests

func (m *memStore) CreateGuest(_ context.Context, g *models.Guest) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	cp.ID = primitive.NewObjectID()
	m.guests[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetGuestByID(_ context.Context, id primitive.ObjectID) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, models.ErrGuestNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) ListGuestsByEvent(_ context.Context, eventID primitive.ObjectID) ([]*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Guest{}
	for _, g := range m.guests {
		if g.EventID == eventID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nickname < out[j].Nickname })
	return out, nil
}

func (m *memStore) FindGuestByVisitorID(_ context.Context, eventID primitive.ObjectID, visitorID string) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.guests {
		if g.EventID == eventID && g.Fingerprint.VisitorID == visitorID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateGuest(_ context.Context, g *models.Guest) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guests[g.ID]; !ok {
		return nil, models.ErrGuestNotFound
	}
	cp := *g
	m.guests[g.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) DeleteGuest(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGuestDelete[id] {
		return errInjected
	}
	if _, ok := m.guests[id]; !ok {
		return models.ErrGuestNotFound
	}
	delete(m.guests, id)
	return nil
}

// gallery

func (m *memStore) CreateGalleryItem(_ context.Context, item *models.GalleryItem) (*models.GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	cp.ID = primitive.NewObjectID()
	m.gallery[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetGalleryItemByID(_ context.Context, id primitive.ObjectID) (*models.GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.gallery[id]
	if !ok {
		return nil, models.ErrGalleryItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *memStore) listGallery(match func(*models.GalleryItem) bool) []*models.GalleryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.GalleryItem{}
	for _, item := range m.gallery {
		if match(item) {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StorageID < out[j].StorageID })
	return out
}

func (m *memStore) ListGalleryByEvent(_ context.Context, eventID primitive.ObjectID) ([]*models.GalleryItem, error) {
	return m.listGallery(func(i *models.GalleryItem) bool { return i.EventID == eventID }), nil
}

func (m *memStore) ListGalleryByGuest(_ context.Context, guestID primitive.ObjectID) ([]*models.GalleryItem, error) {
	return m.listGallery(func(i *models.GalleryItem) bool { return i.GuestID == guestID }), nil
}

func (m *memStore) DeleteGalleryItem(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gallery[id]; !ok {
		return models.ErrGalleryItemNotFound
	}
	delete(m.gallery, id)
	return nil
}

// catalog

func (m *memStore) ListCapturePlans(_ context.Context) ([]*models.CaptureLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.CaptureLimit{}
	for _, p := range m.plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCapturePlanByID(_ context.Context, id primitive.ObjectID) (*models.CaptureLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, models.ErrCapturePlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) EnsureCapturePlans(_ context.Context, plans []models.CaptureLimit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range plans {
		exists := false
		for _, stored := range m.plans {
			if stored.Name == p.Name {
				stored.Type, stored.PhotoLimit, stored.VideoLimit = p.Type, p.PhotoLimit, p.VideoLimit
				exists = true
			}
		}
		if !exists {
			cp := p
			cp.ID = primitive.NewObjectID()
			m.plans[cp.ID] = &cp
		}
	}
	return nil
}

func (m *memStore) planByName(name string) *models.CaptureLimit {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.Name == name {
			cp := *p
			return &cp
		}
	}
	return nil
}

// users

func (m *memStore) UpsertUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	if existing, ok := m.users[u.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	m.users[u.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memBlob struct {
	info    storage.BlobInfo
	deleted bool
}

// memBlobs is an in-memory storage.BlobStore.
type memBlobs struct {
	mu         sync.Mutex
	blobs      map[string]*memBlob
	failDelete map[string]bool
	deletes    []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: map[string]*memBlob{}, failDelete: map[string]bool{}}
}

func (b *memBlobs) put(key, contentType string, created time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = &memBlob{info: storage.BlobInfo{ContentType: contentType, Size: 1024, CreatedAt: created}}
}

func (b *memBlobs) exists(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	blob, ok := b.blobs[key]
	return ok && !blob.deleted
}

func (b *memBlobs) GenerateUploadURL(_ context.Context, key string) (string, error) {
	return "https://blobs.test/upload/" + key + "?sig=abc", nil
}

func (b *memBlobs) GetURL(_ context.Context, key string) (string, error) {
	if !b.exists(key) {
		return "", nil
	}
	return "https://blobs.test/" + key, nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDelete[key] {
		return errInjected
	}
	if blob, ok := b.blobs[key]; ok {
		blob.deleted = true
	}
	b.deletes = append(b.deletes, key)
	return nil
}

func (b *memBlobs) Stat(_ context.Context, key string) (*storage.BlobInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blob, ok := b.blobs[key]
	if !ok || blob.deleted {
		return nil, nil
	}
	info := blob.info
	return &info, nil
}

type published struct {
	routingKey string
	payload    interface{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{routingKey, payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.routingKey)
	}
	return out
}

type fakeAuth struct {
	password string
}

func (f *fakeAuth) AuthenticateUser(_ context.Context, email, password string) (*types.TokenResponse, error) {
	if password != f.password {
		return nil, errors.New("invalid login credentials")
	}
	resp := &types.TokenResponse{}
	resp.AccessToken = "access-" + strings.ToLower(email)
	resp.RefreshToken = "refresh"
	resp.ExpiresIn = 3600
	return resp, nil
}

func (f *fakeAuth) RefreshToken(_ context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken != "refresh" {
		return nil, errors.New("invalid refresh token")
	}
	resp := &types.TokenResponse{}
	resp.AccessToken = "access-refreshed"
	resp.RefreshToken = "refresh"
	resp.ExpiresIn = 3600
	return resp, nil
}

// fixture wires every service over one memStore.
type fixture struct {
	store     *memStore
	blobs     *memBlobs
	publisher *recordingPublisher
	catalog   *CatalogService
	gallery   *GalleryService
	guests    *GuestService
	events    *EventService
	users     *UserService
	now       time.Time
}

const ownerID = "owner-1"

func newFixture() *fixture {
	store := newMemStore()
	blobs := newMemBlobs()
	pub := &recordingPublisher{}
	log := zerolog.Nop()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	_ = store.EnsureCapturePlans(context.Background(), models.DefaultCapturePlans)

	catalog := NewCatalogService(store)
	gallery := NewGalleryService(store, store, store, store, blobs, pub, log)
	gallery.now = clock
	guests := NewGuestService(store, store, gallery, pub, log)
	guests.now = clock
	events := NewEventService(store, store, catalog, gallery, pub, log)
	events.now = clock
	users := NewUserService(store, store, &fakeAuth{password: "correct-horse"}, log)

	return &fixture{
		store:     store,
		blobs:     blobs,
		publisher: pub,
		catalog:   catalog,
		gallery:   gallery,
		guests:    guests,
		events:    events,
		users:     users,
		now:       now,
	}
}

func (f *fixture) createEvent(t testingT, start, end time.Time, tier, plan string) *models.Event {
	t.Helper()
	p := f.store.planByName(plan)
	if p == nil {
		t.Fatalf("no plan %q", plan)
	}
	e, err := f.events.CreateEvent(context.Background(), ownerID, &models.CreateEventRequest{
		Name:          "Summer Party",
		EventType:     "party",
		Location:      models.Location{Address: "1 Beach Rd", City: "Accra"},
		StartDate:     start,
		EndDate:       end,
		GuestTier:     tier,
		CapturePlanID: p.ID.Hex(),
		TermsAccepted: true,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

func (f *fixture) addGuest(t testingT, eventID primitive.ObjectID, nickname, visitorID string) *models.Guest {
	t.Helper()
	g, err := f.guests.RegisterGuest(context.Background(), eventID, &models.RegisterGuestRequest{
		Nickname:    nickname,
		Fingerprint: &models.Fingerprint{VisitorID: visitorID},
	})
	if err != nil {
		t.Fatalf("RegisterGuest: %v", err)
	}
	return g
}

// addItem stores a blob and a gallery record for guest.
func (f *fixture) addItem(t testingT, guest *models.Guest, contentType string) *models.GalleryItem {
	t.Helper()
	key := storage.NewKey(guest.EventID.Hex())
	f.blobs.put(key, contentType, f.now)
	item, err := f.gallery.RegisterUpload(context.Background(), guest.EventID, &models.RegisterUploadRequest{
		StorageID: key,
		GuestID:   guest.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	return item
}

type testingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}
