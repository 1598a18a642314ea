package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/rabbit"
	"github.com/joshua-takyi/snapvent/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGalleryFileName(t *testing.T) {
	created := time.UnixMilli(1767225600123)
	tests := []struct {
		event, nickname, contentType, want string
	}{
		{"Ama & Kofi's Wedding", "alice", "image/jpeg", "Ama___Kofi_s_Wedding_alice_1767225600123.jpg"},
		{"Party", "Bob K.", "video/mp4", "Party_Bob_K__1767225600123.mp4"},
		{"Party", "bob", "image/png; charset=binary", "Party_bob_1767225600123.png"},
		{"Party", "bob", "application/x-unknown-thing", "Party_bob_1767225600123.bin"},
		{"Party", "bob", "", "Party_bob_1767225600123.bin"},
	}
	for _, tt := range tests {
		if got := GalleryFileName(tt.event, tt.nickname, created, tt.contentType); got != tt.want {
			t.Errorf("GalleryFileName(%q, %q, %q) = %q, want %q", tt.event, tt.nickname, tt.contentType, got, tt.want)
		}
	}
}

func TestGenerateUploadURL(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	other := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")

	ticket, err := f.gallery.GenerateUploadURL(ctx, e.ID, alice.ID)
	if err != nil {
		t.Fatalf("GenerateUploadURL: %v", err)
	}
	if !storage.BelongsToEvent(ticket.StorageID, e.ID.Hex()) {
		t.Errorf("storage id %q not scoped to event", ticket.StorageID)
	}
	if !strings.Contains(ticket.UploadURL, ticket.StorageID) {
		t.Errorf("upload url %q does not target %q", ticket.UploadURL, ticket.StorageID)
	}

	if _, err := f.gallery.GenerateUploadURL(ctx, other.ID, alice.ID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("guest of another event: %v", err)
	}
	if _, err := f.gallery.GenerateUploadURL(ctx, e.ID, primitive.NewObjectID()); !errors.Is(err, models.ErrGuestNotFound) {
		t.Errorf("unknown guest: %v", err)
	}
}

func TestRegisterUpload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	other := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")

	item := f.addItem(t, alice, "image/jpeg")
	if item.EventID != e.ID || item.GuestID != alice.ID || !item.CreatedAt.Equal(f.now) {
		t.Errorf("unexpected item %+v", item)
	}
	keys := f.publisher.keys()
	if keys[len(keys)-1] != rabbit.RoutingGalleryUploaded {
		t.Errorf("last notification = %s", keys[len(keys)-1])
	}

	foreignKey := storage.NewKey(other.ID.Hex())
	if _, err := f.gallery.RegisterUpload(ctx, e.ID, &models.RegisterUploadRequest{StorageID: foreignKey, GuestID: alice.ID.Hex()}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("foreign storage id: %v", err)
	}
	if _, err := f.gallery.RegisterUpload(ctx, other.ID, &models.RegisterUploadRequest{StorageID: foreignKey, GuestID: alice.ID.Hex()}); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("guest of another event: %v", err)
	}
	if _, err := f.gallery.RegisterUpload(ctx, primitive.NewObjectID(), &models.RegisterUploadRequest{StorageID: foreignKey, GuestID: alice.ID.Hex()}); !errors.Is(err, models.ErrEventNotFound) {
		t.Errorf("unknown event: %v", err)
	}
	if _, err := f.gallery.RegisterUpload(ctx, e.ID, &models.RegisterUploadRequest{StorageID: "x", GuestID: "nope"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad guest id: %v", err)
	}
	if len(f.store.gallery) != 1 {
		t.Errorf("gallery = %d, want 1", len(f.store.gallery))
	}
}

func TestGuestUsage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")
	f.addItem(t, alice, "image/jpeg")
	f.addItem(t, alice, "image/png")
	f.addItem(t, alice, "video/mp4")

	usage, err := f.gallery.GuestUsage(ctx, e.ID, alice.ID)
	if err != nil {
		t.Fatalf("GuestUsage: %v", err)
	}
	want := models.CaptureUsage{PhotosUsed: 2, VideosUsed: 1, PhotoLimit: 25, VideoLimit: 5, PhotosLeft: 23, VideosLeft: 4}
	if *usage != want {
		t.Errorf("usage = %+v, want %+v", *usage, want)
	}
}

func TestGuestUsageUnlimited(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Unlimited")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")
	f.addItem(t, alice, "image/jpeg")

	usage, err := f.gallery.GuestUsage(context.Background(), e.ID, alice.ID)
	if err != nil {
		t.Fatalf("GuestUsage: %v", err)
	}
	if usage.PhotosLeft != models.Unlimited || usage.VideosLeft != models.Unlimited || usage.PhotosUsed != 1 {
		t.Errorf("unexpected usage %+v", usage)
	}
}

func TestRemaining(t *testing.T) {
	if got := remaining(10, 12); got != 0 {
		t.Errorf("over limit = %d", got)
	}
	if got := remaining(0, 0); got != 0 {
		t.Errorf("zero limit = %d", got)
	}
	if got := remaining(models.Unlimited, 500); got != models.Unlimited {
		t.Errorf("unlimited = %d", got)
	}
}

func TestListEventGalleryViews(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")
	bob := f.addGuest(t, e.ID, "bob", "dev2_bob")
	f.addItem(t, alice, "image/jpeg")
	f.addItem(t, bob, "video/mp4")

	views, err := f.gallery.ListEventGallery(ctx, ownerID, e.ID)
	if err != nil {
		t.Fatalf("ListEventGallery: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d", len(views))
	}
	for _, v := range views {
		if v.URL == "" || v.ContentType == "" || v.Size == 0 {
			t.Errorf("view without blob metadata: %+v", v)
		}
		if !strings.HasPrefix(v.FileName, "Summer_Party_"+v.GuestNickname+"_") {
			t.Errorf("file name %q does not name the guest %q", v.FileName, v.GuestNickname)
		}
	}

	if _, err := f.gallery.ListEventGallery(ctx, "intruder", e.ID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("intruder: %v", err)
	}

	guestViews, err := f.gallery.ListGuestGallery(ctx, ownerID, alice.ID)
	if err != nil || len(guestViews) != 1 || guestViews[0].GuestNickname != "alice" {
		t.Errorf("ListGuestGallery: %v %v", guestViews, err)
	}
	if _, err := f.gallery.ListGuestGallery(ctx, "intruder", alice.ID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("guest gallery intruder: %v", err)
	}
}

func TestGetDownload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")
	item := f.addItem(t, alice, "image/jpeg")

	view, err := f.gallery.GetDownload(ctx, ownerID, item.ID)
	if err != nil {
		t.Fatalf("GetDownload: %v", err)
	}
	if !strings.HasSuffix(view.FileName, ".jpg") || !strings.Contains(view.URL, item.StorageID) {
		t.Errorf("unexpected view %+v", view)
	}

	if _, err := f.gallery.GetDownload(ctx, "intruder", item.ID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("intruder: %v", err)
	}

	_ = f.blobs.Delete(ctx, item.StorageID)
	if _, err := f.gallery.GetDownload(ctx, ownerID, item.ID); !errors.Is(err, models.ErrGalleryItemNotFound) {
		t.Errorf("missing blob: %v", err)
	}
}

func TestDeleteGalleryItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")
	item := f.addItem(t, alice, "image/jpeg")

	if err := f.gallery.DeleteGalleryItem(ctx, "intruder", item.ID); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("intruder: %v", err)
	}
	if !f.blobs.exists(item.StorageID) {
		t.Fatal("intruder removed the blob")
	}

	if err := f.gallery.DeleteGalleryItem(ctx, ownerID, item.ID); err != nil {
		t.Fatalf("DeleteGalleryItem: %v", err)
	}
	if f.blobs.exists(item.StorageID) {
		t.Error("blob still exists")
	}
	if err := f.gallery.DeleteGalleryItem(ctx, ownerID, item.ID); !errors.Is(err, models.ErrGalleryItemNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestDeleteEventGalleryCountsSuccesses(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	e := f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Standard")
	alice := f.addGuest(t, e.ID, "alice", "dev1_alice")
	f.addItem(t, alice, "image/jpeg")
	stuck := f.addItem(t, alice, "image/jpeg")
	f.addItem(t, alice, "video/mp4")
	f.blobs.failDelete[stuck.StorageID] = true

	deleted, err := f.gallery.DeleteEventGallery(ctx, ownerID, e.ID)
	if err != nil {
		t.Fatalf("DeleteEventGallery: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if len(f.store.gallery) != 1 {
		t.Errorf("gallery = %d, want the failed item only", len(f.store.gallery))
	}
	if len(f.store.guests) != 1 {
		t.Error("guests must survive a gallery purge")
	}

	if _, err := f.gallery.DeleteEventGallery(ctx, "intruder", e.ID); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("intruder: %v", err)
	}
}
