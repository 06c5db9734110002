// Package notes stores free-form sky notes with an optional photo.
package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"stargazer/internal/media"
	"stargazer/internal/state"
)

const Key = "@notes"

var (
	ErrEmptyText = errors.New("note text is required")
	ErrNotFound  = errors.New("note not found")
)

type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ImageURI  string    `json:"imageUri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Photo is an image attached to a note on create or update.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

type Service struct {
	mu     sync.Mutex
	kv     state.Store
	photos media.Store
	log    *clog.Logger
	now    func() time.Time
}

func NewService(kv state.Store, photos media.Store, log *clog.Logger) *Service {
	if log == nil {
		log = clog.New(io.Discard)
	}
	return &Service{kv: kv, photos: photos, log: log, now: time.Now}
}

// List returns notes in the order they were created.
func (s *Service) List(ctx context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Note, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Note{}, err
	}
	for _, n := range list {
		if n.ID == id {
			return n, nil
		}
	}
	return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Service) Create(ctx context.Context, text string, photo *Photo) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, ErrEmptyText
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return Note{}, err
	}
	now := s.now().UTC()
	n := Note{ID: uuid.NewString(), Text: text, CreatedAt: now, UpdatedAt: now}
	if photo != nil {
		uri, err := s.putPhoto(ctx, photo)
		if err != nil {
			return Note{}, err
		}
		n.ImageURI = uri
	}
	if err := s.save(ctx, append(list, n)); err != nil {
		s.dropPhoto(ctx, n.ImageURI)
		return Note{}, err
	}
	s.log.Debug("notes.create", "id", n.ID, "photo", n.ImageURI != "")
	return n, nil
}

// Update replaces the text of note id. A nil photo keeps the current one.
func (s *Service) Update(ctx context.Context, id, text string, photo *Photo) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, ErrEmptyText
	}
	return s.modify(ctx, id, func(n *Note) (string, error) {
		n.Text = text
		if photo == nil {
			return "", nil
		}
		uri, err := s.putPhoto(ctx, photo)
		if err != nil {
			return "", err
		}
		old := n.ImageURI
		n.ImageURI = uri
		return old, nil
	})
}

// RemovePhoto detaches and deletes the photo of note id.
func (s *Service) RemovePhoto(ctx context.Context, id string) (Note, error) {
	return s.modify(ctx, id, func(n *Note) (string, error) {
		old := n.ImageURI
		n.ImageURI = ""
		return old, nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(list, func(n Note) bool { return n.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	uri := list[i].ImageURI
	if err := s.save(ctx, slices.Delete(list, i, i+1)); err != nil {
		return err
	}
	s.dropPhoto(ctx, uri)
	s.log.Debug("notes.delete", "id", id)
	return nil
}

// modify applies fn to note id and persists it. fn returns a photo URI that
// is removed once the new list is stored.
func (s *Service) modify(ctx context.Context, id string, fn func(*Note) (string, error)) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return Note{}, err
	}
	i := slices.IndexFunc(list, func(n Note) bool { return n.ID == id })
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n := list[i]
	stale, err := fn(&n)
	if err != nil {
		return Note{}, err
	}
	n.UpdatedAt = s.now().UTC()
	list[i] = n
	if err := s.save(ctx, list); err != nil {
		if n.ImageURI != stale {
			s.dropPhoto(ctx, n.ImageURI)
		}
		return Note{}, err
	}
	if stale != n.ImageURI {
		s.dropPhoto(ctx, stale)
	}
	return n, nil
}

func (s *Service) load(ctx context.Context) ([]Note, error) {
	var list []Note
	if _, err := state.GetJSON(ctx, s.kv, Key, &list); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, list []Note) error {
	if list == nil {
		list = []Note{}
	}
	if err := state.SetJSON(ctx, s.kv, Key, list); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

func (s *Service) putPhoto(ctx context.Context, p *Photo) (string, error) {
	if s.photos == nil {
		return "", fmt.Errorf("no photo store configured")
	}
	if len(p.Data) == 0 {
		return "", fmt.Errorf("photo %s is empty", p.Name)
	}
	uri, err := s.photos.Put(ctx, p.Name, p.Data, p.ContentType)
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return uri, nil
}

// dropPhoto deletes uri and only logs failures.
func (s *Service) dropPhoto(ctx context.Context, uri string) {
	if uri == "" || s.photos == nil {
		return
	}
	if err := s.photos.Delete(ctx, uri); err != nil {
		s.log.Warn("notes.photo_cleanup", "uri", uri, "err", err)
	}
}
