package store

import (
	"context"
	"hash/fnv"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/yougen/yougen/internal/logging"
)

// NoteColors is the palette note colours are drawn from.
var NoteColors = []string{"blue", "green", "yellow", "pink", "purple", "orange", "teal", "indigo"}

// ColorFor returns the palette colour derived from a note id. The same id
// always yields the same colour.
func ColorFor(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return NoteColors[h.Sum32()%uint32(len(NoteColors))]
}

// NoteStore persists notes, many per resource.
type NoteStore struct {
	*env
	col *Collection[Note, string]
}

// Create stores a new note built from draft with a fresh id and timestamps.
func (s *NoteStore) Create(ctx context.Context, draft NoteDraft) (Note, error) {
	now := s.stamp()
	note := Note{
		ID:             s.newID(),
		ResourceID:     draft.ResourceID,
		Title:          draft.Title,
		Content:        draft.Content,
		RichContent:    draft.RichContent,
		Tags:           draft.Tags,
		Pinned:         draft.Pinned,
		Color:          draft.Color,
		CreatedAt:      now,
		UpdatedAt:      now,
		VideoTimestamp: draft.VideoTimestamp,
		FromChatID:     draft.FromChatID,
	}
	if note.Tags == nil {
		note.Tags = []NoteTag{}
	}
	if note.Color == "" {
		note.Color = ColorFor(note.ID)
	}

	err := s.col.modify(ctx, func(notes []Note) ([]Note, bool, error) {
		return append(notes, note), true, nil
	})
	if err != nil {
		return Note{}, err
	}
	s.logger.Debug("note created", "note_id", note.ID, logging.FieldResourceID, note.ResourceID)
	return note, nil
}

// Update replaces the stored note with the same id and sets updatedAt to now,
// whatever the caller supplied. A zero createdAt or empty colour keeps the
// stored value. It returns nil without writing when no such note exists.
func (s *NoteStore) Update(ctx context.Context, note Note) (*Note, error) {
	var stored *Note
	err := s.col.modify(ctx, func(notes []Note) ([]Note, bool, error) {
		i := s.col.indexOf(notes, note.ID)
		if i < 0 {
			return notes, false, nil
		}
		if note.CreatedAt == 0 {
			note.CreatedAt = notes[i].CreatedAt
		}
		if note.Color == "" {
			note.Color = notes[i].Color
		}
		if note.Tags == nil {
			note.Tags = []NoteTag{}
		}
		note.UpdatedAt = s.stamp()
		notes[i] = note
		stored = &note
		return notes, true, nil
	})
	if err != nil {
		return nil, err
	}
	return withColor(stored), nil
}

// SetPinned changes only the pinned flag and updatedAt. It returns nil when
// no such note exists.
func (s *NoteStore) SetPinned(ctx context.Context, id string, pinned bool) (*Note, error) {
	var stored *Note
	err := s.col.modify(ctx, func(notes []Note) ([]Note, bool, error) {
		i := s.col.indexOf(notes, id)
		if i < 0 {
			return notes, false, nil
		}
		notes[i].Pinned = pinned
		notes[i].UpdatedAt = s.stamp()
		n := notes[i]
		stored = &n
		return notes, true, nil
	})
	if err != nil {
		return nil, err
	}
	return withColor(stored), nil
}

// Remove deletes the note with id. Missing ids are ignored.
func (s *NoteStore) Remove(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}

// Get returns the note with id, or nil.
func (s *NoteStore) Get(ctx context.Context, id string) (*Note, error) {
	n, err := s.col.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return withColor(n), nil
}

// List returns every note in storage order.
func (s *NoteStore) List(ctx context.Context) ([]Note, error) {
	notes, err := s.col.All(ctx)
	if err != nil {
		return nil, err
	}
	return colorAll(notes), nil
}

// ListByResource returns the notes attached to resourceID, pinned notes first
// and each group newest first.
func (s *NoteStore) ListByResource(ctx context.Context, resourceID string) ([]Note, error) {
	notes, err := s.col.Filter(ctx, func(n Note) bool {
		return n.ResourceID == resourceID
	})
	if err != nil {
		return nil, err
	}
	SortNotes(notes)
	return colorAll(notes), nil
}

// ListAllSorted returns every note, pinned first and each group newest first.
func (s *NoteStore) ListAllSorted(ctx context.Context) ([]Note, error) {
	notes, err := s.col.All(ctx)
	if err != nil {
		return nil, err
	}
	SortNotes(notes)
	return colorAll(notes), nil
}

// Search returns notes whose title or text contains query, ignoring case, in
// pinned-first order. An empty query matches every note.
func (s *NoteStore) Search(ctx context.Context, query string) ([]Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListAllSorted(ctx)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	notes, err := s.col.Filter(ctx, func(n Note) bool {
		return strings.Contains(fold.String(n.Title), needle) ||
			strings.Contains(fold.String(NoteText(n)), needle)
	})
	if err != nil {
		return nil, err
	}
	SortNotes(notes)
	return colorAll(notes), nil
}

// History groups notes by how recently they were updated.
func (s *NoteStore) History(ctx context.Context) (History[Note], error) {
	notes, err := s.col.All(ctx)
	if err != nil {
		return History[Note]{}, err
	}
	return groupByRecency(colorAll(notes), func(n Note) Millis { return n.UpdatedAt }, s.now()), nil
}

// SortNotes orders notes pinned first, then by createdAt descending. Ties keep
// their relative order.
func SortNotes(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		}
		return 0
	})
}

func withColor(n *Note) *Note {
	if n != nil && n.Color == "" {
		n.Color = ColorFor(n.ID)
	}
	return n
}

func colorAll(notes []Note) []Note {
	for i := range notes {
		withColor(&notes[i])
	}
	return notes
}
