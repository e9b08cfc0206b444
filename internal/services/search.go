package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

var ErrEmptyRefID = errors.New("suggestion ref id is required")

// Adder appends a place to the selection, reporting false for duplicates.
type Adder interface {
	Add(p domain.Place) (domain.Place, bool)
}

type SelectSuggestionRequest struct {
	SessionID string
	RefID     string
	Display   string
}

// SelectSuggestion resolves a suggestion to coordinates and adds it to
// the selection. The place name falls back to the suggestion's display
// text when the detail carries none.
func SelectSuggestion(
	ctx context.Context,
	req SelectSuggestionRequest,
	searcher ports.PlaceSearcher,
	store Adder,
	notifier ports.Notifier,
) (domain.Place, bool, error) {
	resolved, display, err := resolveSuggestion(ctx, req.SessionID, req.RefID, req.Display, searcher, notifier)
	if err != nil {
		return domain.Place{}, false, err
	}

	place, added := store.Add(resolved)

	if !added {
		notifier.Notify(ctx, req.SessionID, domain.Notice{
			Message:  fmt.Sprintf("%q is already in your route.", place.DisplayName()),
			Severity: domain.SeverityWarning,
		})
		return place, false, nil
	}

	notifier.Notify(ctx, req.SessionID, domain.Notice{
		Message:  fmt.Sprintf("Added %q to your route.", display),
		Severity: domain.SeveritySuccess,
	})
	return place, true, nil
}

// Replacer swaps a selection entry in place.
type Replacer interface {
	Replace(id string, p domain.Place) (domain.Place, error)
}

type ReplaceSuggestionRequest struct {
	SessionID string
	ID        string
	RefID     string
	Display   string
}

// ReplaceWithSuggestion resolves a suggestion and puts it in place of the
// entry with req.ID. A place already in the route, by coordinates or by
// name, is rejected with a warning and the entry is left as it was.
func ReplaceWithSuggestion(
	ctx context.Context,
	req ReplaceSuggestionRequest,
	searcher ports.PlaceSearcher,
	store Replacer,
	notifier ports.Notifier,
) (domain.Place, error) {
	resolved, display, err := resolveSuggestion(ctx, req.SessionID, req.RefID, req.Display, searcher, notifier)
	if err != nil {
		return domain.Place{}, err
	}

	place, err := store.Replace(req.ID, resolved)
	switch {
	case errors.Is(err, domain.ErrDuplicatePlace):
		notifier.Notify(ctx, req.SessionID, domain.Notice{
			Message:  fmt.Sprintf("%q is already in your route.", place.DisplayName()),
			Severity: domain.SeverityWarning,
		})
		return place, err
	case errors.Is(err, domain.ErrPlaceNotFound):
		notifier.Notify(ctx, req.SessionID, domain.Notice{Message: "That place is no longer in your route.", Severity: domain.SeverityWarning})
		return domain.Place{}, err
	case err != nil:
		return domain.Place{}, fmt.Errorf("replace with suggestion: %w", err)
	}

	notifier.Notify(ctx, req.SessionID, domain.Notice{
		Message:  fmt.Sprintf("Changed the stop to %q.", display),
		Severity: domain.SeveritySuccess,
	})
	return place, nil
}

// resolveSuggestion looks up refID and builds the place to store. It
// reports lookup problems through notifier.
func resolveSuggestion(
	ctx context.Context,
	sessionID string,
	refID string,
	display string,
	searcher ports.PlaceSearcher,
	notifier ports.Notifier,
) (domain.Place, string, error) {
	refID = strings.TrimSpace(refID)
	if refID == "" {
		notifier.Notify(ctx, sessionID, domain.Notice{Message: "Please choose a place.", Severity: domain.SeverityWarning})
		return domain.Place{}, "", ErrEmptyRefID
	}

	detail, err := searcher.PlaceDetail(ctx, refID)
	if err != nil {
		log.Printf("select suggestion: place detail ref_id=%s err=%v", refID, err)
		notifier.Notify(ctx, sessionID, domain.Notice{Message: "Could not load place details.", Severity: domain.SeverityDanger})
		return domain.Place{}, "", fmt.Errorf("select suggestion %q: %w", refID, err)
	}

	if display == "" {
		display = detail.Display
	}
	name := detail.Name
	if name == "" {
		name = display
	}

	return domain.Place{
		Lat:  detail.Lat,
		Lon:  detail.Lng,
		Tags: map[string]string{domain.TagName: name},
	}, display, nil
}

// SuggestionStream turns a stream of keystrokes into debounced
// autocomplete queries. Every input supersedes the previous one: a
// result that resolves after newer input arrived is dropped instead of
// overwriting fresher suggestions.
type SuggestionStream struct {
	searcher  ports.PlaceSearcher
	debouncer *Debouncer
	emit      func(text string, suggestions []domain.Suggestion)
	onError   func(text string, err error)

	generation atomic.Uint64
}

func NewSuggestionStream(
	searcher ports.PlaceSearcher,
	debouncer *Debouncer,
	emit func(text string, suggestions []domain.Suggestion),
	onError func(text string, err error),
) *SuggestionStream {
	return &SuggestionStream{
		searcher:  searcher,
		debouncer: debouncer,
		emit:      emit,
		onError:   onError,
	}
}

// Input records the latest text. Blank text clears suggestions at once.
func (s *SuggestionStream) Input(ctx context.Context, text string) {
	gen := s.generation.Add(1)

	if strings.TrimSpace(text) == "" {
		s.debouncer.Stop()
		s.emit(text, []domain.Suggestion{})
		return
	}

	s.debouncer.Trigger(func() {
		suggestions, err := s.searcher.Autocomplete(ctx, text)
		if s.generation.Load() != gen {
			return
		}
		if err != nil {
			if s.onError != nil {
				s.onError(text, err)
			}
			return
		}
		s.emit(text, suggestions)
	})
}

// Close cancels any pending query and drops results still in flight.
func (s *SuggestionStream) Close() {
	s.generation.Add(1)
	s.debouncer.Stop()
}
