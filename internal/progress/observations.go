package progress

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stargazer/internal/state"
)

const MaxRating = 5

// Observation is the per-object record edited on the detail screen.
type Observation struct {
	Observed bool   `json:"observed"`
	Rating   int    `json:"rating"`
	Note     string `json:"note"`
}

func (o Observation) Validate() error {
	if o.Rating < 0 || o.Rating > MaxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, o.Rating)
	}
	return nil
}

type ObservationStore struct {
	kv state.Store
}

func NewObservationStore(kv state.Store) *ObservationStore {
	return &ObservationStore{kv: kv}
}

// Read returns the record for objectID and whether anything was ever saved
// for it. Unparseable ratings read as 0.
func (s *ObservationStore) Read(ctx context.Context, objectID string) (Observation, bool, error) {
	keys := keysFor(objectID)
	vals, err := s.kv.MultiGet(ctx, []string{keys.Observed, keys.Rating, keys.Note})
	if err != nil {
		return Observation{}, false, storageErr("read", keys.Observed, err)
	}
	var o Observation
	obs, hasObs := vals[keys.Observed]
	rating, hasRating := vals[keys.Rating]
	note, hasNote := vals[keys.Note]
	o.Observed = obs == "1"
	if n, err := strconv.Atoi(strings.TrimSpace(rating)); err == nil {
		o.Rating = min(MaxRating, max(0, n))
	}
	o.Note = note
	saved := hasObs || hasRating || (hasNote && note != "")
	return o, saved, nil
}

// observationPairs encodes the three keys of the record for one batch.
func observationPairs(objectID string, o Observation) []state.Pair {
	keys := keysFor(objectID)
	observed := "0"
	if o.Observed {
		observed = "1"
	}
	return []state.Pair{
		{Key: keys.Observed, Value: observed},
		{Key: keys.Rating, Value: strconv.Itoa(o.Rating)},
		{Key: keys.Note, Value: o.Note},
	}
}
