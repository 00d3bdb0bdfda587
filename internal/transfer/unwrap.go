package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
)

// rawEnvelope keeps every field undecoded so each can be checked for shape
// without a type error hiding the others.
type rawEnvelope struct {
	Format     json.RawMessage `json:"format"`
	Version    json.RawMessage `json:"version"`
	ExportedAt json.RawMessage `json:"exportedAt"`
	State      json.RawMessage `json:"state"`
}

type rawState struct {
	Campaigns json.RawMessage `json:"campaigns"`
	Projects  json.RawMessage `json:"projects"`
}

// Unwrap validates an exported envelope and returns its normalized board.
// Every problem found is reported; a failed unwrap returns no state.
func Unwrap(data []byte) (*Result, error) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON: %v", ErrInvalidEnvelope, err)
	}

	exportedAt, errs := validateEnvelope(&env)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnvelope, errors.Join(errs...))
	}

	state := domain.NormalizeJSON(env.State)
	return &Result{
		State:      state,
		ExportedAt: exportedAt,
		Summary: Summary{
			CampaignCount: len(state.Campaigns),
			ProjectCount:  len(state.Projects),
		},
	}, nil
}
