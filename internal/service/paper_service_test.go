package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examina/internal/apperr"
	"examina/internal/model"
)

func TestValidateStatusTransition(t *testing.T) {
	cases := []struct {
		name    string
		current model.PaperStatus
		next    model.PaperStatus
		allowed bool
	}{
		{"draft to published", model.PaperStatusDraft, model.PaperStatusPublished, true},
		{"draft to archived", model.PaperStatusDraft, model.PaperStatusArchived, true},
		{"published to archived", model.PaperStatusPublished, model.PaperStatusArchived, true},
		{"archived to published", model.PaperStatusArchived, model.PaperStatusPublished, true},
		{"published back to draft", model.PaperStatusPublished, model.PaperStatusDraft, false},
		{"archived back to draft", model.PaperStatusArchived, model.PaperStatusDraft, false},
		{"draft to draft", model.PaperStatusDraft, model.PaperStatusDraft, false},
		{"published to published", model.PaperStatusPublished, model.PaperStatusPublished, false},
		{"archived to archived", model.PaperStatusArchived, model.PaperStatusArchived, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateStatusTransition(tc.current, tc.next)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			var dataLogic *apperr.DataLogicError
			require.ErrorAs(t, err, &dataLogic)
		})
	}
}
