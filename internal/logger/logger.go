package logger

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog instance. Call this before anything logs.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

var auditLog = zerolog.New(os.Stdout).With().Timestamp().Str("log_type", "audit").Logger()

// SetAuditOutput redirects audit records to w. Tests use it to assert on the
// emitted records.
func SetAuditOutput(w io.Writer) {
	auditLog = auditLog.Output(w)
}

// Audit emits one structured before/after record per mutation. The sink is
// whatever stdout is wired to; the record itself is the contract.
func Audit(table string, referenceID uuid.UUID, action string, previousState, currentState any) {
	auditLog.Info().
		Str("table_name", table).
		Str("reference_id", referenceID.String()).
		Str("action", action).
		Interface("previous_state", previousState).
		Interface("current_state", currentState).
		Msg("audit")
}
