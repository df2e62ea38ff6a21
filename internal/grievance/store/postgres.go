package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/authority"
	"gramseva/internal/grievance/models"
	"gramseva/internal/sentinel"
	"gramseva/pkg/domain"
)

// PostgresStore persists grievances in PostgreSQL. Mutate runs inside a
// transaction that locks the grievance row with SELECT ... FOR UPDATE, so
// concurrent counter updates for one grievance serialize while other
// grievances proceed untouched, and the grievance update commits together
// with its audit entry and companion records.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed grievance store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const grievanceColumns = `
	id, grievance_number, reporter_id, reporter_name, reporter_mobile,
	title, category, description, village_name, priority,
	evidence_files, voice_recording_url, voice_transcription,
	status, assigned_to, resolution_timeline, due_date,
	resolved_at, resolution_notes, resolution_evidence, verification_deadline,
	authority_level, escalation_count, escalation_reason, escalation_due_date,
	is_escalated, escalated_at, can_resolve,
	user_satisfaction, user_satisfaction_at,
	community_verify_count, community_dispute_count,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, g *models.Grievance, entry *audit.Entry) error {
	if g == nil {
		return fmt.Errorf("grievance is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	evidence, err := json.Marshal(g.EvidenceFiles)
	if err != nil {
		return fmt.Errorf("marshal evidence files: %w", err)
	}
	resolutionEvidence, err := json.Marshal(g.ResolutionEvidence)
	if err != nil {
		return fmt.Errorf("marshal resolution evidence: %w", err)
	}

	query := `
		INSERT INTO grievances (` + grievanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		        $31, $32, $33, $34)
	`
	_, err = tx.ExecContext(ctx, query,
		uuid.UUID(g.ID), g.Number, uuid.UUID(g.ReporterID), g.ReporterName, g.ReporterMobile,
		g.Title, g.Category, g.Description, g.VillageName, string(g.Priority),
		evidence, nullString(g.VoiceRecordingURL), nullString(g.VoiceTranscription),
		string(g.Status), nullUserID(g.AssignedTo), g.ResolutionTimeline, nullTime(g.DueDate),
		nullTime(g.ResolvedAt), nullString(g.ResolutionNotes), resolutionEvidence, nullTime(g.VerificationDeadline),
		string(g.AuthorityLevel), g.EscalationCount, nullString(g.EscalationReason), nullTime(g.EscalationDueDate),
		g.IsEscalated, nullTime(g.EscalatedAt), nullBool(g.CanResolve),
		nullSatisfaction(g.Satisfaction), nullTime(g.SatisfactionAt),
		g.VerifyCount, g.DisputeCount,
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("grievance number %s: %w", g.Number, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert grievance: %w", err)
	}

	if err := s.appendAudit(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.GrievanceID) (*models.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id = $1`
	g, err := scanGrievance(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grievance %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get grievance: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) Mutate(ctx context.Context, id domain.GrievanceID, fn MutateFunc) (*models.Grievance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mutate tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id = $1 FOR UPDATE`
	g, err := scanGrievance(tx.QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grievance %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock grievance: %w", err)
	}

	cs, err := fn(g)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		// No-op: roll back the untouched transaction and return current state.
		return g, nil
	}
	if cs.Audit == nil {
		return nil, fmt.Errorf("mutation of grievance %s produced no audit entry", id)
	}

	if err := s.updateGrievance(ctx, tx, g); err != nil {
		return nil, err
	}
	if err := s.appendAudit(ctx, tx, cs.Audit); err != nil {
		return nil, err
	}
	if cs.Verification != nil {
		if err := s.insertVerification(ctx, tx, cs.Verification); err != nil {
			return nil, err
		}
	}
	if cs.Escalation != nil {
		if err := s.insertEscalation(ctx, tx, cs.Escalation); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mutate tx: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) updateGrievance(ctx context.Context, tx *sql.Tx, g *models.Grievance) error {
	evidence, err := json.Marshal(g.EvidenceFiles)
	if err != nil {
		return fmt.Errorf("marshal evidence files: %w", err)
	}
	resolutionEvidence, err := json.Marshal(g.ResolutionEvidence)
	if err != nil {
		return fmt.Errorf("marshal resolution evidence: %w", err)
	}

	query := `
		UPDATE grievances SET
			status = $2, assigned_to = $3, resolution_timeline = $4, due_date = $5,
			resolved_at = $6, resolution_notes = $7, resolution_evidence = $8,
			verification_deadline = $9, authority_level = $10, escalation_count = $11,
			escalation_reason = $12, escalation_due_date = $13, is_escalated = $14,
			escalated_at = $15, can_resolve = $16, user_satisfaction = $17,
			user_satisfaction_at = $18, community_verify_count = $19,
			community_dispute_count = $20, evidence_files = $21, updated_at = $22
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, query,
		uuid.UUID(g.ID),
		string(g.Status), nullUserID(g.AssignedTo), g.ResolutionTimeline, nullTime(g.DueDate),
		nullTime(g.ResolvedAt), nullString(g.ResolutionNotes), resolutionEvidence,
		nullTime(g.VerificationDeadline), string(g.AuthorityLevel), g.EscalationCount,
		nullString(g.EscalationReason), nullTime(g.EscalationDueDate), g.IsEscalated,
		nullTime(g.EscalatedAt), nullBool(g.CanResolve), nullSatisfaction(g.Satisfaction),
		nullTime(g.SatisfactionAt), g.VerifyCount,
		g.DisputeCount, evidence, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update grievance: %w", err)
	}
	return nil
}

// appendAudit computes the chain ref from the last committed entry for the
// grievance and inserts the new entry. The caller holds the grievance row
// lock, which serializes the chain per grievance.
func (s *PostgresStore) appendAudit(ctx context.Context, tx *sql.Tx, entry *audit.Entry) error {
	if entry == nil {
		return fmt.Errorf("audit entry is required")
	}

	var prev string
	err := tx.QueryRowContext(ctx,
		`SELECT ref FROM audit_entries WHERE grievance_id = $1 ORDER BY seq DESC LIMIT 1`,
		uuid.UUID(entry.GrievanceID),
	).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load last audit ref: %w", err)
	}

	ref, err := audit.ChainRef(prev, entry)
	if err != nil {
		return err
	}
	entry.Ref = ref

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_entries (id, grievance_id, event_type, payload, ref, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		uuid.UUID(entry.ID), uuid.UUID(entry.GrievanceID), string(entry.Type), payload, entry.Ref, entry.OccurredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("audit ref collision: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) insertVerification(ctx context.Context, tx *sql.Tx, v *models.Verification) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO verifications (id, grievance_id, voter_id, verification_type, status, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(v.ID), uuid.UUID(v.GrievanceID), uuid.UUID(v.VoterID),
		string(v.Type), v.Status, nullString(v.Comments), v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

func (s *PostgresStore) insertEscalation(ctx context.Context, tx *sql.Tx, e *models.EscalationRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO escalation_history (id, grievance_id, from_level, to_level, reason, escalated_by, auto_escalated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(e.ID), uuid.UUID(e.GrievanceID), string(e.FromLevel), string(e.ToLevel),
		e.Reason, nullUserID(e.EscalatedBy), e.AutoEscalated, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert escalation record: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "", nil)
}

func (s *PostgresStore) ListByReporter(ctx context.Context, reporterID domain.UserID) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "WHERE reporter_id = $1", []any{uuid.UUID(reporterID)})
}

func (s *PostgresStore) ListByAssignee(ctx context.Context, officialID domain.UserID) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "WHERE assigned_to = $1", []any{uuid.UUID(officialID)})
}

func (s *PostgresStore) ListAssignedOpen(ctx context.Context) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "WHERE status IN ('pending', 'in_progress')", nil)
}

func (s *PostgresStore) ListPendingVerification(ctx context.Context) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "WHERE status = 'pending_verification'", nil)
}

func (s *PostgresStore) ListDisputed(ctx context.Context) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "WHERE user_satisfaction = 'not_satisfied' OR community_dispute_count > 0", nil)
}

func (s *PostgresStore) ListOverdue(ctx context.Context, now time.Time) ([]*models.Grievance, error) {
	return s.listWhere(ctx, "WHERE due_date < $1 AND status IN ('pending', 'in_progress')", []any{now})
}

func (s *PostgresStore) listWhere(ctx context.Context, where string, args []any) ([]*models.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances ` + where + ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var out []*models.Grievance
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grievance: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grievances: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListVerifications(ctx context.Context, id domain.GrievanceID) ([]models.Verification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, grievance_id, voter_id, verification_type, status, comments, created_at
		FROM verifications WHERE grievance_id = $1 ORDER BY created_at DESC
	`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var out []models.Verification
	for rows.Next() {
		var (
			v                  models.Verification
			vid, gid, voterID  uuid.UUID
			voteType, comments sql.NullString
		)
		if err := rows.Scan(&vid, &gid, &voterID, &voteType, &v.Status, &comments, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		v.ID = domain.VerificationID(vid)
		v.GrievanceID = domain.GrievanceID(gid)
		v.VoterID = domain.UserID(voterID)
		v.Type = models.VoteType(voteType.String)
		v.Comments = comments.String
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListEscalations(ctx context.Context, id domain.GrievanceID) ([]models.EscalationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, grievance_id, from_level, to_level, reason, escalated_by, auto_escalated, created_at
		FROM escalation_history WHERE grievance_id = $1 ORDER BY created_at DESC
	`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("list escalations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var out []models.EscalationRecord
	for rows.Next() {
		var (
			e           models.EscalationRecord
			eid, gid    uuid.UUID
			from, to    string
			escalatedBy uuid.NullUUID
		)
		if err := rows.Scan(&eid, &gid, &from, &to, &e.Reason, &escalatedBy, &e.AutoEscalated, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan escalation record: %w", err)
		}
		e.ID = domain.EscalationID(eid)
		e.GrievanceID = domain.GrievanceID(gid)
		e.FromLevel = authority.Level(from)
		e.ToLevel = authority.Level(to)
		if escalatedBy.Valid {
			actor := domain.UserID(escalatedBy.UUID)
			e.EscalatedBy = &actor
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AuditTrail(ctx context.Context, id domain.GrievanceID) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, grievance_id, event_type, payload, ref, occurred_at
		FROM audit_entries WHERE grievance_id = $1 ORDER BY seq DESC
	`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var out []audit.Entry
	for rows.Next() {
		var (
			e         audit.Entry
			eid, gid  uuid.UUID
			eventType string
			payload   []byte
		)
		if err := rows.Scan(&eid, &gid, &eventType, &payload, &e.Ref, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.ID = domain.AuditEntryID(eid)
		e.GrievanceID = domain.GrievanceID(gid)
		e.Type = audit.EventType(eventType)
		p, err := audit.UnmarshalPayload(e.Type, payload)
		if err != nil {
			return nil, err
		}
		e.Payload = p
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGrievance(row scanner) (*models.Grievance, error) {
	var (
		g                            models.Grievance
		gid, reporterID              uuid.UUID
		assignedTo                   uuid.NullUUID
		priority, status, level      string
		evidence, resolutionEvidence []byte
		voiceURL, voiceTranscript    sql.NullString
		resolutionNotes              sql.NullString
		escalationReason             sql.NullString
		satisfaction                 sql.NullString
		dueDate, resolvedAt          sql.NullTime
		verificationDeadline         sql.NullTime
		escalationDueDate            sql.NullTime
		escalatedAt, satisfactionAt  sql.NullTime
		canResolve                   sql.NullBool
	)

	err := row.Scan(
		&gid, &g.Number, &reporterID, &g.ReporterName, &g.ReporterMobile,
		&g.Title, &g.Category, &g.Description, &g.VillageName, &priority,
		&evidence, &voiceURL, &voiceTranscript,
		&status, &assignedTo, &g.ResolutionTimeline, &dueDate,
		&resolvedAt, &resolutionNotes, &resolutionEvidence, &verificationDeadline,
		&level, &g.EscalationCount, &escalationReason, &escalationDueDate,
		&g.IsEscalated, &escalatedAt, &canResolve,
		&satisfaction, &satisfactionAt,
		&g.VerifyCount, &g.DisputeCount,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.ID = domain.GrievanceID(gid)
	g.ReporterID = domain.UserID(reporterID)
	g.Priority = models.Priority(priority)
	g.Status = models.Status(status)
	g.AuthorityLevel = authority.Level(level)
	g.VoiceRecordingURL = voiceURL.String
	g.VoiceTranscription = voiceTranscript.String
	g.ResolutionNotes = resolutionNotes.String
	g.EscalationReason = escalationReason.String

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &g.EvidenceFiles); err != nil {
			return nil, fmt.Errorf("decode evidence files: %w", err)
		}
	}
	if len(resolutionEvidence) > 0 {
		if err := json.Unmarshal(resolutionEvidence, &g.ResolutionEvidence); err != nil {
			return nil, fmt.Errorf("decode resolution evidence: %w", err)
		}
	}

	if assignedTo.Valid {
		id := domain.UserID(assignedTo.UUID)
		g.AssignedTo = &id
	}
	g.DueDate = timePtr(dueDate)
	g.ResolvedAt = timePtr(resolvedAt)
	g.VerificationDeadline = timePtr(verificationDeadline)
	g.EscalationDueDate = timePtr(escalationDueDate)
	g.EscalatedAt = timePtr(escalatedAt)
	g.SatisfactionAt = timePtr(satisfactionAt)
	if canResolve.Valid {
		v := canResolve.Bool
		g.CanResolve = &v
	}
	if satisfaction.Valid {
		v := models.Satisfaction(satisfaction.String)
		g.Satisfaction = &v
	}
	return &g, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullUserID(id *domain.UserID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}

func nullSatisfaction(s *models.Satisfaction) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*s), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
