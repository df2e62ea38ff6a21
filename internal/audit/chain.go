package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ChainRef computes the tamper-evident reference for an entry given the ref of
// the previous entry for the same grievance ("" for the first entry). The ref
// is sha256(prevRef || canonical body) rendered as 64 hex characters, so each
// entry commits to its full per-grievance history. Global uniqueness is
// additionally enforced by the stores at append time.
func ChainRef(prevRef string, e *Entry) (string, error) {
	body, err := json.Marshal(struct {
		GrievanceID string    `json:"grievanceId"`
		Type        EventType `json:"eventType"`
		Payload     Payload   `json:"payload"`
		OccurredAt  string    `json:"occurredAt"`
	}{
		GrievanceID: e.GrievanceID.String(),
		Type:        e.Type,
		Payload:     e.Payload,
		OccurredAt:  e.OccurredAt.Format("2006-01-02T15:04:05.000000000Z07:00"),
	})
	if err != nil {
		return "", fmt.Errorf("marshal audit entry body: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(prevRef))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChain recomputes the ref chain over entries in chronological order and
// reports the first entry whose stored ref does not match. A nil error means
// the trail is intact.
func VerifyChain(entries []Entry) error {
	prev := ""
	for i := range entries {
		want, err := ChainRef(prev, &entries[i])
		if err != nil {
			return err
		}
		if entries[i].Ref != want {
			return fmt.Errorf("audit chain broken at entry %d (%s)", i, entries[i].ID)
		}
		prev = entries[i].Ref
	}
	return nil
}
