package domain

import (
	"strconv"
	"strings"
	"time"
)

// KeyPrefix namespaces all hansard keys in the index store.
const KeyPrefix = "hansard:"

// SpeechKeyPrefix is the key prefix for speech hashes.
const SpeechKeyPrefix = KeyPrefix + "speech:"

// ChairSpeaker is the sentinel speaker value used for procedural entries by
// the presiding officer. Hits queries exclude it unless explicitly included.
const ChairSpeaker = "The Speaker"

// ChairsSeparator joins the multi-valued chairs field into one stored string.
const ChairsSeparator = ";"

// Stored hash field names of a speech document.
const (
	FieldTranscript = "transcript"
	FieldOrder      = "order"
	FieldSession    = "session"
	FieldTime       = "time"
	FieldChairs     = "chairs"
	FieldTitle      = "title"
	FieldSpeaker    = "speaker"
	FieldParty      = "party"
	FieldMember     = "member"
	FieldText       = "text"
)

// SpeechFields lists every stored field, in export column order.
var SpeechFields = []string{
	FieldTranscript, FieldOrder, FieldSession, FieldTime, FieldChairs,
	FieldTitle, FieldSpeaker, FieldParty, FieldMember, FieldText,
}

// Speech is one transcribed speech from a debate transcript.
type Speech struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Order      int       `json:"order"`
	Session    string    `json:"session"`
	Time       time.Time `json:"time"`
	Chairs     []string  `json:"chairs"`
	Title      string    `json:"title"`
	Speaker    string    `json:"speaker"`
	Party      string    `json:"party"`
	MemberID   string    `json:"member_id,omitempty"`
	Text       string    `json:"text"`
}

// SpeechFromFields reconstructs a Speech from its stored hash fields.
// Unparseable numerics fall back to zero values; the index is the source of
// truth and a malformed document should not fail a whole result page.
func SpeechFromFields(id string, fields map[string]string) Speech {
	sp := Speech{
		ID:         id,
		Transcript: fields[FieldTranscript],
		Session:    fields[FieldSession],
		Title:      fields[FieldTitle],
		Speaker:    fields[FieldSpeaker],
		Party:      fields[FieldParty],
		MemberID:   fields[FieldMember],
		Text:       fields[FieldText],
	}
	if v := fields[FieldOrder]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			sp.Order = n
		}
	}
	if v := fields[FieldTime]; v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			sp.Time = time.Unix(sec, 0).UTC()
		}
	}
	if v := fields[FieldChairs]; v != "" {
		sp.Chairs = strings.Split(v, ChairsSeparator)
	}
	return sp
}

// ToFields flattens a Speech into stored hash fields.
func (sp Speech) ToFields() map[string]string {
	return map[string]string{
		FieldTranscript: sp.Transcript,
		FieldOrder:      strconv.Itoa(sp.Order),
		FieldSession:    sp.Session,
		FieldTime:       strconv.FormatInt(sp.Time.Unix(), 10),
		FieldChairs:     strings.Join(sp.Chairs, ChairsSeparator),
		FieldTitle:      sp.Title,
		FieldSpeaker:    sp.Speaker,
		FieldParty:      sp.Party,
		FieldMember:     sp.MemberID,
		FieldText:       sp.Text,
	}
}

// Key returns the store key for this speech.
func (sp Speech) Key() string {
	return SpeechKeyPrefix + sp.ID
}
