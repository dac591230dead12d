package models

// Типы служебных записей протокола
const (
	MessageTypeBackupRequest  = "backup_request"
	MessageTypeBackupResponse = "backup_response"
)

// MessageKind классифицирует декодированную запись протокола.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindEdit
	KindBackupRequest
	KindBackupResponse
	KindEmpty
)

func (k MessageKind) String() string {
	switch k {
	case KindEdit:
		return "edit"
	case KindBackupRequest:
		return "backup_request"
	case KindBackupResponse:
		return "backup_response"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Message - одна NDJSON запись протокола обмена между пирами.
// Text и Lamport указатели, чтобы отсутствующее поле отличалось
// от пустого документа или нулевой метки.
type Message struct {
	Type    string  `json:"type,omitempty"`
	Text    *string `json:"text,omitempty"`
	Lamport *int64  `json:"lamport,omitempty"`
}

// NewEditMessage создает запись правки {"text", "lamport"}
func NewEditMessage(snap Snapshot) Message {
	text, lamport := snap.Text, snap.Lamport
	return Message{Text: &text, Lamport: &lamport}
}

// NewBackupRequest создает {"type":"backup_request"}
func NewBackupRequest() Message {
	return Message{Type: MessageTypeBackupRequest}
}

// NewBackupResponse строит ответ на backup_request: запись той же формы, что
// и правка {"text","lamport"}, либо {} если бэкапа нет.
// Входящие записи с type "backup_response" тоже принимаются как ответы.
func NewBackupResponse(snap *Snapshot) Message {
	if snap == nil {
		return Message{}
	}
	return NewEditMessage(*snap)
}

// Kind определяет тип записи по ее полям.
func (m Message) Kind() MessageKind {
	switch m.Type {
	case MessageTypeBackupRequest:
		return KindBackupRequest
	case MessageTypeBackupResponse:
		return KindBackupResponse
	case "":
		if m.Text != nil && m.Lamport != nil {
			return KindEdit
		}
		if m.Text == nil && m.Lamport == nil {
			return KindEmpty
		}
	}
	return KindUnknown
}

// Snapshot возвращает переданное состояние документа, если оба поля присутствуют
func (m Message) Snapshot() (Snapshot, bool) {
	if m.Text == nil || m.Lamport == nil {
		return Snapshot{}, false
	}
	return Snapshot{Text: *m.Text, Lamport: *m.Lamport}, true
}
