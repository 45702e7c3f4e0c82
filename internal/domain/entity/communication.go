package entity

// DiscussionTopic tema de discusión entre usuarios de la escuela.
type DiscussionTopic struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	CreatedBy      string   `json:"createdBy"`
	CreatedAt      string   `json:"createdAt"`
	ParticipantIDs []string `json:"participantIds"`
	Status         string   `json:"status"` // Open | Closed
}

// DiscussionMessage mensaje dentro de un tema.
type DiscussionMessage struct {
	ID        string `json:"id"`
	TopicID   string `json:"topicId"`
	UserID    string `json:"userId"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	ReplyToID string `json:"replyToId,omitempty"`
}

// Tipos de notificación.
const (
	NotificationMessage       = "message"
	NotificationTopicInvite   = "topic_invite"
	NotificationAdminAlert    = "admin_alert"
	NotificationRequestUpdate = "request_update"
)

// Notification aviso para un usuario. La colección se guarda de la más nueva a la más vieja.
type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	Timestamp string `json:"timestamp"`
	RelatedID string `json:"relatedId,omitempty"`
}

// PrependNotifications devuelve added ++ existing sin modificar ninguno de los dos slices.
func PrependNotifications(existing, added []Notification) []Notification {
	out := make([]Notification, 0, len(added)+len(existing))
	out = append(out, added...)
	return append(out, existing...)
}

// MarkNotificationRead devuelve una colección nueva donde solo la notificación id queda leída.
// Si id no existe la colección resultante es igual a la original.
func MarkNotificationRead(existing []Notification, id string) []Notification {
	out := make([]Notification, len(existing))
	for i, n := range existing {
		if n.ID == id {
			n.Read = true
		}
		out[i] = n
	}
	return out
}

// Estados de una solicitud interna.
const (
	RequestPending   = "Pendente"
	RequestReviewing = "Em Análise"
	RequestApproved  = "Aprovado"
	RequestConcluded = "Concluído"
	RequestRejected  = "Rejeitado"
)

// SchoolRequest solicitud interna entre usuarios (p. ej. encargado → secretaría).
type SchoolRequest struct {
	ID          string         `json:"id"`
	RequesterID string         `json:"requesterId"`
	RecipientID string         `json:"recipientId"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
	Feedback    string         `json:"feedback,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
