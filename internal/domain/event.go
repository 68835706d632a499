package domain

// Types d'événements du flux de changements (alignés sur les change feeds SQL).
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent représente un changement publié après commit : insertion, mise à
// jour ou suppression d'une ligne. Old n'est renseigné que pour UPDATE/DELETE.
type ChangeEvent struct {
	Type           string `json:"event_type"` // INSERT | UPDATE | DELETE
	Table          string `json:"table"`
	OrganizationID string `json:"-"` // prédicat de filtrage, jamais sérialisé
	New            any    `json:"new,omitempty"`
	Old            any    `json:"old,omitempty"`
}

// EventPublisher publie les événements vers les abonnés du flux temps réel.
// L'implémentation ne doit jamais bloquer l'écriture appelante.
type EventPublisher interface {
	Publish(evt ChangeEvent)
}

// NopPublisher implémentation nulle (tests, flux désactivé).
type NopPublisher struct{}

func (NopPublisher) Publish(ChangeEvent) {}
