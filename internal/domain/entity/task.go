package entity

import "time"

// Types de fiche : tâche classique ou mémo libre.
const (
	TaskKindTache = "Tâche"
	TaskKindMemo  = "Mémo"
)

// Codes de statut persistés en base (snake_case).
const (
	StatusCodeNotStarted = "non_commence"
	StatusCodeInProgress = "en_cours"
	StatusCodeDone       = "termine"
)

// Libellés de statut exposés aux clients.
const (
	StatusLabelNotStarted = "Non commencé"
	StatusLabelInProgress = "En cours"
	StatusLabelDone       = "Terminé"
)

// Task représente une tâche ou un mémo (vue liste et kanban).
// Statut et Progression sont maintenus en cohérence par les cas d'usage qui
// changent le statut (termine => 100, non_commence => 0), pas par la base.
type Task struct {
	ID             string
	OrganizationID string
	Ordre          int    // index de tri dans la colonne kanban
	Type           string // Tâche | Mémo
	Titre          string
	Tag            string
	ProjectID      string // vide si non rattachée à un projet
	ContactID      string // vide si non rattachée à un contact
	AssigneeID     string // salarié affecté (id_affecte_a)
	Statut         string // code : non_commence | en_cours | termine
	Progression    int    // 0–100
	DateEcheance   *time.Time
	Note           string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskPatch champs modifiables d'une tâche ; nil = champ non touché.
// Les mutations n'envoient que les champs réellement modifiés.
type TaskPatch struct {
	Ordre        *int
	Titre        *string
	Tag          *string
	ProjectID    *string
	ContactID    *string
	AssigneeID   *string
	Statut       *string
	Progression  *int
	DateEcheance *time.Time
	Note         *string
}

var labelToCode = map[string]string{
	StatusLabelNotStarted: StatusCodeNotStarted,
	StatusLabelInProgress: StatusCodeInProgress,
	StatusLabelDone:       StatusCodeDone,
}

var codeToLabel = map[string]string{
	StatusCodeNotStarted: StatusLabelNotStarted,
	StatusCodeInProgress: StatusLabelInProgress,
	StatusCodeDone:       StatusLabelDone,
}

// StatusToCode traduit un libellé client en code base.
// Toute entrée inconnue retombe sur non_commence, sans erreur.
func StatusToCode(label string) string {
	if code, ok := labelToCode[label]; ok {
		return code
	}
	return StatusCodeNotStarted
}

// StatusFromCode traduit un code base en libellé client.
// Tolère les lignes historiques où le libellé a été stocké tel quel ;
// toute autre entrée inconnue retombe sur "Non commencé".
func StatusFromCode(code string) string {
	if label, ok := codeToLabel[code]; ok {
		return label
	}
	if _, ok := labelToCode[code]; ok {
		return code // ligne historique : libellé stocké en guise de code
	}
	return StatusLabelNotStarted
}

// StageFromCode renvoie l'index de colonne kanban (0, 1 ou 2) pour un code.
func StageFromCode(code string) int {
	switch code {
	case StatusCodeInProgress:
		return 1
	case StatusCodeDone:
		return 2
	default:
		return 0
	}
}

// CodeFromStage renvoie le code base pour un index de colonne kanban.
// Stage est toujours 0, 1 ou 2 par construction côté client.
func CodeFromStage(stage int) string {
	switch stage {
	case 1:
		return StatusCodeInProgress
	case 2:
		return StatusCodeDone
	default:
		return StatusCodeNotStarted
	}
}

// ProgressionForStage applique la règle métier statut/progression :
// colonne Terminé force 100, colonne Non commencé force 0, colonne
// En cours laisse la progression courante intacte (pas d'interpolation).
func ProgressionForStage(stage, current int) int {
	switch stage {
	case 2:
		return 100
	case 0:
		return 0
	default:
		return current
	}
}
