package dto

import "time"

// CreateTaskRequest entrée de création d'une tâche ou d'un mémo.
// Statut reçoit le libellé client ("Non commencé", "En cours", "Terminé") ;
// DateEcheance est une date au format 2006-01-02.
type CreateTaskRequest struct {
	Type         string  `json:"type" validate:"omitempty,oneof=Tâche Mémo"`
	Titre        string  `json:"titre" validate:"required,max=200"`
	Tag          string  `json:"tag" validate:"omitempty,max=60"`
	IDProjet     string  `json:"id_projet" validate:"omitempty,uuid"`
	IDContact    string  `json:"id_contact" validate:"omitempty,uuid"`
	IDAffecteA   string  `json:"id_affecte_a" validate:"omitempty,uuid"`
	Statut       string  `json:"statut"`
	Progression  *int    `json:"progression" validate:"omitempty,min=0,max=100"`
	DateEcheance *string `json:"date_echeance"`
	Note         string  `json:"note"`
	Ordre        *int    `json:"ordre"`
}

// UpdateTaskRequest mise à jour partielle ; seuls les champs présents sont écrits.
type UpdateTaskRequest struct {
	Titre        *string `json:"titre" validate:"omitempty,max=200"`
	Tag          *string `json:"tag" validate:"omitempty,max=60"`
	IDProjet     *string `json:"id_projet" validate:"omitempty,uuid"`
	IDContact    *string `json:"id_contact" validate:"omitempty,uuid"`
	IDAffecteA   *string `json:"id_affecte_a" validate:"omitempty,uuid"`
	Progression  *int    `json:"progression" validate:"omitempty,min=0,max=100"`
	DateEcheance *string `json:"date_echeance"`
	Note         *string `json:"note"`
	Ordre        *int    `json:"ordre"`
}

// UpdateTaskStatusRequest changement de statut par libellé (vue liste).
type UpdateTaskStatusRequest struct {
	Statut string `json:"statut" validate:"required"`
}

// UpdateTaskStageRequest changement de colonne kanban (vue kanban).
type UpdateTaskStageRequest struct {
	Stage int `json:"stage" validate:"min=0,max=2"`
}

// TaskResponse sortie d'une tâche. Statut porte le libellé client, Stage
// l'index de colonne kanban ; SalarieName est résolu depuis l'équipe si un
// salarié est affecté, sinon null.
type TaskResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Titre        string    `json:"titre"`
	Tag          string    `json:"tag,omitempty"`
	IDProjet     string    `json:"id_projet,omitempty"`
	IDContact    string    `json:"id_contact,omitempty"`
	IDAffecteA   string    `json:"id_affecte_a,omitempty"`
	SalarieName  *string   `json:"salarie_name"`
	Statut       string    `json:"statut"`
	Stage        int       `json:"stage"`
	Progression  int       `json:"progression"`
	DateEcheance *string   `json:"date_echeance"`
	Note         string    `json:"note,omitempty"`
	Ordre        int       `json:"ordre"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskListResponse listing de tâches.
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
}
