package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest entrée de création d'un projet.
type CreateProjectRequest struct {
	Nom        string           `json:"nom" validate:"required,max=200"`
	IDContact  string           `json:"id_contact" validate:"omitempty,uuid"`
	IDReferent string           `json:"id_referent" validate:"omitempty,uuid"`
	Budget     *decimal.Decimal `json:"budget"`
}

// UpdateProjectRequest mise à jour partielle ; seuls les champs présents sont écrits.
type UpdateProjectRequest struct {
	Nom         *string          `json:"nom" validate:"omitempty,max=200"`
	Statut      *string          `json:"statut"`
	Progression *int             `json:"progression" validate:"omitempty,min=0,max=100"`
	Budget      *decimal.Decimal `json:"budget"`
	IDContact   *string          `json:"id_contact" validate:"omitempty,uuid"`
	IDReferent  *string          `json:"id_referent" validate:"omitempty,uuid"`
}

// UpdateProjectBlobRequest remplacement d'un sous-formulaire JSON
// (PUT /projets/:id/decouverte ou /cuisine, coalescé par l'autosave).
type UpdateProjectBlobRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

// ProjectResponse sortie d'un projet (vue liste).
type ProjectResponse struct {
	ID          string          `json:"id"`
	Nom         string          `json:"nom"`
	Statut      string          `json:"statut"` // libellé client
	Stage       int             `json:"stage"`
	Progression int             `json:"progression"`
	Budget      decimal.Decimal `json:"budget"`
	IDContact   string          `json:"id_contact,omitempty"`
	IDReferent  string          `json:"id_referent,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProjectDetailsResponse fiche détail : projet + jointures dénormalisées + blobs.
type ProjectDetailsResponse struct {
	ProjectResponse
	Decouverte json.RawMessage  `json:"decouverte,omitempty"`
	Cuisine    json.RawMessage  `json:"cuisine,omitempty"`
	Contact    *ContactResponse `json:"contact"`
	Referent   *MemberResponse  `json:"referent"`
}

// ProjectListResponse listing paginé de projets.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
