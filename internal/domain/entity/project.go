package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Champs de sous-formulaire autosauvegardés d'un projet (blobs JSON libres).
const (
	ProjectBlobDecouverte = "decouverte"
	ProjectBlobCuisine    = "cuisine"
)

// Project représente un projet d'agencement (cuisine / rénovation).
// Decouverte et Cuisine sont des blobs JSON libres remplis par les
// sous-formulaires et autosauvegardés champ par champ.
type Project struct {
	ID             string
	OrganizationID string
	Nom            string
	Statut         string // code : non_commence | en_cours | termine
	Progression    int    // 0–100
	Budget         decimal.Decimal
	ContactID      string // client lié (dénormalisé 1:1)
	ReferentID     string // salarié référent (dénormalisé 1:1)
	Decouverte     json.RawMessage
	Cuisine        json.RawMessage
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProjectPatch champs modifiables d'un projet ; nil = champ non touché.
type ProjectPatch struct {
	Nom         *string
	Statut      *string
	Progression *int
	Budget      *decimal.Decimal
	ContactID   *string
	ReferentID  *string
}

// ProjectDetails projet avec ses jointures dénormalisées (fiche détail).
type ProjectDetails struct {
	Project  Project
	Contact  *Contact // nil si aucun client lié
	Referent *Member  // nil si aucun référent
}
