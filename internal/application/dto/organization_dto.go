package dto

import "time"

// UpdateOrganizationRequest mise à jour du profil entreprise.
// Les identifiants légaux sont validés côté serveur (SIREN/SIRET/TVA/IBAN).
type UpdateOrganizationRequest struct {
	Nom         *string `json:"nom" validate:"omitempty,max=200"`
	Adresse     *string `json:"adresse" validate:"omitempty,max=300"`
	CodePostal  *string `json:"code_postal" validate:"omitempty,max=10"`
	Ville       *string `json:"ville" validate:"omitempty,max=100"`
	SIREN       *string `json:"siren"`
	SIRET       *string `json:"siret"`
	TVAIntracom *string `json:"tva_intracom"`
	IBAN        *string `json:"iban"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Telephone   *string `json:"telephone"`
}

// OrganizationResponse sortie du profil entreprise.
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Nom         string    `json:"nom"`
	Adresse     string    `json:"adresse,omitempty"`
	CodePostal  string    `json:"code_postal,omitempty"`
	Ville       string    `json:"ville,omitempty"`
	SIREN       string    `json:"siren,omitempty"`
	SIRET       string    `json:"siret,omitempty"`
	TVAIntracom string    `json:"tva_intracom,omitempty"`
	IBAN        string    `json:"iban,omitempty"`
	Email       string    `json:"email,omitempty"`
	Telephone   string    `json:"telephone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
