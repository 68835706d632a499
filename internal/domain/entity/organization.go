package entity

import "time"

// Organization représente une entreprise cliente de la plateforme (tenant).
// Une seule ligne par tenant, chargée une fois par session.
type Organization struct {
	ID          string
	Nom         string
	Adresse     string
	CodePostal  string
	Ville       string
	SIREN       string // 9 chiffres, clé Luhn
	SIRET       string // 14 chiffres (SIREN + NIC)
	TVAIntracom string // FR + clé + SIREN
	IBAN        string
	Email       string
	Telephone   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrganizationPatch champs modifiables du profil ; nil = champ non touché.
type OrganizationPatch struct {
	Nom         *string
	Adresse     *string
	CodePostal  *string
	Ville       *string
	SIREN       *string
	SIRET       *string
	TVAIntracom *string
	IBAN        *string
	Email       *string
	Telephone   *string
}
