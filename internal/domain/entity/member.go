package entity

import "time"

// Rôles valides pour Member.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleCommercial = "commercial"
)

// Statuts de compte d'un membre de l'équipe.
const (
	MemberStatusActif     = "actif"
	MemberStatusInvite    = "invite"
	MemberStatusDesactive = "desactive"
)

// Member représente un salarié de l'organisation (compte utilisateur).
type Member struct {
	ID             string
	OrganizationID string
	Prenom         string
	Nom            string
	Email          string
	Telephone      string
	PasswordHash   string // bcrypt, jamais en clair après persistance
	Statut         string // actif, invite, desactive
	RoleID         string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName renvoie "Prénom Nom" pour l'affichage (résolution salarie_name).
func (m *Member) DisplayName() string {
	if m == nil {
		return ""
	}
	if m.Prenom == "" {
		return m.Nom
	}
	if m.Nom == "" {
		return m.Prenom
	}
	return m.Prenom + " " + m.Nom
}

// MemberPatch champs modifiables d'un membre ; nil = champ non touché.
type MemberPatch struct {
	Prenom    *string
	Nom       *string
	Email     *string
	Telephone *string
	Statut    *string
	RoleID    *string
}

// Role représente un rôle applicatif attribuable aux membres.
type Role struct {
	ID             string
	OrganizationID string
	Nom            string // admin, manager, commercial
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
