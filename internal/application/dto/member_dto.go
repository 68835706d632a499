package dto

import "time"

// InviteMemberRequest entrée d'invitation d'un membre de l'équipe.
// Le compte est créé au statut "invite" sans mot de passe ; le mot de passe
// est posé à l'activation.
type InviteMemberRequest struct {
	Prenom    string `json:"prenom" validate:"required,max=100"`
	Nom       string `json:"nom" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone"`
	IDRole    string `json:"id_role" validate:"omitempty,uuid"`
}

// UpdateMemberRequest mise à jour partielle d'un membre.
type UpdateMemberRequest struct {
	Prenom    *string `json:"prenom" validate:"omitempty,max=100"`
	Nom       *string `json:"nom" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Telephone *string `json:"telephone"`
	IDRole    *string `json:"id_role" validate:"omitempty,uuid"`
}

// UpdateMemberStatusRequest changement de statut de compte.
type UpdateMemberStatusRequest struct {
	Statut string `json:"statut" validate:"required,oneof=actif invite desactive"`
}

// MemberResponse sortie d'un membre (jamais de hash de mot de passe).
type MemberResponse struct {
	ID         string    `json:"id"`
	Prenom     string    `json:"prenom"`
	Nom        string    `json:"nom"`
	NomComplet string    `json:"nom_complet"`
	Email      string    `json:"email"`
	Telephone  string    `json:"telephone,omitempty"`
	Statut     string    `json:"statut"`
	IDRole     string    `json:"id_role,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MemberListResponse listing de l'équipe.
type MemberListResponse struct {
	Items []MemberResponse `json:"items"`
}

// RoleResponse sortie d'un rôle.
type RoleResponse struct {
	ID          string `json:"id"`
	Nom         string `json:"nom"`
	Description string `json:"description,omitempty"`
}
