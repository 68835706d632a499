package dto

import "time"

// CreateContactRequest entrée de création d'un contact.
type CreateContactRequest struct {
	Prenom    string `json:"prenom" validate:"omitempty,max=100"`
	Nom       string `json:"nom" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Telephone string `json:"telephone"`
}

// ContactResponse sortie d'un contact.
type ContactResponse struct {
	ID         string    `json:"id"`
	Prenom     string    `json:"prenom,omitempty"`
	Nom        string    `json:"nom"`
	NomComplet string    `json:"nom_complet"`
	Email      string    `json:"email,omitempty"`
	Telephone  string    `json:"telephone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ContactListResponse résultat de recherche de contacts.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
}
