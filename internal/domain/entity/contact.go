package entity

import "time"

// Contact représente un client ou prospect de l'organisation.
type Contact struct {
	ID             string
	OrganizationID string
	Prenom         string
	Nom            string
	Email          string
	Telephone      string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName renvoie "Prénom Nom" pour les listes et la recherche.
func (c *Contact) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Prenom == "" {
		return c.Nom
	}
	if c.Nom == "" {
		return c.Prenom
	}
	return c.Prenom + " " + c.Nom
}
