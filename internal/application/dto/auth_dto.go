package dto

// RegisterRequest bootstrap d'une organisation avec son premier compte admin.
type RegisterRequest struct {
	OrganisationNom string `json:"organisation_nom" validate:"required,max=200"`
	SIREN           string `json:"siren" validate:"omitempty"`
	Prenom          string `json:"prenom" validate:"required,max=100"`
	Nom             string `json:"nom" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrée de connexion.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse sortie avec le token JWT et le membre connecté.
// L'organisation est résolue ici une fois pour toutes et portée par le token.
type LoginResponse struct {
	Token  string         `json:"token"`
	Member MemberResponse `json:"member"`
}
