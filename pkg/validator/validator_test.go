package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renovapro/crm-api/pkg/validator"
)

// ──────────────────────────────────────────────────────────────────────────────
// SIREN / SIRET
// ──────────────────────────────────────────────────────────────────────────────

// Cas 1 : SIREN valides, avec ou sans séparateurs de saisie.
func TestSIREN_Valides(t *testing.T) {
	assert.True(t, validator.SIREN("732829320"))
	assert.True(t, validator.SIREN("732 829 320"))
	assert.True(t, validator.SIREN("732.829.320"))
}

// Cas 2 : SIREN refusés : clé Luhn fausse, longueur, caractères.
func TestSIREN_Invalides(t *testing.T) {
	assert.False(t, validator.SIREN("732829321"), "clé Luhn fausse")
	assert.False(t, validator.SIREN("73282932"), "8 chiffres")
	assert.False(t, validator.SIREN("7328293200"), "10 chiffres")
	assert.False(t, validator.SIREN("73282932A"), "lettre")
	assert.False(t, validator.SIREN(""))
}

// Cas 3 : SIRET valide (exemple canonique INSEE) et refus des variantes cassées.
func TestSIRET(t *testing.T) {
	assert.True(t, validator.SIRET("73282932000074"))
	assert.True(t, validator.SIRET("732 829 320 00074"))
	assert.False(t, validator.SIRET("73282932000073"), "clé Luhn fausse")
	assert.False(t, validator.SIRET("732829320"), "SIREN seul")
}

// ──────────────────────────────────────────────────────────────────────────────
// TVA intracommunautaire / IBAN
// ──────────────────────────────────────────────────────────────────────────────

// Cas 4 : TVA française FR + clé + SIREN ; la casse et les espaces sont tolérés.
func TestTVAIntracom(t *testing.T) {
	assert.True(t, validator.TVAIntracom("FR44732829320"))
	assert.True(t, validator.TVAIntracom("fr44 732 829 320"))
	assert.False(t, validator.TVAIntracom("DE129273398"), "pays non français")
	assert.False(t, validator.TVAIntracom("FR4473282932"), "SIREN tronqué")
	assert.False(t, validator.TVAIntracom(""))
}

// Cas 5 : IBAN français, clé mod 97 vérifiée (ISO 13616).
func TestIBAN(t *testing.T) {
	assert.True(t, validator.IBAN("FR1420041010050500013M02606"))
	assert.True(t, validator.IBAN("FR14 2004 1010 0505 0001 3M02 606"))
	assert.False(t, validator.IBAN("FR1520041010050500013M02606"), "clé fausse")
	assert.False(t, validator.IBAN("DE89370400440532013000"), "IBAN allemand")
	assert.False(t, validator.IBAN("FR142004101005050001"), "trop court")
}

// ──────────────────────────────────────────────────────────────────────────────
// Email / téléphone / mot de passe
// ──────────────────────────────────────────────────────────────────────────────

// Cas 6 : formats email usuels.
func TestEmail(t *testing.T) {
	assert.True(t, validator.Email("claire.dumont@cuisines-dumont.fr"))
	assert.True(t, validator.Email("a+b@sub.example.com"))
	assert.False(t, validator.Email("claire@"))
	assert.False(t, validator.Email("claire.dumont.fr"))
}

// Cas 7 : téléphone français en notation nationale ou internationale.
func TestPhone(t *testing.T) {
	assert.True(t, validator.Phone("0612345678"))
	assert.True(t, validator.Phone("06 12 34 56 78"))
	assert.True(t, validator.Phone("+33612345678"))
	assert.False(t, validator.Phone("0012345678"), "indicatif 0 invalide")
	assert.False(t, validator.Phone("061234567"), "trop court")
}

// Cas 8 : robustesse du mot de passe : 8 caractères, majuscule, minuscule, chiffre.
func TestPassword(t *testing.T) {
	assert.True(t, validator.Password("Demo1234!"))
	assert.False(t, validator.Password("demo1234"), "pas de majuscule")
	assert.False(t, validator.Password("DEMO1234"), "pas de minuscule")
	assert.False(t, validator.Password("Demoyolo"), "pas de chiffre")
	assert.False(t, validator.Password("De1"), "trop court")
}
