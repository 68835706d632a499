// Package validator regroupe les contrôles de champs côté serveur :
// identifiants légaux français (SIREN, SIRET, TVA intracommunautaire, IBAN),
// email, téléphone et robustesse de mot de passe.
package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reSIREN   = regexp.MustCompile(`^\d{9}$`)
	reSIRET   = regexp.MustCompile(`^\d{14}$`)
	reTVA     = regexp.MustCompile(`^FR[0-9A-Z]{2}\d{9}$`)
	reIBANFR  = regexp.MustCompile(`^FR\d{2}[0-9A-Z]{23}$`)
	reEmail   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	rePhoneFR = regexp.MustCompile(`^(?:\+33|0)[1-9]\d{8}$`)
)

// normalize supprime espaces et points de groupage saisis par l'utilisateur.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// luhn vérifie la clé de contrôle Luhn d'une suite de chiffres.
func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// SIREN vérifie un numéro SIREN (9 chiffres, clé Luhn).
func SIREN(s string) bool {
	s = normalize(s)
	return reSIREN.MatchString(s) && luhn(s)
}

// SIRET vérifie un numéro SIRET (14 chiffres, clé Luhn).
// Les 9 premiers chiffres forment le SIREN de l'établissement.
func SIRET(s string) bool {
	s = normalize(s)
	return reSIRET.MatchString(s) && luhn(s)
}

// TVAIntracom vérifie un numéro de TVA intracommunautaire français (FR + clé + SIREN).
func TVAIntracom(s string) bool {
	s = strings.ToUpper(normalize(s))
	return reTVA.MatchString(s)
}

// IBAN vérifie un IBAN français (27 caractères, clé mod 97).
func IBAN(s string) bool {
	s = strings.ToUpper(normalize(s))
	if !reIBANFR.MatchString(s) {
		return false
	}
	return ibanMod97(s) == 1
}

// ibanMod97 applique la vérification ISO 13616 : rotation des 4 premiers
// caractères en fin de chaîne, lettres converties en nombres, modulo 97.
func ibanMod97(iban string) int {
	rearranged := iban[4:] + iban[:4]
	rem := 0
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			n := int(r-'A') + 10
			rem = (rem*100 + n) % 97
		} else {
			rem = (rem*10 + int(r-'0')) % 97
		}
	}
	return rem
}

// Email vérifie le format d'une adresse email.
func Email(s string) bool {
	return reEmail.MatchString(s)
}

// Phone vérifie un numéro de téléphone français (0X ou +33X, séparateurs tolérés).
func Phone(s string) bool {
	return rePhoneFR.MatchString(normalize(s))
}

// Password vérifie la robustesse d'un mot de passe :
// 8 caractères minimum, une majuscule, une minuscule et un chiffre.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
