package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL schéma complet pour une installation neuve. Toutes les tables
// portent id_organisation et les entités métier un deleted_at (soft delete).
const schemaSQL = `
CREATE TABLE IF NOT EXISTS organisations (
	id UUID PRIMARY KEY,
	nom TEXT NOT NULL,
	adresse TEXT,
	code_postal TEXT,
	ville TEXT,
	siren TEXT,
	siret TEXT,
	tva_intracom TEXT,
	iban TEXT,
	email TEXT,
	telephone TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS roles (
	id UUID PRIMARY KEY,
	id_organisation UUID NOT NULL REFERENCES organisations(id),
	nom TEXT NOT NULL,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (id_organisation, nom)
);

CREATE TABLE IF NOT EXISTS salaries (
	id UUID PRIMARY KEY,
	id_organisation UUID NOT NULL REFERENCES organisations(id),
	prenom TEXT NOT NULL,
	nom TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	telephone TEXT,
	password_hash TEXT,
	statut TEXT NOT NULL DEFAULT 'actif',
	id_role UUID REFERENCES roles(id),
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
	id UUID PRIMARY KEY,
	id_organisation UUID NOT NULL REFERENCES organisations(id),
	prenom TEXT NOT NULL,
	nom TEXT NOT NULL,
	email TEXT,
	telephone TEXT,
	recherche TEXT NOT NULL DEFAULT '',
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS projets (
	id UUID PRIMARY KEY,
	id_organisation UUID NOT NULL REFERENCES organisations(id),
	nom TEXT NOT NULL,
	statut TEXT NOT NULL DEFAULT 'non_commence',
	progression INTEGER NOT NULL DEFAULT 0,
	budget NUMERIC(12,2) NOT NULL DEFAULT 0,
	id_contact UUID REFERENCES contacts(id),
	id_referent UUID REFERENCES salaries(id),
	decouverte JSONB,
	cuisine JSONB,
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS taches (
	id UUID PRIMARY KEY,
	id_organisation UUID NOT NULL REFERENCES organisations(id),
	ordre INTEGER NOT NULL DEFAULT 0,
	type TEXT NOT NULL DEFAULT 'Tâche',
	titre TEXT NOT NULL,
	tag TEXT,
	id_projet UUID REFERENCES projets(id),
	id_contact UUID REFERENCES contacts(id),
	id_affecte_a UUID REFERENCES salaries(id),
	statut TEXT NOT NULL DEFAULT 'non_commence',
	progression INTEGER NOT NULL DEFAULT 0,
	date_echeance DATE,
	note TEXT,
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rendez_vous (
	id UUID PRIMARY KEY,
	id_organisation UUID NOT NULL REFERENCES organisations(id),
	titre TEXT NOT NULL,
	id_contact UUID REFERENCES contacts(id),
	date_debut TIMESTAMPTZ NOT NULL,
	date_fin TIMESTAMPTZ NOT NULL,
	lieu TEXT,
	commentaires TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_taches_org ON taches (id_organisation) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_taches_projet ON taches (id_projet) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_projets_org ON projets (id_organisation) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_rdv_org_debut ON rendez_vous (id_organisation, date_debut);
CREATE INDEX IF NOT EXISTS idx_contacts_recherche ON contacts (id_organisation, recherche);
CREATE INDEX IF NOT EXISTS idx_salaries_org ON salaries (id_organisation) WHERE deleted_at IS NULL;
`

// Migrate applique le schéma. Idempotent, sans versionnage : les tables
// existantes ne sont pas touchées.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("application du schéma: %w", err)
	}
	return nil
}
