// Package pdf implémente le rendu de la fiche projet au format A4.
//
// Mise en page :
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER : Raison sociale + SIRET  │  Nom du projet + Statut │
//	│  ───────────────────────────────────────────────────────── │
//	│  CLIENT : Nom + coordonnées                                 │
//	│  RÉFÉRENT : Salarié en charge du projet                     │
//	│  ───────────────────────────────────────────────────────── │
//	│  PROJET : Budget / Progression                              │
//	│  TABLEAU : Tâches | Statut | Échéance | Avancement          │
//	│  ───────────────────────────────────────────────────────── │
//	│  FOOTER : Coordonnées légales de l'entreprise               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain/entity"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 99}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.FichePDFGenerator = (*MarotoFicheGenerator)(nil)

// MarotoFicheGenerator implémente usecase.FichePDFGenerator avec Maroto v2.
type MarotoFicheGenerator struct{}

// NewMarotoFicheGenerator construit le générateur.
func NewMarotoFicheGenerator() *MarotoFicheGenerator { return &MarotoFicheGenerator{} }

// GenerateFichePDF génère la fiche projet et renvoie ses octets.
func (g *MarotoFicheGenerator) GenerateFichePDF(
	org *entity.Organization,
	details *entity.ProjectDetails,
	taches []*entity.Task,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fiche projet "+details.Project.Nom, true).
		WithAuthor(org.Nom, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(org, &details.Project))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(details.Contact))
	m.AddRows(referentRow(details.Referent))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(projetRow(&details.Project))

	m.AddRows(tableHeaderRow())
	for _, r := range tableTaskRows(taches) {
		m.AddRows(r)
	}
	if len(taches) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Aucune tâche rattachée à ce projet.", props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 1,
			}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(org))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: génération du document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

// headerRow : raison sociale + SIRET (gauche), nom du projet + statut (droite).
func headerRow(org *entity.Organization, p *entity.Project) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(org.Nom, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SIRET : "+nonEmpty(org.SIRET, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FICHE PROJET", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(p.Nom, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(entity.StatusFromCode(p.Statut), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow : coordonnées du client lié au projet.
func clientRow(contact *entity.Contact) core.Row {
	nom, coords := "—", "—"
	if contact != nil {
		nom = contact.DisplayName()
		coords = fmt.Sprintf("Email : %s   |   Tél : %s",
			nonEmpty(contact.Email, "—"), nonEmpty(contact.Telephone, "—"))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nom, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(coords, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// referentRow : salarié référent du projet.
func referentRow(referent *entity.Member) core.Row {
	nom := "—"
	if referent != nil {
		nom = referent.DisplayName()
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New("RÉFÉRENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nom, props.Text{Size: 9, Top: 6}),
		),
	)
}

// projetRow : budget et avancement global.
func projetRow(p *entity.Project) core.Row {
	return row.New(12).Add(
		col.New(6).Add(
			text.New("Budget", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(formatMontant(p.Budget.StringFixed(2))+" €", props.Text{Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("Progression", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d %%", p.Progression), props.Text{
				Size: 10, Align: align.Right, Top: 6,
			}),
		),
	)
}

// tableHeaderRow : entête du tableau des tâches.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tâche", 6, align.Left),
		h("Statut", 3, align.Center),
		h("Échéance", 2, align.Center),
		h("Avancement", 1, align.Right),
	)
}

// tableTaskRows : une ligne par tâche rattachée au projet.
func tableTaskRows(taches []*entity.Task) []core.Row {
	result := make([]core.Row, 0, len(taches))
	for _, t := range taches {
		echeance := "—"
		if t.DateEcheance != nil {
			echeance = t.DateEcheance.Format("02/01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				t.Titre,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				entity.StatusFromCode(t.Statut),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				echeance,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d%%", t.Progression),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// footerRow : coordonnées légales de l'entreprise.
func footerRow(org *entity.Organization) core.Row {
	adresse := nonEmpty(org.Adresse, "")
	if org.CodePostal != "" || org.Ville != "" {
		adresse = fmt.Sprintf("%s, %s %s", adresse, org.CodePostal, org.Ville)
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%s — %s", org.Nom, nonEmpty(adresse, "—")), props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
		text.New(fmt.Sprintf("SIREN : %s   |   TVA : %s   |   %s",
			nonEmpty(org.SIREN, "—"),
			nonEmpty(org.TVAIntracom, "—"),
			nonEmpty(org.Email, "—"),
		), props.Text{Size: 7, Color: colorGray, Top: 6}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMontant insère des espaces de milliers dans la partie entière.
// Ex : "25000.00" → "25 000.00"
func formatMontant(s string) string {
	entier, reste := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			entier, reste = s[:i], s[i:]
			break
		}
	}
	n := len(entier)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3+len(reste))
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, entier[i])
	}
	return string(buf) + reste
}
