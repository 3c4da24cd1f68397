package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/you-humble/btp-quote/internal/model"
)

const dateLayout = "02/01/2006"

// Disclaimer is the warning block printed under the quote totals.
func Disclaimer(qt model.QuoteType, study model.StudyStatus, margin float64) string {
	if qt == model.QuoteTypeDefinitive && study == model.StudyCompleted {
		return fmt.Sprintf("Devis définitif basé sur étude structurale complète. Marge d'incertitude: ±%s%%", pct(margin))
	}

	var lines []string
	switch study {
	case model.StudyNone, "":
		lines = append(lines,
			"ATTENTION: Aucune étude structurale réalisée",
			"• Les quantités de béton armé et ferraillage sont estimatives",
			"• Le type de fondations n'est pas déterminé",
			"• Les sections des éléments porteurs sont provisoires",
		)
	case model.StudyPending, model.StudyInProgress:
		lines = append(lines,
			"Étude structurale en cours",
			"• Certains éléments structurels restent à préciser",
		)
	}

	lines = append(lines,
		fmt.Sprintf("• Marge d'incertitude: ±%s%%", pct(margin)),
		"• Un devis définitif sera établi après étude béton armé complète",
		"• Les prix peuvent varier selon les résultats de l'étude géotechnique",
	)
	return strings.Join(lines, "\n")
}

// ProvisionsDisclaimer describes provisions loaded from a template.
func ProvisionsDisclaimer(tpl model.ProvisionTemplate) string {
	p := tpl.Provisions
	return strings.Join([]string{
		fmt.Sprintf("Provisions basées sur le modèle %q.", tpl.Name),
		"Ces montants sont estimatifs et seront affinés après étude structurale complète.",
		fmt.Sprintf("Fondations: %.1fM FCFA", p.Foundations/1e6),
		fmt.Sprintf("Structure: %.1fM FCFA", p.Structure/1e6),
		fmt.Sprintf("Ferraillage: %.1fM FCFA", p.Reinforcement/1e6),
		fmt.Sprintf("Total provisions: %.1fM FCFA", p.Total()/1e6),
	}, "\n")
}

// Terms assembles the disclaimer and the clause set for q.
func Terms(q model.Quote, revision model.PriceRevision, now time.Time) model.QuoteTerms {
	return model.QuoteTerms{
		Disclaimer:        Disclaimer(q.QuoteType, q.StructuralStudy.Status, q.UncertaintyMargin),
		RecommendedMargin: RecommendedMargin(q.ProjectType, q.StructuralStudy.Status),
		Clauses:           Clauses(q, revision, now),
	}
}

// Clauses selects the estimative or definitive clause and appends the
// responsibility, price revision and general clauses.
func Clauses(q model.Quote, revision model.PriceRevision, now time.Time) []model.LegalClause {
	if revision == "" {
		revision = model.RevisionFixed
	}

	main := estimativeClause(q.UncertaintyMargin, q.StructuralStudy.Status, now)
	if q.QuoteType == model.QuoteTypeDefinitive {
		main = definitiveClause(q.StructuralStudy, now)
	}

	return []model.LegalClause{
		main,
		responsibilityClause(q.QuoteType),
		priceRevisionClause(revision),
		generalClause(),
	}
}

func estimativeClause(margin float64, study model.StudyStatus, now time.Time) model.LegalClause {
	content := strings.Join([]string{
		"Le présent devis est de nature ESTIMATIVE et ne constitue pas un engagement ferme et définitif sur les montants indiqués.",
		"1. NATURE DU DEVIS\nCe devis a été établi SANS étude structurale complète (béton armé). Les montants relatifs aux fondations, à la structure porteuse et au ferraillage sont basés sur des ratios standards.",
		fmt.Sprintf("2. MARGE D'INCERTITUDE\nUne marge d'incertitude de ±%s%% est appliquée sur l'ensemble du projet.", pct(margin)),
		"3. STATUT DE L'ÉTUDE STRUCTURALE\n" + studyStatusText(study),
		"4. CONDITIONS DE RÉVISION\nLe montant définitif sera établi après réalisation de l'étude structurale complète: étude géotechnique, calculs de structure, plans d'exécution et métrés précis.",
		"5. ENGAGEMENT DU CLIENT\nLe Client reconnaît avoir été informé du caractère estimatif de ce devis.",
		"Date d'établissement : " + now.Format(dateLayout),
	}, "\n\n")

	return model.LegalClause{
		ID:        "estimative_clause",
		Title:     "Clause Devis Estimatif",
		Content:   content,
		Category:  model.ClauseEstimative,
		Mandatory: true,
	}
}

func definitiveClause(study model.StructuralStudy, now time.Time) model.LegalClause {
	engineer := "Étude réalisée par un bureau d'études agréé"
	if study.EngineerName != "" {
		engineer = "Ingénieur responsable : " + study.EngineerName
	}
	if study.CompletionDate != nil {
		engineer += "\nDate de l'étude : " + study.CompletionDate.Format(dateLayout)
	}

	content := strings.Join([]string{
		"Le présent devis est de nature DÉFINITIVE et constitue un engagement ferme sur les montants et quantités indiqués.",
		"1. NATURE DU DEVIS\nCe devis a été établi sur la base d'une étude structurale complète réalisée par un ingénieur structure qualifié.",
		"2. ÉTUDE STRUCTURALE\n" + engineer,
		"3. GARANTIE DES MONTANTS\nLes montants indiqués sont fermes sous réserve du respect des hypothèses de l'étude et de l'absence de modification du projet.",
		fmt.Sprintf("4. MARGE DE SÉCURITÉ\nUne marge de sécurité technique de ±%s%% est intégrée.", pct(model.DefinitiveMargin)),
		"5. VALIDITÉ\nCe devis définitif est valable 90 jours à compter de sa date d'établissement.",
		"Date d'établissement : " + now.Format(dateLayout),
	}, "\n\n")

	return model.LegalClause{
		ID:        "definitive_clause",
		Title:     "Clause Devis Définitif",
		Content:   content,
		Category:  model.ClauseDefinitive,
		Mandatory: true,
	}
}

func responsibilityClause(qt model.QuoteType) model.LegalClause {
	guarantee := "ATTENTION : Ce devis étant de nature estimative, l'Entreprise ne peut garantir les quantités et montants indiqués tant qu'une étude structurale complète n'a pas été réalisée."
	warranties := "Les garanties légales s'appliqueront après transformation du devis estimatif en devis définitif et réalisation des travaux."
	if qt == model.QuoteTypeDefinitive {
		guarantee = "L'Entreprise garantit la conformité des ouvrages aux plans d'exécution validés et le respect des calculs de structure établis."
		warranties = "Garantie de parfait achèvement : 1 an\nGarantie biennale (équipements) : 2 ans\nGarantie décennale (structure) : 10 ans"
	}

	content := strings.Join([]string{
		"1. RESPONSABILITÉ DE L'ENTREPRISE\nL'Entreprise s'engage à réaliser les travaux dans les règles de l'art.\n" + guarantee,
		"2. RESPONSABILITÉ DU CLIENT\nLe Client s'engage à fournir un terrain accessible, obtenir les autorisations administratives et respecter le calendrier de paiement.",
		"3. ASSURANCES\nResponsabilité Civile Professionnelle, Garantie Décennale, Assurance Tous Risques Chantier.",
		"4. GARANTIES\n" + warranties,
		"5. LITIGES\nLes parties recherchent une solution amiable avant toute action judiciaire.",
	}, "\n\n")

	return model.LegalClause{
		ID:        "responsibility_clause",
		Title:     "Clause de Responsabilité",
		Content:   content,
		Category:  model.ClauseResponsibility,
		Mandatory: true,
	}
}

func priceRevisionClause(rev model.PriceRevision) model.LegalClause {
	var content string
	switch rev {
	case model.RevisionBT01, model.RevisionTP01:
		index := "Indice BT01 (Bâtiment tous corps d'état)"
		if rev == model.RevisionTP01 {
			index = "Indice TP01 (Travaux publics)"
		}
		content = strings.Join([]string{
			"1. PRINCIPE\nLes prix du présent devis sont révisables selon l'" + index + ".",
			"2. FORMULE DE RÉVISION\nP = P₀ × (0,15 + 0,85 × In/I₀)",
			"3. PLAFONNEMENT\nLa révision de prix est plafonnée à ±20% du montant initial du contrat.",
		}, "\n\n")
	default:
		content = strings.Join([]string{
			"1. NATURE DES PRIX\nLes prix du présent devis sont FERMES et NON RÉVISABLES pendant toute la durée du chantier.",
			"2. DURÉE DE VALIDITÉ\nCette clause de prix ferme s'applique pour une durée maximale de 12 mois à compter de la signature du contrat.",
		}, "\n\n")
	}

	return model.LegalClause{
		ID:       "price_revision_clause",
		Title:    "Clause de Révision de Prix",
		Content:  content,
		Category: model.ClauseRevision,
	}
}

func generalClause() model.LegalClause {
	content := strings.Join([]string{
		fmt.Sprintf("1. VALIDITÉ DU DEVIS\nCe devis est valable %d jours à compter de sa date d'émission.", model.DefaultValidityDays),
		"2. DÉLAIS D'EXÉCUTION\nLes délais indiqués sont donnés à titre indicatif.",
		"3. MODIFICATIONS\nToute modification du projet fera l'objet d'un avenant au présent devis.",
		"4. PÉNALITÉS DE RETARD\n0,1% du montant total par jour de retard imputable à l'Entreprise, plafonnées à 10%.",
		"5. DROIT APPLICABLE\nLe présent devis est soumis au droit camerounais.",
	}, "\n\n")

	return model.LegalClause{
		ID:        "general_clauses",
		Title:     "Clauses Générales",
		Content:   content,
		Category:  model.ClauseGeneral,
		Mandatory: true,
	}
}

func studyStatusText(s model.StudyStatus) string {
	switch s {
	case model.StudyNone, "":
		return "Aucune étude structurale n'a été réalisée à ce jour. Les provisions sont basées sur des ratios standards."
	case model.StudyPending:
		return "Une étude structurale est prévue mais n'a pas encore débuté. Les provisions restent estimatives."
	case model.StudyInProgress:
		return "Une étude structurale est en cours de réalisation. Les provisions seront affinées à l'issue de cette étude."
	case model.StudyCompleted:
		return "L'étude structurale est complétée. Ce devis peut être transformé en devis définitif."
	default:
		return "Statut de l'étude non précisé."
	}
}

func pct(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
