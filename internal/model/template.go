package model

type TemplateTask struct {
	Name        string
	Description string
	Articles    []Article
}

type TemplatePhase struct {
	Name        string
	Description string
	Tasks       []TemplateTask
}

// QuoteTemplate is a reusable phase/task skeleton.
type QuoteTemplate struct {
	ID          string
	Name        string
	Description string
	ProjectType ProjectType
	Phases      []TemplatePhase
}

// ProvisionTemplate preloads provision buckets for a typical project.
type ProvisionTemplate struct {
	ID          string
	Name        string
	Description string
	ProjectType ProjectType
	Provisions  StructuralProvisions
}

func task(name, desc string) TemplateTask {
	return TemplateTask{Name: name, Description: desc}
}

var QuoteTemplates = []QuoteTemplate{
	{
		ID:          "gros-oeuvre",
		Name:        "Gros Œuvre",
		Description: "Fondations, structure, maçonnerie",
		ProjectType: ProjectConstruction,
		Phases: []TemplatePhase{
			{Name: "Terrassement", Description: "Préparation du terrain et excavation", Tasks: []TemplateTask{
				task("Décapage terre végétale", "Enlèvement de la couche superficielle"),
				task("Excavation fondations", "Creusement pour fondations"),
				task("Évacuation terres", "Transport et évacuation des déblais"),
			}},
			{Name: "Fondations", Description: "Coulage des fondations et soubassement", Tasks: []TemplateTask{
				task("Semelles filantes", "Coulage béton armé"),
				task("Murs de soubassement", "Élévation murs enterrés"),
				task("Drainage", "Système d'évacuation des eaux"),
			}},
			{Name: "Élévation", Description: "Montage des murs et structure", Tasks: []TemplateTask{
				task("Murs porteurs", "Maçonnerie traditionnelle"),
				task("Cloisons", "Séparations intérieures"),
				task("Charpente", "Structure de toiture"),
			}},
		},
	},
	{
		ID:          "second-oeuvre",
		Name:        "Second Œuvre",
		Description: "Finitions, électricité, plomberie",
		ProjectType: ProjectConstruction,
		Phases: []TemplatePhase{
			{Name: "Électricité", Description: "Installation électrique complète", Tasks: []TemplateTask{
				task("Tableau électrique", "Pose et raccordement"),
				task("Câblage", "Passage des câbles"),
				task("Prises et éclairage", "Installation points lumineux"),
			}},
			{Name: "Plomberie", Description: "Installation sanitaire et chauffage", Tasks: []TemplateTask{
				task("Réseau eau froide/chaude", "Tuyauterie complète"),
				task("Sanitaires", "WC, lavabos, douches"),
				task("Chauffage", "Radiateurs et chaudière"),
			}},
			{Name: "Menuiseries", Description: "Portes et fenêtres", Tasks: []TemplateTask{
				task("Fenêtres", "Pose menuiseries extérieures"),
				task("Portes intérieures", "Installation portes"),
				task("Volets", "Pose volets roulants"),
			}},
		},
	},
	{
		ID:          "finitions",
		Name:        "Finitions",
		Description: "Peinture, revêtements, nettoyage",
		ProjectType: ProjectConstruction,
		Phases: []TemplatePhase{
			{Name: "Revêtements sols", Description: "Carrelage, parquet, moquette", Tasks: []TemplateTask{
				task("Carrelage", "Pose carrelage salles d'eau"),
				task("Parquet", "Pose parquet chambres/salon"),
				task("Faïence", "Revêtement mural cuisine/SDB"),
			}},
			{Name: "Peinture", Description: "Peinture intérieure et extérieure", Tasks: []TemplateTask{
				task("Préparation supports", "Ponçage et rebouchage"),
				task("Peinture intérieure", "Murs et plafonds"),
				task("Peinture extérieure", "Façades et menuiseries"),
			}},
			{Name: "Nettoyage", Description: "Nettoyage final et livraison", Tasks: []TemplateTask{
				task("Nettoyage chantier", "Évacuation gravats"),
				task("Nettoyage final", "Remise en état"),
				task("Réception travaux", "Contrôle qualité"),
			}},
		},
	},
}

// Amounts in FCFA.
var ProvisionTemplates = []ProvisionTemplate{
	{ID: "villa-r1", Name: "Villa R+1 Standard", Description: "Maison individuelle à un étage (150-200m²)", ProjectType: ProjectConstruction,
		Provisions: StructuralProvisions{Foundations: 5_000_000, Structure: 8_000_000, Reinforcement: 3_000_000}},
	{ID: "villa-r2", Name: "Villa R+2", Description: "Maison individuelle à deux étages (200-300m²)", ProjectType: ProjectConstruction,
		Provisions: StructuralProvisions{Foundations: 7_000_000, Structure: 12_000_000, Reinforcement: 4_500_000}},
	{ID: "immeuble-r4", Name: "Immeuble R+4", Description: "Immeuble collectif 4 étages", ProjectType: ProjectConstruction,
		Provisions: StructuralProvisions{Foundations: 15_000_000, Structure: 25_000_000, Reinforcement: 10_000_000}},
	{ID: "immeuble-r8", Name: "Immeuble R+8", Description: "Immeuble collectif 8 étages", ProjectType: ProjectConstruction,
		Provisions: StructuralProvisions{Foundations: 30_000_000, Structure: 50_000_000, Reinforcement: 20_000_000}},
	{ID: "extension-simple", Name: "Extension Simple", Description: "Extension de bâtiment existant (< 50m²)", ProjectType: ProjectExtension,
		Provisions: StructuralProvisions{Foundations: 2_000_000, Structure: 4_000_000, Reinforcement: 1_500_000}},
	{ID: "extension-complexe", Name: "Extension Complexe", Description: "Extension avec étage (50-100m²)", ProjectType: ProjectExtension,
		Provisions: StructuralProvisions{Foundations: 4_000_000, Structure: 7_000_000, Reinforcement: 2_500_000}},
	{ID: "renovation-legere", Name: "Rénovation Légère", Description: "Renforcement structure existante", ProjectType: ProjectRenovation,
		Provisions: StructuralProvisions{Foundations: 1_000_000, Structure: 3_000_000, Reinforcement: 1_000_000}},
	{ID: "renovation-lourde", Name: "Rénovation Lourde", Description: "Restructuration complète", ProjectType: ProjectRenovation,
		Provisions: StructuralProvisions{Foundations: 3_000_000, Structure: 8_000_000, Reinforcement: 3_000_000}},
	{ID: "hangar-industriel", Name: "Hangar Industriel", Description: "Structure métallique (500-1000m²)", ProjectType: ProjectInfrastructure,
		Provisions: StructuralProvisions{Foundations: 10_000_000, Structure: 20_000_000, Reinforcement: 5_000_000}},
	{ID: "batiment-commercial", Name: "Bâtiment Commercial", Description: "Centre commercial / Showroom", ProjectType: ProjectInfrastructure,
		Provisions: StructuralProvisions{Foundations: 12_000_000, Structure: 22_000_000, Reinforcement: 8_000_000}},
}

func QuoteTemplateByID(id string) (QuoteTemplate, bool) {
	for _, t := range QuoteTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return QuoteTemplate{}, false
}

func ProvisionTemplateByID(id string) (ProvisionTemplate, bool) {
	for _, t := range ProvisionTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return ProvisionTemplate{}, false
}
